package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartAddSameLineTwiceMerges(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.register(t, "ada@example.com")
	p := env.product(t, "Pegasus", 100)

	_, err := env.cart.Add(ctx, user, p.ID, 9, 2)
	require.NoError(t, err)
	items, err := env.cart.Add(ctx, user, p.ID, 9, 3)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "Pegasus", items[0].Product.Name)

	items, err = env.cart.Add(ctx, user, p.ID, 9.5, 1)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCartAddRejectsMissingAndOutOfStockProducts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.register(t, "ada@example.com")

	_, err := env.cart.Add(ctx, user, primitive.NewObjectID(), 9, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	p := env.product(t, "Pegasus", 100)
	zero := 0
	_, err = env.products.Update(ctx, p.ID, ProductPatch{StockQuantity: &zero})
	require.NoError(t, err)

	_, err = env.cart.Add(ctx, user, p.ID, 9, 1)
	assert.ErrorIs(t, err, ErrOutOfStock)
	var stockErr OutOfStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Pegasus", stockErr.Name)

	_, err = env.cart.Add(ctx, user, p.ID, 9, 0)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCartUpdateQuantityNonPositiveRemoves(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.register(t, "ada@example.com")
	p := env.product(t, "Pegasus", 100)

	for _, qty := range []int{0, -2} {
		_, err := env.cart.Add(ctx, user, p.ID, 9, 2)
		require.NoError(t, err)

		items, err := env.cart.UpdateQuantity(ctx, user, p.ID, 9, qty)
		require.NoError(t, err)
		assert.Empty(t, items, "qty=%d", qty)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.register(t, "ada@example.com")
	p := env.product(t, "Pegasus", 100)

	_, err := env.cart.UpdateQuantity(ctx, user, p.ID, 9, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	_, err = env.cart.Add(ctx, user, p.ID, 9, 1)
	require.NoError(t, err)
	items, err := env.cart.UpdateQuantity(ctx, user, p.ID, 9, 4)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestCartRemoveAndClear(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.register(t, "ada@example.com")
	a := env.product(t, "Pegasus", 100)
	b := env.product(t, "Vomero", 150)

	_, err := env.cart.Add(ctx, user, a.ID, 9, 1)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, user, b.ID, 10, 1)
	require.NoError(t, err)

	items, err := env.cart.Remove(ctx, user, a.ID, 9)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].Product.ID)

	items, err = env.cart.Clear(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartGetDropsDeletedProducts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	user := env.register(t, "ada@example.com")
	a := env.product(t, "Pegasus", 100)
	b := env.product(t, "Vomero", 150)

	_, err := env.cart.Add(ctx, user, a.ID, 9, 1)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, user, b.ID, 9, 1)
	require.NoError(t, err)
	require.NoError(t, env.products.Delete(ctx, a.ID))

	items, err := env.cart.Get(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Vomero", items[0].Product.Name)
}
