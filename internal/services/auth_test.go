package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestRegisterRejectsDuplicateEmailIgnoringCase(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ada@example.com")

	_, err := env.auth.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Byron",
		Email:     "  ADA@Example.com ",
		Password:  "another1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterReturnsUsableToken(t *testing.T) {
	env := newTestEnv(t, nil)
	session, err := env.auth.Register(context.Background(), RegisterInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "Grace@Example.com",
		Password:  "cobol60",
	})
	require.NoError(t, err)

	id, err := env.tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, id.Hex())
	assert.Equal(t, "grace@example.com", session.User.Email)
	assert.Equal(t, models.RoleUser, session.User.Role)
}

func TestLoginThenMeReturnsRegisteredIdentity(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.register(t, "ada@example.com")

	session, err := env.auth.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)

	id, err := env.tokens.Verify(session.Token)
	require.NoError(t, err)

	me, err := env.auth.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.FirstName)
	assert.Equal(t, "Lovelace", me.LastName)
	assert.Equal(t, "ada@example.com", me.Email)
	assert.NotNil(t, me.LastLogin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "ada@example.com")

	_, err := env.auth.Login(context.Background(), "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.register(t, "ada@example.com")

	_, err := env.auth.UpdateProfile(ctx, id, ProfileUpdate{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	short := "A"
	_, err = env.auth.UpdateProfile(ctx, id, ProfileUpdate{FirstName: &short})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "firstName")

	name := "  Augusta "
	user, err := env.auth.UpdateProfile(ctx, id, ProfileUpdate{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", user.FirstName)
	assert.Equal(t, "Lovelace", user.LastName)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.register(t, "ada@example.com")

	assert.ErrorIs(t, env.auth.ChangePassword(ctx, id, "nope", "newsecret"), ErrWrongPassword)
	require.NoError(t, env.auth.ChangePassword(ctx, id, "secret1", "newsecret"))

	_, err := env.auth.Login(ctx, "ada@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, "ada@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestDeleteAccountRemovesOrders(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.register(t, "ada@example.com")
	p := env.product(t, "Pegasus", 100)

	_, err := env.orders.Create(ctx, id, CreateOrderInput{
		Items:           []OrderLineInput{{ProductID: p.ID.Hex(), Size: 9, Quantity: 1}},
		ShippingAddress: "1 Analytical Way",
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.DeleteAccount(ctx, id))

	orders, err := env.orders.ListOwn(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = env.auth.Me(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, env.auth.DeleteAccount(ctx, primitive.NewObjectID()), ErrUserNotFound)
}
