package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const indexTimeout = 5 * time.Second

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func index(name string, unique bool, keys ...bson.E) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: bson.D(keys), Options: opts}
}

// indexPlan lists the indexes the store queries rely on.
func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{
			collection: "products",
			models: []mongo.IndexModel{
				index("category_createdAt", false, bson.E{Key: "category", Value: 1}, bson.E{Key: "createdAt", Value: -1}),
				index("createdAt_desc", false, bson.E{Key: "createdAt", Value: -1}),
				index("featured_createdAt", false, bson.E{Key: "isFeatured", Value: 1}, bson.E{Key: "createdAt", Value: -1}),
			},
		},
		{
			collection: "users",
			models: []mongo.IndexModel{
				index("email_unique", true, bson.E{Key: "email", Value: 1}),
			},
		},
		{
			collection: "orders",
			models: []mongo.IndexModel{
				index("orderId_unique", true, bson.E{Key: "orderId", Value: 1}),
				index("user_createdAt", false, bson.E{Key: "user", Value: 1}, bson.E{Key: "createdAt", Value: -1}),
				index("status", false, bson.E{Key: "status", Value: 1}),
			},
		},
	}
}

// EnsureIndexes creates every planned index. A failing collection is logged
// and reported but does not stop the others.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var errs []error
	for _, plan := range indexPlan() {
		if err := ensureCollectionIndexes(ctx, db, plan); err != nil {
			log.Printf("[DB] [WARN] %s indexes: %v", plan.collection, err)
			errs = append(errs, fmt.Errorf("%s: %w", plan.collection, err))
		}
	}
	return errors.Join(errs...)
}

func ensureCollectionIndexes(ctx context.Context, db *mongo.Database, plan collectionIndexes) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	names, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.models)
	if err != nil {
		return err
	}
	log.Printf("[DB] [INFO] %s indexes ready: %v", plan.collection, names)
	return nil
}
