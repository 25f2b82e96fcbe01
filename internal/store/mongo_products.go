package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type MongoProducts struct {
	coll *mongo.Collection
}

func NewMongoProducts(db *mongo.Database) *MongoProducts {
	return &MongoProducts{coll: db.Collection("products")}
}

func (s *MongoProducts) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.coll.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	product.Normalize()
	return nil
}

func (s *MongoProducts) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	product.Normalize()
	return product, nil
}

func productQuery(filter ProductFilter) bson.M {
	query := bson.M{}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query["category"] = category
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	if filter.IsNew {
		query["isNew"] = true
	}
	if filter.IsFeatured {
		query["isFeatured"] = true
	}
	return query
}

func (s *MongoProducts) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetSkip(filter.Skip).SetLimit(filter.Limit)
	}

	cursor, err := s.coll.Find(ctx, productQuery(filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		product.Normalize()
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoProducts) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.coll.CountDocuments(ctx, bson.M{})
}

func productSet(update ProductUpdate) bson.M {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.OriginalPrice != nil {
		set["originalPrice"] = *update.OriginalPrice
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if update.Images != nil {
		set["images"] = models.StringList(*update.Images)
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Brand != nil {
		set["brand"] = *update.Brand
	}
	if update.Sizes != nil {
		set["sizes"] = *update.Sizes
	}
	if update.Colors != nil {
		set["colors"] = models.StringList(*update.Colors)
	}
	if update.Features != nil {
		set["features"] = models.StringList(*update.Features)
	}
	if update.InStock != nil {
		set["inStock"] = *update.InStock
	}
	if update.StockQuantity != nil {
		set["stockQuantity"] = *update.StockQuantity
	}
	if update.IsNew != nil {
		set["isNew"] = *update.IsNew
	}
	if update.IsFeatured != nil {
		set["isFeatured"] = *update.IsFeatured
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	return set
}

func (s *MongoProducts) Update(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (models.Product, error) {
	set := productSet(update)
	set["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var product models.Product
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	product.Normalize()
	return product, nil
}

func (s *MongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
