package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type MongoOrders struct {
	coll *mongo.Collection
}

func NewMongoOrders(db *mongo.Database) *MongoOrders {
	return &MongoOrders{coll: db.Collection("orders")}
}

func (s *MongoOrders) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.coll.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

func (s *MongoOrders) findOne(ctx context.Context, filter bson.M) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var order models.Order
	err := s.coll.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	return order, err
}

func (s *MongoOrders) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoOrders) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoOrders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"user": userID})
}

func (s *MongoOrders) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoOrders) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.coll.CountDocuments(ctx, bson.M{})
}

// Revenue sums the totals of every order that was not cancelled.
func (s *MongoOrders) Revenue(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": models.StatusCancelled}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

func (s *MongoOrders) updateOne(ctx context.Context, filter bson.M, set bson.M) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var order models.Order
	err := s.coll.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	return order, err
}

// SetPayment only applies while the order is still in the from state.
func (s *MongoOrders) SetPayment(ctx context.Context, id primitive.ObjectID, paymentID string, from, to models.OrderStatus) (models.Order, error) {
	order, err := s.updateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"paymentId": paymentID, "status": to})
	if !errors.Is(err, ErrNotFound) {
		return order, err
	}

	countCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	n, err := s.coll.CountDocuments(countCtx, bson.M{"_id": id})
	if err != nil {
		return models.Order{}, err
	}
	if n > 0 {
		return models.Order{}, ErrStale
	}
	return models.Order{}, ErrNotFound
}

func (s *MongoOrders) SetStatusByOrderID(ctx context.Context, orderID string, status models.OrderStatus) (models.Order, error) {
	return s.updateOne(ctx, bson.M{"orderId": orderID}, bson.M{"status": status})
}

func (s *MongoOrders) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.coll.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
