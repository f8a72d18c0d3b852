package contacts

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, c Contact) error
	Update(ctx context.Context, id string, set bson.M) (Contact, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Contact, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	Stats(ctx context.Context) (Stats, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, c Contact) error {
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Contact, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Contact
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Contact{}, err
	}
	return updated, nil
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Contact, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, listQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Contact, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, listQuery(filter))
}

func statusCount(status string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

var statsPipeline = mongo.Pipeline{
	{{Key: "$group", Value: bson.M{
		"_id":             nil,
		"totalContacts":   bson.M{"$sum": 1},
		"pendingContacts": statusCount(StatusPending),
		"readContacts":    statusCount(StatusRead),
		"repliedContacts": statusCount(StatusReplied),
	}}},
}

func (r *MongoRepository) Stats(ctx context.Context) (Stats, error) {
	cursor, err := r.col.Aggregate(ctx, statsPipeline)
	if err != nil {
		return Stats{}, err
	}
	defer cursor.Close(ctx)

	var rows []Stats
	if err := cursor.All(ctx, &rows); err != nil {
		return Stats{}, err
	}
	if len(rows) == 0 {
		return Stats{}, nil
	}
	return rows[0], nil
}
