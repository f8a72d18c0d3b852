package projects

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, p Project) error
	Get(ctx context.Context, id string) (Project, error)
	Update(ctx context.Context, p Project) (Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Project, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	Featured(ctx context.Context, limit int64) ([]Project, error)
	Distinct(ctx context.Context, field string) ([]string, error)
	Increment(ctx context.Context, id, field string) (Project, error)
	Stats(ctx context.Context) (Stats, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

var listSort = bson.D{
	{Key: "priority", Value: -1},
	{Key: "completionDate", Value: -1},
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{"isPublic": true}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Technology != "" {
		query["technologies"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Technology), Options: "i"}
	}
	if filter.Featured {
		query["isFeatured"] = true
	}
	return query
}

// updateFields is every stored field an update may overwrite. Counters and
// the creation time are owned by the database.
func updateFields(p Project) (bson.M, error) {
	raw, err := bson.Marshal(p)
	if err != nil {
		return nil, err
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	for _, k := range []string{"_id", "views", "likes", "createdAt"} {
		delete(set, k)
	}
	return set, nil
}

// unsetFields lists optional fields that are absent from p and must be
// cleared so the stored document matches it.
func unsetFields(set bson.M) bson.M {
	unset := bson.M{}
	for _, k := range []string{"liveUrl", "githubUrl", "startDate", "completionDate", "estimatedHours", "actualHours", "metrics"} {
		if _, ok := set[k]; !ok {
			unset[k] = ""
		}
	}
	return unset
}

func (r *MongoRepository) Create(ctx context.Context, p Project) error {
	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Project, error) {
	var p Project
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return Project{}, err
	}
	return p, nil
}

func (r *MongoRepository) Update(ctx context.Context, p Project) (Project, error) {
	set, err := updateFields(p)
	if err != nil {
		return Project{}, fmt.Errorf("encode project: %w", err)
	}
	update := bson.M{"$set": set}
	if unset := unsetFields(set); len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Project
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, update, opts).Decode(&updated); err != nil {
		return Project{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Project, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Project, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Project, error) {
	opts := options.Find().
		SetSort(listSort).
		SetLimit(limit).
		SetSkip(offset)
	return r.find(ctx, listQuery(filter), opts)
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, listQuery(filter))
}

func (r *MongoRepository) Featured(ctx context.Context, limit int64) ([]Project, error) {
	opts := options.Find().
		SetSort(listSort).
		SetLimit(limit)
	return r.find(ctx, listQuery(ListFilter{Featured: true}), opts)
}

func (r *MongoRepository) Distinct(ctx context.Context, field string) ([]string, error) {
	values, err := r.col.Distinct(ctx, field, bson.M{"isPublic": true})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *MongoRepository) Increment(ctx context.Context, id, field string) (Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{field: 1}}

	var updated Project
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Project{}, err
	}
	return updated, nil
}

func statusCount(status string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

var statsPipeline = mongo.Pipeline{
	{{Key: "$group", Value: bson.M{
		"_id":                nil,
		"totalProjects":      bson.M{"$sum": 1},
		"completedProjects":  statusCount(StatusCompleted),
		"inProgressProjects": statusCount(StatusInProgress),
		"featuredProjects":   bson.M{"$sum": bson.M{"$cond": bson.A{"$isFeatured", 1, 0}}},
		"totalViews":         bson.M{"$sum": "$views"},
		"totalLikes":         bson.M{"$sum": "$likes"},
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
