package experience

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, e Experience) error
	Get(ctx context.Context, id string) (Experience, error)
	Update(ctx context.Context, e Experience) (Experience, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Experience, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	Current(ctx context.Context) ([]Experience, error)
	ByCompany(ctx context.Context, company string) ([]Experience, error)
	Companies(ctx context.Context) ([]Company, error)
	Technologies(ctx context.Context) ([]string, error)
	Summary(ctx context.Context, now time.Time) (Summary, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func contains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{"isPublic": true}
	if filter.Company != "" {
		query["company"] = contains(filter.Company)
	}
	if filter.Position != "" {
		query["position"] = contains(filter.Position)
	}
	if filter.Technology != "" {
		query["technologies"] = contains(filter.Technology)
	}
	if filter.Current {
		query["duration.isCurrent"] = true
	}
	return query
}

var prioritySort = bson.D{
	{Key: "priority", Value: -1},
	{Key: "duration.startDate", Value: -1},
}

func updateFields(e Experience) (bson.M, error) {
	raw, err := bson.Marshal(e)
	if err != nil {
		return nil, err
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	delete(set, "_id")
	delete(set, "createdAt")
	return set, nil
}

func unsetFields(set bson.M) bson.M {
	unset := bson.M{}
	for _, k := range []string{"location", "companyDescription", "impact", "teamSize", "projectBudget"} {
		if _, ok := set[k]; !ok {
			unset[k] = ""
		}
	}
	return unset
}

func (r *MongoRepository) Create(ctx context.Context, e Experience) error {
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *MongoRepository) Get(ctx context.Context, id string) (Experience, error) {
	var e Experience
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return Experience{}, err
	}
	return e, nil
}

func (r *MongoRepository) Update(ctx context.Context, e Experience) (Experience, error) {
	set, err := updateFields(e)
	if err != nil {
		return Experience{}, fmt.Errorf("encode experience: %w", err)
	}
	update := bson.M{"$set": set}
	if unset := unsetFields(set); len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Experience
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": e.ID}, update, opts).Decode(&updated); err != nil {
		return Experience{}, err
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

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Experience, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Experience, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Experience, error) {
	opts := options.Find().
		SetSort(prioritySort).
		SetLimit(limit).
		SetSkip(offset)
	return r.find(ctx, listQuery(filter), opts)
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, listQuery(filter))
}

func (r *MongoRepository) Current(ctx context.Context) ([]Experience, error) {
	return r.find(ctx, listQuery(ListFilter{Current: true}), options.Find().SetSort(prioritySort))
}

func (r *MongoRepository) ByCompany(ctx context.Context, company string) ([]Experience, error) {
	opts := options.Find().SetSort(bson.D{{Key: "duration.startDate", Value: -1}})
	return r.find(ctx, listQuery(ListFilter{Company: company}), opts)
}

var companiesPipeline = mongo.Pipeline{
	{{Key: "$match", Value: bson.M{"isPublic": true}}},
	{{Key: "$group", Value: bson.M{
		"_id":              "$company",
		"positions":        bson.M{"$addToSet": "$position"},
		"totalExperiences": bson.M{"$sum": 1},
	}}},
	{{Key: "$project", Value: bson.M{
		"_id":              0,
		"company":          "$_id",
		"positions":        1,
		"totalExperiences": 1,
	}}},
	{{Key: "$sort", Value: bson.D{{Key: "company", Value: 1}}}},
}

func (r *MongoRepository) Companies(ctx context.Context) ([]Company, error) {
	cursor, err := r.col.Aggregate(ctx, companiesPipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	companies := make([]Company, 0)
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	for i := range companies {
		sort.Strings(companies[i].Positions)
	}
	return companies, nil
}

func (r *MongoRepository) Technologies(ctx context.Context) ([]string, error) {
	values, err := r.col.Distinct(ctx, "technologies", bson.M{"isPublic": true})
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

const monthMillis = 1000 * 60 * 60 * 24 * 30

func distinctCount(field string) bson.M {
	return bson.M{"$size": bson.M{"$reduce": bson.M{
		"input":        field,
		"initialValue": bson.A{},
		"in":           bson.M{"$setUnion": bson.A{"$$value", "$$this"}},
	}}}
}

// summaryPipeline averages role length in 30-day months, measuring current
// roles up to now.
func summaryPipeline(now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":              nil,
			"totalExperiences": bson.M{"$sum": 1},
			"currentPositions": bson.M{"$sum": bson.M{"$cond": bson.A{"$duration.isCurrent", 1, 0}}},
			"technologies":     bson.M{"$push": bson.M{"$ifNull": bson.A{"$technologies", bson.A{}}}},
			"skills":           bson.M{"$push": bson.M{"$ifNull": bson.A{"$skills", bson.A{}}}},
			"averageDuration": bson.M{"$avg": bson.M{"$cond": bson.A{
				"$duration.isCurrent",
				bson.M{"$divide": bson.A{bson.M{"$subtract": bson.A{now, "$duration.startDate"}}, monthMillis}},
				bson.M{"$divide": bson.A{bson.M{"$subtract": bson.A{"$duration.endDate", "$duration.startDate"}}, monthMillis}},
			}}},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":               0,
			"totalExperiences":  1,
			"currentPositions":  1,
			"totalTechnologies": distinctCount("$technologies"),
			"totalSkills":       distinctCount("$skills"),
			"averageDuration":   bson.M{"$ifNull": bson.A{"$averageDuration", 0}},
		}}},
	}
}

type summaryRow struct {
	TotalExperiences  int64   `bson:"totalExperiences"`
	CurrentPositions  int64   `bson:"currentPositions"`
	TotalTechnologies int64   `bson:"totalTechnologies"`
	TotalSkills       int64   `bson:"totalSkills"`
	AverageDuration   float64 `bson:"averageDuration"`
}

func (r *MongoRepository) Summary(ctx context.Context, now time.Time) (Summary, error) {
	cursor, err := r.col.Aggregate(ctx, summaryPipeline(now))
	if err != nil {
		return Summary{}, err
	}
	defer cursor.Close(ctx)

	var rows []summaryRow
	if err := cursor.All(ctx, &rows); err != nil {
		return Summary{}, err
	}
	if len(rows) == 0 {
		return Summary{}, nil
	}
	row := rows[0]
	return Summary{
		TotalExperiences:  row.TotalExperiences,
		CurrentPositions:  row.CurrentPositions,
		TotalTechnologies: row.TotalTechnologies,
		TotalSkills:       row.TotalSkills,
		AverageDuration:   int64(math.Round(row.AverageDuration)),
	}, nil
}
