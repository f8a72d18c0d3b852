// Package seed loads the bundled portfolio content and writes it to MongoDB.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"

	"portfolio-backend/internal/db"
	"portfolio-backend/internal/experience"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/validation"
)

//go:embed data.yaml
var defaultData []byte

// Data is a seed file. Entries use the same shape as the create endpoints.
type Data struct {
	Projects    []projects.Input   `json:"projects"`
	Experiences []experience.Input `json:"experiences"`
}

// Default returns the bundled seed content.
func Default() (*Data, error) {
	return Load(bytes.NewReader(defaultData))
}

// Load parses YAML seed content. Entries are re-read through their JSON form
// so the API field names apply unchanged.
func Load(r io.Reader) (*Data, error) {
	var raw interface{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("seed: parse yaml: %w", err)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("seed: convert: %w", err)
	}
	var data Data
	if err := json.Unmarshal(encoded, &data); err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return &data, nil
}

// Documents turns the seed entries into stored documents, applying the same
// validation and save-time rules as the API.
func (d *Data) Documents(val *validation.Validator, now time.Time) ([]projects.Project, []experience.Experience, error) {
	outProjects := make([]projects.Project, 0, len(d.Projects))
	for i, in := range d.Projects {
		if in.MissingRequired() {
			return nil, nil, fmt.Errorf("seed: project %d: title, description and image are required", i)
		}
		if err := val.Struct(in); err != nil {
			return nil, nil, fmt.Errorf("seed: project %d: %w", i, err)
		}
		p := projects.Project{IsPublic: true}
		if err := in.ApplyTo(&p); err != nil {
			return nil, nil, fmt.Errorf("seed: project %d: %w", i, err)
		}
		outProjects = append(outProjects, projects.PrepareProject(p, now))
	}

	outExperiences := make([]experience.Experience, 0, len(d.Experiences))
	for i, in := range d.Experiences {
		if in.MissingRequired() {
			return nil, nil, fmt.Errorf("seed: experience %d: company, position and start date are required", i)
		}
		if err := val.Struct(in); err != nil {
			return nil, nil, fmt.Errorf("seed: experience %d: %w", i, err)
		}
		e := experience.Experience{IsPublic: true}
		if err := in.ApplyTo(&e); err != nil {
			return nil, nil, fmt.Errorf("seed: experience %d: %w", i, err)
		}
		outExperiences = append(outExperiences, experience.PrepareExperience(e, now))
	}
	return outProjects, outExperiences, nil
}

type Result struct {
	Projects    Counts
	Experiences Counts
}

type Counts struct {
	Inserted int64
	Updated  int64
}

type Seeder struct {
	cols *db.Collections
	val  *validation.Validator
	log  *slog.Logger
	now  func() time.Time
}

func NewSeeder(cols *db.Collections, val *validation.Validator, log *slog.Logger) *Seeder {
	return &Seeder{cols: cols, val: val, log: log, now: time.Now}
}

// Run writes data. With reset, all three collections are emptied first.
// Otherwise projects are matched by title and experiences by company and
// position, keeping their ids, counters and creation time.
func (s *Seeder) Run(ctx context.Context, data *Data, reset bool, loc *time.Location) (Result, error) {
	if loc == nil {
		loc = time.UTC
	}
	ps, es, err := data.Documents(s.val, s.now().In(loc))
	if err != nil {
		return Result{}, err
	}

	if reset {
		for _, col := range []*mongo.Collection{s.cols.Contacts, s.cols.Projects, s.cols.Experiences} {
			res, err := col.DeleteMany(ctx, bson.M{})
			if err != nil {
				return Result{}, fmt.Errorf("seed: clear %s: %w", col.Name(), err)
			}
			s.log.Info("seed: cleared", slog.String("collection", col.Name()), slog.Int64("deleted", res.DeletedCount))
		}
	}

	var result Result
	for _, p := range ps {
		inserted, err := upsert(ctx, s.cols.Projects, bson.M{"title": p.Title}, p, bson.M{"views": int64(0), "likes": int64(0)})
		if err != nil {
			return result, fmt.Errorf("seed: project %q: %w", p.Title, err)
		}
		result.Projects.count(inserted)
	}
	for _, e := range es {
		inserted, err := upsert(ctx, s.cols.Experiences, bson.M{"company": e.Company, "position": e.Position}, e, bson.M{})
		if err != nil {
			return result, fmt.Errorf("seed: experience %s/%s: %w", e.Company, e.Position, err)
		}
		result.Experiences.count(inserted)
	}

	s.log.Info("seed: completed",
		slog.Int64("projects_inserted", result.Projects.Inserted),
		slog.Int64("projects_updated", result.Projects.Updated),
		slog.Int64("experiences_inserted", result.Experiences.Inserted),
		slog.Int64("experiences_updated", result.Experiences.Updated),
	)
	return result, nil
}

func (c *Counts) count(inserted bool) {
	if inserted {
		c.Inserted++
	} else {
		c.Updated++
	}
}

// upsert sets the document's fields and, on insert only, a fresh id, the
// creation time and the given extra fields.
func upsert(ctx context.Context, col *mongo.Collection, filter bson.M, doc interface{}, onInsert bson.M) (bool, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return false, err
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return false, err
	}

	onInsert["_id"] = primitive.NewObjectID().Hex()
	onInsert["createdAt"] = set["createdAt"]
	for k := range onInsert {
		delete(set, k)
	}

	update := bson.M{"$set": set, "$setOnInsert": onInsert}
	res, err := col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}
