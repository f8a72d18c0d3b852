package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"portfolio-backend/internal/db"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/validation"
)

var seedNow = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestDefaultData(t *testing.T) {
	data, err := Default()
	require.NoError(t, err)
	require.Len(t, data.Projects, 4)
	require.Len(t, data.Experiences, 3)

	ps, es, err := data.Documents(validation.New(), seedNow)
	require.NoError(t, err)

	assert.Equal(t, "Realtime Social News Platform", ps[0].Title)
	assert.Equal(t, projects.StatusInProgress, ps[3].Status)
	require.NotNil(t, ps[0].Metrics)
	require.NotNil(t, ps[0].Metrics.UsersReached)
	assert.Equal(t, 5000, *ps[0].Metrics.UsersReached)
	require.NotNil(t, ps[1].CompletionDate)
	assert.Equal(t, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), *ps[1].CompletionDate)

	assert.Equal(t, "Agaamin Technologies", es[0].Company)
	assert.False(t, es[0].Duration.IsCurrent)
	require.NotNil(t, es[0].Duration.EndDate)
	assert.Equal(t, "Internship", es[2].WorkType)
	assert.Equal(t, 4, es[1].Impact.Count())
	assert.Equal(t, seedNow, es[0].CreatedAt)
}

func TestLoadRejectsInvalidEntries(t *testing.T) {
	_, err := Load(strings.NewReader("projects: [unterminated"))
	assert.Error(t, err)

	data, err := Load(strings.NewReader(`
projects:
  - title: T
    description: D
    image: https://example.com/x.png
    status: shipped
`))
	require.NoError(t, err)
	_, _, err = data.Documents(validation.New(), seedNow)
	assert.Error(t, err)

	data, err = Load(strings.NewReader(`
experiences:
  - company: Acme
    position: Engineer
`))
	require.NoError(t, err)
	_, _, err = data.Documents(validation.New(), seedNow)
	assert.ErrorContains(t, err, "start date")
}

func TestRunUpserts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("counts inserts and updates", func(mt *mtest.T) {
		data, err := Load(strings.NewReader(`
projects:
  - title: One
    description: First
    image: https://example.com/1.png
  - title: Two
    description: Second
    image: https://example.com/2.png
experiences:
  - company: Acme
    position: Engineer
    duration:
      startDate: "2023-01-01"
`))
		require.NoError(t, err)

		upserted := mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "x"}}}},
		)
		modified := mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		)
		mt.AddMockResponses(upserted, modified, upserted)

		cols := &db.Collections{Contacts: mt.Coll, Projects: mt.Coll, Experiences: mt.Coll}
		s := NewSeeder(cols, validation.New(), logging.Discard())
		s.now = func() time.Time { return seedNow }

		res, err := s.Run(context.Background(), data, false, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, Counts{Inserted: 1, Updated: 1}, res.Projects)
		assert.Equal(t, Counts{Inserted: 1}, res.Experiences)
	})
}
