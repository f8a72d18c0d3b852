package experience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestListQuery(t *testing.T) {
	assert.Equal(t, bson.M{"isPublic": true}, listQuery(ListFilter{}))

	q := listQuery(ListFilter{Company: "a.b", Position: "Dev", Technology: "Node.js", Current: true})
	assert.Equal(t, primitive.Regex{Pattern: `a\.b`, Options: "i"}, q["company"])
	assert.Equal(t, primitive.Regex{Pattern: "Dev", Options: "i"}, q["position"])
	assert.Equal(t, primitive.Regex{Pattern: `Node\.js`, Options: "i"}, q["technologies"])
	assert.Equal(t, true, q["duration.isCurrent"])
}

func TestUpdateFields(t *testing.T) {
	months := 3
	set, err := updateFields(Experience{
		ID:             "e1",
		Company:        "Acme",
		CreatedAt:      time.Now(),
		DurationMonths: &months,
	})
	require.NoError(t, err)
	for _, k := range []string{"_id", "createdAt", "durationMonths", "formattedDuration"} {
		assert.NotContains(t, set, k)
	}
	assert.Equal(t, "Acme", set["company"])

	unset := unsetFields(set)
	assert.Contains(t, unset, "impact")
	assert.Contains(t, unset, "teamSize")
}

func TestRepositorySummary(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portfolio.experiences", mtest.FirstBatch))

		s, err := NewRepository(mt.Coll).Summary(context.Background(), time.Now())
		require.NoError(t, err)
		assert.Equal(t, Summary{}, s)
	})

	mt.Run("rounds average duration", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portfolio.experiences", mtest.FirstBatch, bson.D{
			{Key: "totalExperiences", Value: int32(3)},
			{Key: "currentPositions", Value: int32(1)},
			{Key: "totalTechnologies", Value: int32(7)},
			{Key: "totalSkills", Value: int32(4)},
			{Key: "averageDuration", Value: 18.6},
		}))

		s, err := NewRepository(mt.Coll).Summary(context.Background(), time.Now())
		require.NoError(t, err)
		assert.Equal(t, Summary{
			TotalExperiences:  3,
			CurrentPositions:  1,
			TotalTechnologies: 7,
			TotalSkills:       4,
			AverageDuration:   19,
		}, s)
	})
}

func TestRepositoryCompanies(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sorts positions", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "portfolio.experiences", mtest.FirstBatch, bson.D{
			{Key: "company", Value: "Acme"},
			{Key: "positions", Value: bson.A{"Lead", "Engineer"}},
			{Key: "totalExperiences", Value: int32(2)},
		}))

		companies, err := NewRepository(mt.Coll).Companies(context.Background())
		require.NoError(t, err)
		require.Len(t, companies, 1)
		assert.Equal(t, []string{"Engineer", "Lead"}, companies[0].Positions)
		assert.Equal(t, int64(2), companies[0].TotalExperiences)
	})
}
