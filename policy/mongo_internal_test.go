package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/intersection-rl/agent"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDocumentRoundTrip(t *testing.T) {
	table := agent.NewTable()
	table.Set(agent.State{NS: agent.LevelLow, EW: agent.LevelLow}, agent.Switch, -1.0)
	table.Set(agent.State{NS: agent.LevelHigh, EW: agent.LevelMedium}, agent.Hold, -42.125)
	now := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)

	doc := toDocument("default", "run-1", table, now)
	assert.Equal(t, "default", doc.ID)
	assert.Equal(t, 2, doc.Entries)
	assert.Equal(t, now.Truncate(time.Millisecond), doc.UpdatedAt)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded policyDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, doc.ID, decoded.ID)
	assert.Equal(t, doc.RunID, decoded.RunID)
	assert.Equal(t, doc.Entries, decoded.Entries)
	assert.Equal(t, doc.Table, decoded.Table)
	assert.True(t, doc.UpdatedAt.Equal(decoded.UpdatedAt))

	got, err := fromDocument(decoded)
	require.NoError(t, err)
	assert.Equal(t, table.Entries(), got.Entries())
}

func TestDocumentBadKey(t *testing.T) {
	_, err := fromDocument(policyDocument{
		ID:    "x",
		Table: map[string]map[string]float64{"(9, 9)": {"0": 1}},
	})
	assert.Error(t, err)
}
