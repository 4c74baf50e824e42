package recommend

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
)

type fakeChat struct {
	configured bool
	response   string
	err        error
}

func (f *fakeChat) Configured() bool { return f.configured }

func (f *fakeChat) Complete(context.Context, ports.ChatRequest) (string, error) {
	return f.response, f.err
}

func sampleCandidates() []profile.Profile {
	return []profile.Profile{
		{ID: "a", Industry: "Aerospace"},
		{ID: "b", Industry: "Robotics", Skills: []string{"Go"}},
		{ID: "c", Industry: "Robotics", CurrentSchool: "MIT"},
	}
}

func TestHeuristicRanker(t *testing.T) {
	user := &profile.Profile{Industry: "Robotics", CurrentSchool: "MIT"}
	ranker := NewHeuristicRanker()

	recs, err := ranker.Rank(context.Background(), user, sampleCandidates(), 0)
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, "c", recs[0].ID, "industry plus school outscores industry alone")
	assert.Equal(t, "b", recs[1].ID)
	assert.Equal(t, "a", recs[2].ID)
	assert.Contains(t, recs[0].Reason, "MIT")
	assert.Equal(t, "Similar professional background", recs[2].Reason)
}

func TestHeuristicRanker_StableAndLimited(t *testing.T) {
	user := &profile.Profile{}
	candidates := []profile.Profile{{ID: "x"}, {ID: "y"}, {ID: "z"}}

	recs, err := NewHeuristicRanker().Rank(context.Background(), user, candidates, 2)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "x", recs[0].ID, "ties keep arrival order")
	assert.Equal(t, "y", recs[1].ID)
}

func TestLLMRanker_ValidatesIDs(t *testing.T) {
	user := &profile.Profile{Industry: "Robotics"}

	t.Run("unknown ids discarded", func(t *testing.T) {
		chat := &fakeChat{
			configured: true,
			response:   `{"rankings":[{"id":"ghost","reason":"nope"},{"id":"b","reason":"both in robotics"}]}`,
		}
		recs, err := NewLLMRanker(chat, false, zap.NewNop()).Rank(context.Background(), user, sampleCandidates(), 10)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "b", recs[0].ID)
		assert.Equal(t, "both in robotics", recs[0].Reason)
	})

	t.Run("bare ranked_ids accepted with synthesized reasons", func(t *testing.T) {
		chat := &fakeChat{configured: true, response: `{"ranked_ids":["c","a"]}`}
		recs, err := NewLLMRanker(chat, false, zap.NewNop()).Rank(context.Background(), user, sampleCandidates(), 10)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "c", recs[0].ID)
		assert.NotEmpty(t, recs[0].Reason)
	})

	t.Run("all ids unknown is a failure", func(t *testing.T) {
		chat := &fakeChat{configured: true, response: `{"ranked_ids":["ghost1","ghost2"]}`}
		_, err := NewLLMRanker(chat, false, zap.NewNop()).Rank(context.Background(), user, sampleCandidates(), 10)
		assert.Error(t, err)
	})
}

func TestRanker_FallsBackToHeuristic(t *testing.T) {
	user := &profile.Profile{Industry: "Robotics"}

	tests := []struct {
		name string
		chat *fakeChat
	}{
		{name: "no credential", chat: &fakeChat{configured: false}},
		{name: "model errors", chat: &fakeChat{configured: true, err: fmt.Errorf("HTTP 503")}},
		{name: "malformed output", chat: &fakeChat{configured: true, response: "who knows"}},
		{name: "unknown ids only", chat: &fakeChat{configured: true, response: `{"ranked_ids":["ghost"]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranker := NewRanker(NewLLMRanker(tt.chat, false, zap.NewNop()), NewHeuristicRanker())

			recs, err := ranker.Rank(context.Background(), user, sampleCandidates(), 2)
			require.NoError(t, err)
			require.Len(t, recs, 2)
			assert.Equal(t, "b", recs[0].ID, "heuristic ordering, stable on ties")
		})
	}
}
