package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/application/search"
	"github.com/aurelia-hq/aurelia-backend/domain/insight"
	"github.com/aurelia-hq/aurelia-backend/infrastructure/persistence/memory"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

type insightFixture struct {
	svc      *InsightService
	insights *memory.InsightRepository
	follows  *memory.FollowRepository
	profiles *memory.ProfileRepository
	embedder *countingEmbedder
}

func newInsightFixture(t *testing.T) *insightFixture {
	t.Helper()
	f := &insightFixture{
		insights: memory.NewInsightRepository(),
		follows:  memory.NewFollowRepository(),
		profiles: memory.NewProfileRepository(),
		embedder: &countingEmbedder{},
	}
	logger := zap.NewNop()
	f.svc = NewInsightService(
		f.insights,
		f.follows,
		f.profiles,
		NewEmbeddingService(f.embedder, logger),
		search.NewReranker(f.embedder, logger),
		logger,
	)
	return f
}

func (f *insightFixture) post(t *testing.T, authorID, title, content string) *insight.Insight {
	t.Helper()
	in, err := f.svc.Create(context.Background(), authorID, title, content, "", "")
	require.NoError(t, err)
	return in
}

func TestInsightCreate_RequiresTitleAndContent(t *testing.T) {
	f := newInsightFixture(t)

	for _, tc := range []struct{ title, content string }{
		{"", "content"},
		{"title", ""},
		{"  ", "content"},
	} {
		_, err := f.svc.Create(context.Background(), "alice", tc.title, tc.content, "", "")
		require.Error(t, err)
		assert.Equal(t, "Title and content are required", errors.GetAppError(err).Message)
	}
}

func TestInsightCreate_StoresEmbeddingBestEffort(t *testing.T) {
	f := newInsightFixture(t)
	f.embedder.configured = true
	f.embedder.vector = []float32{0.1, 0.2}

	in := f.post(t, "alice", "Hiring well", "Take your time")

	stored, err := f.insights.GetByID(context.Background(), in.ID)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, stored.Embedding)
}

func TestFeed_OnlyFollowedAuthors(t *testing.T) {
	f := newInsightFixture(t)
	seedProfile(t, f.profiles, "bob", "Bob")
	f.post(t, "bob", "From bob", "followed")
	f.post(t, "carol", "From carol", "not followed")
	f.post(t, "alice", "From alice", "own post")

	_, err := f.follows.Create(context.Background(), "alice", "bob")
	require.NoError(t, err)

	feed, err := f.svc.Feed(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "From bob", feed[0].Title)
	require.NotNil(t, feed[0].Profile)
	assert.Equal(t, "Bob", feed[0].Profile.FullName)
}

func TestFeed_EmptyWithoutFollows(t *testing.T) {
	f := newInsightFixture(t)
	f.post(t, "bob", "From bob", "content")

	feed, err := f.svc.Feed(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestLike_DuplicateRejected(t *testing.T) {
	f := newInsightFixture(t)
	in := f.post(t, "bob", "Title", "Content")

	count, err := f.svc.Like(context.Background(), "alice", in.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = f.svc.Like(context.Background(), "alice", in.ID)
	require.Error(t, err)
	assert.Equal(t, "Already liked", errors.GetAppError(err).Message)
}

func TestLike_UnknownInsightIsNotFound(t *testing.T) {
	f := newInsightFixture(t)

	_, err := f.svc.Like(context.Background(), "alice", "nope")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUnlike_NeverLikedIsNoOp(t *testing.T) {
	f := newInsightFixture(t)
	in := f.post(t, "bob", "Title", "Content")

	count, err := f.svc.Unlike(context.Background(), "alice", in.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnlike_RemovesLike(t *testing.T) {
	f := newInsightFixture(t)
	in := f.post(t, "bob", "Title", "Content")

	_, err := f.svc.Like(context.Background(), "alice", in.ID)
	require.NoError(t, err)
	_, err = f.svc.Like(context.Background(), "carol", in.ID)
	require.NoError(t, err)

	count, err := f.svc.Unlike(context.Background(), "alice", in.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGet_ReflectsViewerLikeState(t *testing.T) {
	f := newInsightFixture(t)
	in := f.post(t, "bob", "Title", "Content")

	_, err := f.svc.Like(context.Background(), "alice", in.ID)
	require.NoError(t, err)

	view, err := f.svc.Get(context.Background(), "alice", in.ID)
	require.NoError(t, err)
	assert.True(t, view.LikedByUser)
	assert.Equal(t, int64(1), view.LikesCount)

	// Anonymous read still sees the count.
	anon, err := f.svc.Get(context.Background(), "", in.ID)
	require.NoError(t, err)
	assert.False(t, anon.LikedByUser)
	assert.Equal(t, int64(1), anon.LikesCount)
}

func TestInsightUpdate_OwnerOnly(t *testing.T) {
	f := newInsightFixture(t)
	in := f.post(t, "bob", "Title", "Content")

	_, err := f.svc.Update(context.Background(), "alice", in.ID, map[string]interface{}{"title": "Hijacked"})
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "Unauthorized", errors.GetAppError(err).Message)

	updated, err := f.svc.Update(context.Background(), "bob", in.ID, map[string]interface{}{"title": "Revised"})
	require.NoError(t, err)
	assert.Equal(t, "Revised", updated.Title)
	assert.Equal(t, "Content", updated.Content)
}

func TestInsightDelete_OwnerOnly(t *testing.T) {
	f := newInsightFixture(t)
	in := f.post(t, "bob", "Title", "Content")

	err := f.svc.Delete(context.Background(), "alice", in.ID)
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))

	require.NoError(t, f.svc.Delete(context.Background(), "bob", in.ID))

	_, err = f.insights.GetByID(context.Background(), in.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestInsightDelete_MissingIsNotFound(t *testing.T) {
	f := newInsightFixture(t)

	err := f.svc.Delete(context.Background(), "bob", "nope")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestInsightSearch_SubstringFallback(t *testing.T) {
	f := newInsightFixture(t)
	f.post(t, "bob", "Negotiating offers", "Anchor high")
	f.post(t, "bob", "Resume tips", "Keep it short")

	views, err := f.svc.Search(context.Background(), "alice", "negotiating")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Negotiating offers", views[0].Title)
	assert.Equal(t, 0, f.embedder.calls)
}

func TestInsightSearch_SemanticOrdering(t *testing.T) {
	f := newInsightFixture(t)
	f.embedder.configured = true
	f.embedder.vector = []float32{1}

	first := f.post(t, "bob", "Negotiating offers", "Anchor high")
	second := f.post(t, "bob", "Resume tips", "Keep it short")
	f.insights.SimilarityMatches = []ports.SimilarityMatch{
		{ID: second.ID, Similarity: 0.9},
		{ID: first.ID, Similarity: 0.5},
	}

	views, err := f.svc.Search(context.Background(), "alice", "career advice")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, first.ID, views[1].ID)
}

func TestInsightSearch_BlankQuery(t *testing.T) {
	f := newInsightFixture(t)
	f.post(t, "bob", "Title", "Content")

	views, err := f.svc.Search(context.Background(), "alice", "   ")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestByUser_ListsAuthorInsights(t *testing.T) {
	f := newInsightFixture(t)
	f.post(t, "bob", "One", "a")
	f.post(t, "bob", "Two", "b")
	f.post(t, "carol", "Other", "c")

	views, err := f.svc.ByUser(context.Background(), "", "bob")
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
