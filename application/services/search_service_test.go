package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/application/search"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
	"github.com/aurelia-hq/aurelia-backend/infrastructure/persistence/memory"
)

type scriptedParser struct {
	filters search.Filters
	queries []string
}

func (p *scriptedParser) Parse(_ context.Context, query string) (search.Filters, error) {
	p.queries = append(p.queries, query)
	return p.filters, nil
}

type searchFixture struct {
	svc      *SearchService
	profiles *memory.ProfileRepository
	parser   *scriptedParser
	embedder *countingEmbedder
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	f := &searchFixture{
		profiles: memory.NewProfileRepository(),
		parser:   &scriptedParser{},
		embedder: &countingEmbedder{},
	}
	logger := zap.NewNop()
	f.svc = NewSearchService(f.profiles, f.parser, search.NewReranker(f.embedder, logger), logger)
	return f
}

func (f *searchFixture) seed(t *testing.T, p profile.Profile) {
	t.Helper()
	_, err := f.profiles.Create(context.Background(), &p)
	require.NoError(t, err)
}

func TestSearchProfiles_ExplicitFilterWinsOverParsed(t *testing.T) {
	f := newSearchFixture(t)
	f.seed(t, profile.Profile{ID: "p1", FullName: "Ada", Industry: "Technology"})
	f.seed(t, profile.Profile{ID: "p2", FullName: "Grace", Industry: "Finance"})
	f.parser.filters = search.Filters{Industry: "Finance", TextQuery: "tech"}

	results, err := f.svc.SearchProfiles(context.Background(), "viewer", "tech people", ports.ProfileFilter{Industry: "Technology"})
	require.NoError(t, err)

	// Parsed industry never overrides the explicit one.
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ID)
}

func TestSearchProfiles_ParsedFillsBlankFields(t *testing.T) {
	f := newSearchFixture(t)
	f.seed(t, profile.Profile{ID: "p1", FullName: "Ada", Location: "Seattle", Bio: "engineer"})
	f.seed(t, profile.Profile{ID: "p2", FullName: "Grace", Location: "Austin", Bio: "engineer"})
	f.parser.filters = search.Filters{Location: "Seattle", TextQuery: "engineer"}

	results, err := f.svc.SearchProfiles(context.Background(), "viewer", "engineers in seattle", ports.ProfileFilter{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ID)
	require.Len(t, f.parser.queries, 1)
	assert.Equal(t, "engineers in seattle", f.parser.queries[0])
}

func TestSearchProfiles_ExcludesCaller(t *testing.T) {
	f := newSearchFixture(t)
	f.seed(t, profile.Profile{ID: "viewer", FullName: "Me"})
	f.seed(t, profile.Profile{ID: "p1", FullName: "Ada"})

	results, err := f.svc.SearchProfiles(context.Background(), "viewer", "", ports.ProfileFilter{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ID)
}

func TestSearchProfiles_SemanticReorder(t *testing.T) {
	f := newSearchFixture(t)
	f.seed(t, profile.Profile{ID: "p1", FullName: "Ada"})
	f.seed(t, profile.Profile{ID: "p2", FullName: "Grace"})
	f.seed(t, profile.Profile{ID: "p3", FullName: "Katherine"})
	f.parser.filters = search.Filters{TextQuery: "mathematics"}
	f.embedder.configured = true
	f.embedder.vector = []float32{1}
	f.profiles.SimilarityMatches = []ports.SimilarityMatch{
		{ID: "p3", Similarity: 0.9},
		{ID: "p2", Similarity: 0.6},
	}

	results, err := f.svc.SearchProfiles(context.Background(), "viewer", "mathematics", ports.ProfileFilter{})
	require.NoError(t, err)

	// Only matched profiles survive, in similarity order.
	require.Len(t, results, 2)
	assert.Equal(t, "p3", results[0].ID)
	assert.Equal(t, "p2", results[1].ID)
}

func TestSearchProfiles_SemanticMatchDropsUnmatched(t *testing.T) {
	f := newSearchFixture(t)
	f.seed(t, profile.Profile{ID: "p1", FullName: "Ada"})
	f.seed(t, profile.Profile{ID: "p2", FullName: "Grace"})
	f.seed(t, profile.Profile{ID: "p3", FullName: "Katherine"})
	f.parser.filters = search.Filters{TextQuery: "compilers"}
	f.embedder.configured = true
	f.embedder.vector = []float32{1}
	f.profiles.SimilarityMatches = []ports.SimilarityMatch{
		{ID: "p2", Similarity: 0.9},
	}

	results, err := f.svc.SearchProfiles(context.Background(), "viewer", "compilers", ports.ProfileFilter{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].ID)
}

func TestSearchProfiles_SubstringDegrade(t *testing.T) {
	f := newSearchFixture(t)
	f.seed(t, profile.Profile{ID: "p1", FullName: "Ada", Skills: []string{"Python"}})
	f.seed(t, profile.Profile{ID: "p2", FullName: "Grace", Skills: []string{"COBOL"}})
	f.parser.filters = search.Filters{TextQuery: "python"}

	results, err := f.svc.SearchProfiles(context.Background(), "viewer", "python", ports.ProfileFilter{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ID)
	assert.Equal(t, 0, f.embedder.calls)
}

func TestSearchProfiles_NoQuerySkipsParser(t *testing.T) {
	f := newSearchFixture(t)
	f.seed(t, profile.Profile{ID: "p1", FullName: "Ada"})

	_, err := f.svc.SearchProfiles(context.Background(), "viewer", "   ", ports.ProfileFilter{})
	require.NoError(t, err)

	assert.Empty(t, f.parser.queries)
}
