package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/recommend"
	"github.com/aurelia-hq/aurelia-backend/application/search"
	"github.com/aurelia-hq/aurelia-backend/application/services"
	"github.com/aurelia-hq/aurelia-backend/infrastructure/config"
	"github.com/aurelia-hq/aurelia-backend/infrastructure/persistence/memory"
	"github.com/aurelia-hq/aurelia-backend/pkg/auth"
)

// staticVerifier resolves fixed tokens to identities.
type staticVerifier struct {
	identities map[string]*auth.Identity
}

func (v *staticVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	if identity, ok := v.identities[token]; ok {
		return identity, nil
	}
	return nil, fmt.Errorf("Authentication failed: invalid token")
}

// stubAuthProvider satisfies the auth handler without an external provider.
type stubAuthProvider struct{}

func (stubAuthProvider) SignUp(string, string, string) (*types.SignupResponse, error) {
	return nil, fmt.Errorf("not configured")
}

func (stubAuthProvider) SignIn(string, string) (types.Session, error) {
	return types.Session{}, fmt.Errorf("not configured")
}

func (stubAuthProvider) SignOut(string) error { return nil }

func (stubAuthProvider) GetUser(string) (*types.UserResponse, error) {
	return nil, fmt.Errorf("not configured")
}

type nopEmbedder struct{}

func (nopEmbedder) Configured() bool { return false }

func (nopEmbedder) Embed(context.Context, string) ([]float32, error) { return nil, nil }

type staticParser struct{}

func (staticParser) Parse(_ context.Context, query string) (search.Filters, error) {
	return search.Filters{TextQuery: query}, nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	profiles := memory.NewProfileRepository()
	follows := memory.NewFollowRepository()
	notifications := memory.NewNotificationRepository()
	conversations := memory.NewConversationRepository()
	messages := memory.NewMessageRepository()
	insights := memory.NewInsightRepository()

	embeddings := services.NewEmbeddingService(nopEmbedder{}, logger)
	reranker := search.NewReranker(nopEmbedder{}, logger)
	ranker := recommend.NewHeuristicRanker()

	verifier := &staticVerifier{identities: map[string]*auth.Identity{
		"alice-token": {ID: "alice", Email: "alice@example.com"},
		"bob-token":   {ID: "bob", Email: "bob@example.com"},
	}}

	router := NewRouter(
		&config.Config{CORSOrigins: []string{"*"}},
		verifier,
		stubAuthProvider{},
		services.NewProfileService(profiles, follows, embeddings, ranker, logger),
		services.NewSearchService(profiles, staticParser{}, reranker, logger),
		services.NewSocialService(follows, notifications, profiles, logger),
		services.NewMessagingService(conversations, messages, profiles, logger),
		services.NewInsightService(insights, follows, profiles, embeddings, reranker, logger),
		logger,
	)
	return router.Setup()
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createProfile(t *testing.T, handler http.Handler, token, name string) {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/profile", token, map[string]interface{}{
		"full_name": name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No authorization header", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodGet, "/api/profile", "bad-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileLifecycle(t *testing.T) {
	handler := newTestServer(t)
	createProfile(t, handler, "alice-token", "Alice")

	rec := doJSON(t, handler, http.MethodGet, "/api/profile", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", decodeBody(t, rec)["full_name"])

	rec = doJSON(t, handler, http.MethodPut, "/api/profile", "alice-token", map[string]interface{}{
		"bio":           "Platform engineer",
		"unknown_field": "dropped",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Platform engineer", decodeBody(t, rec)["bio"])

	rec = doJSON(t, handler, http.MethodDelete, "/api/profile", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Profile deleted successfully", decodeBody(t, rec)["message"])
}

func TestProfileCreate_ValidatesBody(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/profile", "alice-token", map[string]interface{}{
		"bio": "missing name",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicProfileIncludesFollowState(t *testing.T) {
	handler := newTestServer(t)
	createProfile(t, handler, "alice-token", "Alice")
	createProfile(t, handler, "bob-token", "Bob")

	rec := doJSON(t, handler, http.MethodPost, "/api/follows/follow/bob", "alice-token", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Successfully followed user", decodeBody(t, rec)["message"])

	rec = doJSON(t, handler, http.MethodGet, "/api/profile/bob", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["is_following"])
	assert.Equal(t, float64(1), body["followers_count"])
}

func TestFollowEndpoints(t *testing.T) {
	handler := newTestServer(t)
	createProfile(t, handler, "alice-token", "Alice")
	createProfile(t, handler, "bob-token", "Bob")

	rec := doJSON(t, handler, http.MethodPost, "/api/follows/follow/alice", "alice-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot follow yourself", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodPost, "/api/follows/follow/bob", "alice-token", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/follows/follow/bob", "alice-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already following this user", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodGet, "/api/follows/followers/bob", "bob-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])

	rec = doJSON(t, handler, http.MethodGet, "/api/follows/stats/bob", "bob-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["followers_count"])

	rec = doJSON(t, handler, http.MethodDelete, "/api/follows/unfollow/bob", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, "/api/follows/unfollow/bob", "alice-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not following this user", decodeBody(t, rec)["error"])
}

func TestNotificationEndpoints(t *testing.T) {
	handler := newTestServer(t)
	createProfile(t, handler, "alice-token", "Alice")
	createProfile(t, handler, "bob-token", "Bob")

	rec := doJSON(t, handler, http.MethodPost, "/api/follows/follow/bob", "alice-token", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/notifications", "bob-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, float64(1), body["count"])
	notifications := body["notifications"].([]interface{})
	first := notifications[0].(map[string]interface{})
	assert.Equal(t, "Alice started following you", first["message"])
	related := first["related_user"].(map[string]interface{})
	assert.Equal(t, "alice", related["id"])

	rec = doJSON(t, handler, http.MethodDelete, "/api/notifications/clear-all", "bob-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["deleted_count"])
}

func TestMessagingEndpoints(t *testing.T) {
	handler := newTestServer(t)
	createProfile(t, handler, "alice-token", "Alice")
	createProfile(t, handler, "bob-token", "Bob")

	rec := doJSON(t, handler, http.MethodGet, "/api/messages/conversations/bob", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	conversation := decodeBody(t, rec)["conversation"].(map[string]interface{})
	conversationID := conversation["id"].(string)
	require.NotEmpty(t, conversationID)

	rec = doJSON(t, handler, http.MethodPost, "/api/messages/conversations/"+conversationID+"/messages", "alice-token", map[string]interface{}{
		"content": "hello bob",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	message := decodeBody(t, rec)["message"].(map[string]interface{})
	assert.Equal(t, "hello bob", message["content"])

	rec = doJSON(t, handler, http.MethodGet, "/api/messages/unread-count", "bob-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["unread_count"])

	// Listing marks incoming messages read.
	rec = doJSON(t, handler, http.MethodGet, "/api/messages/conversations/"+conversationID+"/messages", "bob-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = doJSON(t, handler, http.MethodGet, "/api/messages/unread-count", "bob-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["unread_count"])

	rec = doJSON(t, handler, http.MethodGet, "/api/messages/conversations", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	conversations := decodeBody(t, rec)["conversations"].([]interface{})
	require.Len(t, conversations, 1)
	other := conversations[0].(map[string]interface{})["other_user"].(map[string]interface{})
	assert.Equal(t, "bob", other["id"])
}

func TestInsightEndpoints(t *testing.T) {
	handler := newTestServer(t)
	createProfile(t, handler, "alice-token", "Alice")
	createProfile(t, handler, "bob-token", "Bob")

	rec := doJSON(t, handler, http.MethodPost, "/api/insights", "bob-token", map[string]interface{}{
		"title":   "Interview loops",
		"content": "Keep them short",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	insightID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, handler, http.MethodPost, "/api/insights", "bob-token", map[string]interface{}{
		"title": "No content",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title and content are required", decodeBody(t, rec)["error"])

	// Feed is empty until alice follows bob.
	rec = doJSON(t, handler, http.MethodGet, "/api/insights/feed", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doJSON(t, handler, http.MethodPost, "/api/follows/follow/bob", "alice-token", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/insights/feed", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "Interview loops", feed[0]["title"])
	profile := feed[0]["profile"].(map[string]interface{})
	assert.Equal(t, "Bob", profile["full_name"])

	rec = doJSON(t, handler, http.MethodPost, "/api/insights/"+insightID+"/like", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Insight liked successfully", body["message"])
	assert.Equal(t, float64(1), body["likes_count"])

	rec = doJSON(t, handler, http.MethodPost, "/api/insights/"+insightID+"/like", "alice-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already liked", decodeBody(t, rec)["error"])

	// Anonymous read is allowed.
	rec = doJSON(t, handler, http.MethodGet, "/api/insights/"+insightID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["liked_by_user"])

	// Only the owner can delete.
	rec = doJSON(t, handler, http.MethodDelete, "/api/insights/"+insightID, "alice-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, rec)["error"])

	rec = doJSON(t, handler, http.MethodDelete, "/api/insights/"+insightID, "bob-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Insight deleted successfully", decodeBody(t, rec)["message"])
}

func TestUserInsightsListing(t *testing.T) {
	handler := newTestServer(t)
	createProfile(t, handler, "bob-token", "Bob")

	rec := doJSON(t, handler, http.MethodPost, "/api/insights", "bob-token", map[string]interface{}{
		"title":   "One",
		"content": "a",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/users/bob/insights", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var insights []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insights))
	assert.Len(t, insights, 1)
}

func TestProfileSearchReturnsBareArray(t *testing.T) {
	handler := newTestServer(t)
	createProfile(t, handler, "alice-token", "Alice")
	createProfile(t, handler, "bob-token", "Bob")

	rec := doJSON(t, handler, http.MethodGet, "/api/profile/search?q=bob", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Bob", results[0]["full_name"])
}

func TestRecommendationsIncludeReason(t *testing.T) {
	handler := newTestServer(t)
	createProfile(t, handler, "alice-token", "Alice")
	createProfile(t, handler, "bob-token", "Bob")

	rec := doJSON(t, handler, http.MethodGet, "/api/profile/recommendations?limit=3", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "bob", recs[0]["id"])
	assert.NotEmpty(t, recs[0]["recommendation_reason"])
}

func TestSignOutAlwaysSucceeds(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/auth/signout", "whatever", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Signed out successfully", decodeBody(t, rec)["message"])
}
