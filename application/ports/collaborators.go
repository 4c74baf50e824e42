package ports

import (
	"context"

	"github.com/aurelia-hq/aurelia-backend/pkg/auth"
)

// TokenVerifier resolves a bearer token to an identity via the external
// auth provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// ChatMessage is a single turn in a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a request to the external model's chat endpoint.
type ChatRequest struct {
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// ChatCompleter sends chat-completion requests to the external model.
type ChatCompleter interface {
	// Configured reports whether a credential is available
	Configured() bool

	// Complete returns the generated text content
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Embedder turns text into a fixed-length vector via the external model.
type Embedder interface {
	// Configured reports whether a credential is available
	Configured() bool

	// Embed returns the embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)
}
