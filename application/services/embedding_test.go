package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/domain/insight"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
)

type countingEmbedder struct {
	configured bool
	vector     []float32
	calls      int
}

func (c *countingEmbedder) Configured() bool { return c.configured }

func (c *countingEmbedder) Embed(context.Context, string) ([]float32, error) {
	c.calls++
	return c.vector, nil
}

func TestEmbedText_EmptyInputNeverCallsNetwork(t *testing.T) {
	embedder := &countingEmbedder{configured: true, vector: []float32{1}}
	svc := NewEmbeddingService(embedder, zap.NewNop())

	assert.Nil(t, svc.EmbedText(context.Background(), ""))
	assert.Nil(t, svc.EmbedText(context.Background(), "   \n\t"))
	assert.Equal(t, 0, embedder.calls)
}

func TestEmbedText_MissingCredential(t *testing.T) {
	embedder := &countingEmbedder{configured: false}
	svc := NewEmbeddingService(embedder, zap.NewNop())

	assert.Nil(t, svc.EmbedText(context.Background(), "some text"))
	assert.Equal(t, 0, embedder.calls)
}

func TestProfileText_WeightsStructuredFields(t *testing.T) {
	p := &profile.Profile{
		FullName:      "Ada Lovelace",
		Location:      "Seattle",
		Industry:      "Data Science",
		CurrentSchool: "Virginia Tech",
		CareerStatus:  profile.StatusStudent,
		Bio:           "I like analytical engines",
		Skills:        []string{"Python", "Math"},
	}

	text := ProfileText(p)

	// Discriminating fields are repeated, free text is mentioned once
	assert.Equal(t, 5, strings.Count(text, "Seattle"))
	assert.Equal(t, 5, strings.Count(text, "Data Science"))
	assert.Equal(t, 5, strings.Count(text, "Virginia Tech"))
	assert.Equal(t, 1, strings.Count(text, "I like analytical engines"))
	assert.Equal(t, 1, strings.Count(text, "Python, Math"))
	assert.Contains(t, text, "Full-time student")
}

func TestProfileText_CustomIndustryPreferred(t *testing.T) {
	p := &profile.Profile{Industry: "Other", CustomIndustry: "Quantum Computing"}

	text := ProfileText(p)

	assert.Contains(t, text, "Works in Quantum Computing")
	assert.NotContains(t, text, "Works in Other")
}

func TestProfileText_EmptyProfile(t *testing.T) {
	assert.Equal(t, "", ProfileText(&profile.Profile{}))
}

func TestInsightText(t *testing.T) {
	in := &insight.Insight{Title: "On robots", Content: "They are neat"}
	assert.Equal(t, "On robots. They are neat", InsightText(in))
}
