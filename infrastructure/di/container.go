// Package di assembles the application's dependency graph. Construction is
// explicit: every collaborator is built once here and injected by hand.
package di

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/recommend"
	"github.com/aurelia-hq/aurelia-backend/application/search"
	"github.com/aurelia-hq/aurelia-backend/application/services"
	"github.com/aurelia-hq/aurelia-backend/infrastructure/config"
	"github.com/aurelia-hq/aurelia-backend/infrastructure/openrouter"
	"github.com/aurelia-hq/aurelia-backend/infrastructure/persistence/supabase"
	"github.com/aurelia-hq/aurelia-backend/interfaces/http/rest"
)

// Container holds the fully wired application.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Router *rest.Router
}

// InitializeContainer builds the dependency graph from configuration.
func InitializeContainer(cfg *config.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	if err != nil {
		return nil, fmt.Errorf("initializing store client: %w", err)
	}

	// Persistence
	profiles := supabase.NewProfileRepository(client)
	follows := supabase.NewFollowRepository(client)
	notifications := supabase.NewNotificationRepository(client)
	conversations := supabase.NewConversationRepository(client)
	messages := supabase.NewMessageRepository(client)
	insights := supabase.NewInsightRepository(client)

	verifier := supabase.NewAuthVerifier(client)
	authService := supabase.NewAuthService(client)

	// Intelligence
	model := openrouter.NewClient(cfg)
	embeddings := services.NewEmbeddingService(model, logger)
	reranker := search.NewReranker(model, logger)
	parser := search.NewQueryParser(
		search.NewLLMParser(model, model.JSONModeEnabled(), logger),
		search.NewHeuristicParser(),
	)
	ranker := recommend.NewRanker(
		recommend.NewLLMRanker(model, model.JSONModeEnabled(), logger),
		recommend.NewHeuristicRanker(),
	)

	// Application services
	profileService := services.NewProfileService(profiles, follows, embeddings, ranker, logger)
	searchService := services.NewSearchService(profiles, parser, reranker, logger)
	socialService := services.NewSocialService(follows, notifications, profiles, logger)
	messagingService := services.NewMessagingService(conversations, messages, profiles, logger)
	insightService := services.NewInsightService(insights, follows, profiles, embeddings, reranker, logger)

	router := rest.NewRouter(
		cfg,
		verifier,
		authService,
		profileService,
		searchService,
		socialService,
		messagingService,
		insightService,
		logger,
	)

	return &Container{
		Config: cfg,
		Logger: logger,
		Router: router,
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err == nil {
		zapCfg.Level = level
	}
	return zapCfg.Build()
}
