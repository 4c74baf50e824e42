// Package rest wires the HTTP surface: router, middleware and handlers.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/application/services"
	"github.com/aurelia-hq/aurelia-backend/infrastructure/config"
	"github.com/aurelia-hq/aurelia-backend/interfaces/http/rest/handlers"
	"github.com/aurelia-hq/aurelia-backend/interfaces/http/rest/middleware"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// Router creates and configures the HTTP router.
type Router struct {
	cfg      *config.Config
	verifier ports.TokenVerifier

	auth          *handlers.AuthHandler
	profile       *handlers.ProfileHandler
	follows       *handlers.FollowHandler
	notifications *handlers.NotificationHandler
	messages      *handlers.MessageHandler
	insights      *handlers.InsightHandler

	logger *zap.Logger
}

// NewRouter creates a new router instance.
func NewRouter(
	cfg *config.Config,
	verifier ports.TokenVerifier,
	authProvider handlers.AuthProvider,
	profiles *services.ProfileService,
	search *services.SearchService,
	social *services.SocialService,
	messaging *services.MessagingService,
	insights *services.InsightService,
	logger *zap.Logger,
) *Router {
	errorHandler := errors.NewErrorHandler(logger)
	return &Router{
		cfg:           cfg,
		verifier:      verifier,
		auth:          handlers.NewAuthHandler(authProvider, errorHandler, logger),
		profile:       handlers.NewProfileHandler(profiles, search, errorHandler, logger),
		follows:       handlers.NewFollowHandler(social, errorHandler),
		notifications: handlers.NewNotificationHandler(social, errorHandler),
		messages:      handlers.NewMessageHandler(messaging, errorHandler),
		insights:      handlers.NewInsightHandler(insights, errorHandler),
		logger:        logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)

	// Auth endpoints are public; signout and user introspection read the
	// token themselves.
	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", rt.auth.SignUp)
		r.Post("/signin", rt.auth.SignIn)
		r.Post("/signout", rt.auth.SignOut)
		r.Get("/user", rt.auth.User)
	})

	requireAuth := middleware.RequireAuth(rt.verifier)
	optionalAuth := middleware.OptionalAuth(rt.verifier)

	router.Route("/api", func(r chi.Router) {
		r.Route("/profile", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", rt.profile.Get)
			r.Post("/", rt.profile.Create)
			r.Put("/", rt.profile.Update)
			r.Delete("/", rt.profile.Delete)
			r.Get("/search", rt.profile.Search)
			r.Get("/recommendations", rt.profile.Recommendations)
			r.Get("/{profileID}", rt.profile.GetByID)
		})

		r.Route("/follows", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/follow/{userID}", rt.follows.Follow)
			r.Delete("/unfollow/{userID}", rt.follows.Unfollow)
			r.Get("/followers/{userID}", rt.follows.Followers)
			r.Get("/following/{userID}", rt.follows.Following)
			r.Get("/is-following/{userID}", rt.follows.IsFollowing)
			r.Get("/stats/{userID}", rt.follows.Stats)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", rt.notifications.List)
			r.Delete("/clear-all", rt.notifications.ClearAll)
			r.Post("/mark-all-read", rt.notifications.MarkAllRead)
			r.Delete("/{notificationID}", rt.notifications.Delete)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/conversations", rt.messages.ListConversations)
			// The bare conversation route takes the other participant's
			// user id; the nested routes take the conversation id. chi
			// requires one param name for the shared segment.
			r.Get("/conversations/{id}", rt.messages.OpenConversation)
			r.Get("/conversations/{id}/messages", rt.messages.ListMessages)
			r.Post("/conversations/{id}/messages", rt.messages.SendMessage)
			r.Post("/conversations/{id}/mark-read", rt.messages.MarkRead)
			r.Get("/unread-count", rt.messages.UnreadCount)
		})

		r.Route("/insights", func(r chi.Router) {
			r.With(requireAuth).Get("/feed", rt.insights.Feed)
			r.With(requireAuth).Post("/", rt.insights.Create)
			r.With(requireAuth).Get("/search", rt.insights.Search)
			r.With(optionalAuth).Get("/{insightID}", rt.insights.Get)
			r.With(requireAuth).Put("/{insightID}", rt.insights.Update)
			r.With(requireAuth).Delete("/{insightID}", rt.insights.Delete)
			r.With(requireAuth).Post("/{insightID}/like", rt.insights.Like)
			r.With(requireAuth).Delete("/{insightID}/unlike", rt.insights.Unlike)
		})

		r.With(optionalAuth).Get("/users/{userID}/insights", rt.insights.ByUser)
	})

	return router
}

// healthCheck handles health check requests.
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
