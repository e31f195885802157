package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/SARVESHVARADKAR123/townsquare/internal/handlers"
	"github.com/SARVESHVARADKAR123/townsquare/internal/middleware"
	"github.com/SARVESHVARADKAR123/townsquare/internal/observability"
)

const defaultRequestTimeout = 10 * time.Second

type Options struct {
	ServiceName string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// RateLimitRequests per RateLimitWindow and client IP. Zero disables
	// rate limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	ReadyChecks    map[string]observability.Pinger
}

type Handlers struct {
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Community *handlers.CommunityHandler
	Messaging *handlers.MessagingHandler
	Streams   *handlers.StreamHandler
}

func NewRouter(h Handlers, opts Options) http.Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(observability.MetricsMiddleware(opts.ServiceName))
	r.Use(middleware.Recovery())
	if opts.RateLimitRequests > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitRequests, opts.RateLimitWindow))
	}

	r.Get("/health/live", observability.HealthLiveHandler)
	r.Get("/health/ready", observability.HealthReadyHandler(opts.ReadyChecks))

	r.Route("/api/v1", func(api chi.Router) {
		api.With(middleware.Timeout(timeout)).Post("/auth/sign-in", h.Auth.SignIn)

		api.Group(func(p chi.Router) {
			p.Use(middleware.JWT(opts.JWTSecret, opts.JWTIssuer, opts.JWTAudience))

			// websocket streams outlive the request timeout
			p.Get("/conversations/{conversationID}/messages/stream", h.Streams.Messages)
			p.Get("/conversations/{conversationID}/read-positions/stream", h.Streams.ReadPositions)
			p.Get("/posts/{postID}/comments/stream", h.Streams.Comments)

			p.Group(func(p chi.Router) {
				p.Use(middleware.Timeout(timeout))

				p.Get("/profile/me", h.Profile.GetProfile)
				p.Put("/profile/me", h.Profile.UpdateProfile)

				p.Get("/posts", h.Community.ListPosts)
				p.Post("/posts", h.Community.CreatePost)
				p.Get("/posts/{postID}", h.Community.GetPost)
				p.Put("/posts/{postID}", h.Community.UpdatePost)
				p.Delete("/posts/{postID}", h.Community.DeletePost)
				p.Get("/posts/{postID}/comments", h.Community.ListComments)
				p.Post("/posts/{postID}/comments", h.Community.CreateComment)
				p.Put("/comments/{commentID}", h.Community.UpdateComment)
				p.Delete("/comments/{commentID}", h.Community.DeleteComment)

				p.Post("/conversations", h.Messaging.CreateConversation)
				p.Get("/conversations", h.Messaging.ListConversations)
				p.Get("/conversations/{conversationID}/messages", h.Messaging.ListMessages)
				p.Post("/conversations/{conversationID}/messages", h.Messaging.SendMessage)
				p.Post("/conversations/{conversationID}/read", h.Messaging.MarkAsRead)
				p.Get("/conversations/{conversationID}/read-positions", h.Messaging.GetReadPositions)
				p.Get("/unread-counts", h.Messaging.GetUnreadCounts)
			})
		})
	})

	return otelhttp.NewHandler(r, opts.ServiceName)
}
