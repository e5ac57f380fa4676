package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/eventsaga/eventsaga-api/internal/api"
	"github.com/eventsaga/eventsaga-api/internal/api/middleware"
	"github.com/eventsaga/eventsaga-api/internal/api/shared"
	"github.com/eventsaga/eventsaga-api/internal/domain"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   app.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	authHandler := api.NewAuthHandler(app.authService, app.stores.Profiles)
	profileHandler := api.NewProfileHandler(app.stores.Profiles)
	eventHandler := api.NewEventHandler(app.stores.Events, app.stores.RSVPs)
	rsvpHandler := api.NewRSVPHandler(app.stores.Events, app.stores.RSVPs)
	groupHandler := api.NewGroupHandler(app.stores.Groups, app.stores.Memberships)
	messageHandler := api.NewMessageHandler(app.stores.Messages, app.stores.Memberships)

	authMiddleware := middleware.NewAuthMiddleware(app.verifier, app.stores.Profiles)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/{user_id}", profileHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Put("/", profileHandler.Update)
				r.Patch("/role", profileHandler.UpdateRole)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.OptionalAuth)
				r.Get("/", eventHandler.List)
				r.Get("/trending", eventHandler.Trending)
				r.Get("/{event_id}", eventHandler.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Use(authMiddleware.RequireRole(domain.RoleOrganizer))
				r.Post("/", eventHandler.Create)
				r.Put("/{event_id}", eventHandler.Update)
				r.Delete("/{event_id}", eventHandler.Delete)
				r.Get("/organizer/my-events", eventHandler.MyEvents)
			})
		})

		r.Route("/rsvps", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/my-rsvps", rsvpHandler.MyRSVPs)
			r.Post("/{event_id}", rsvpHandler.Create)
			r.Delete("/{event_id}", rsvpHandler.Delete)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.OptionalAuth)
				r.Get("/", groupHandler.List)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Get("/my-groups", groupHandler.MyGroups)
				r.Post("/", groupHandler.Create)
				r.Put("/{group_id}", groupHandler.Update)
				r.Post("/{group_id}/join", groupHandler.Join)
				r.Delete("/{group_id}/leave", groupHandler.Leave)
				r.Get("/{group_id}/members", groupHandler.Members)

				r.Get("/{group_id}/messages", messageHandler.List)
				r.Post("/{group_id}/messages", messageHandler.Send)
				r.Delete("/{group_id}/messages/{message_id}", messageHandler.Delete)
			})

			// Detail reads come last so /my-groups wins the match.
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.OptionalAuth)
				r.Get("/{group_id}", groupHandler.Get)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// handleHealth reports liveness and the build version.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithSuccess(w, r, http.StatusOK, "EventSaga API is running", map[string]any{
		"version": version,
	})
}
