package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/medbook-api/internal/application/appointment"
	"github.com/medbook-api/internal/application/auth"
	doctorapp "github.com/medbook-api/internal/application/doctor"
	"github.com/medbook-api/internal/application/notification"
	"github.com/medbook-api/internal/application/user"
	"github.com/medbook-api/internal/config"
	"github.com/medbook-api/internal/domain"
	s3infra "github.com/medbook-api/internal/infrastructure/s3"
	"github.com/medbook-api/internal/transport/http/handler"
	appmiddleware "github.com/medbook-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	userSvc := user.NewService(deps.UserRepo, deps.JWTProvider)
	doctorSvc := doctorapp.NewService(doctorapp.ServiceDeps{
		DoctorRepo:  deps.DoctorRepo,
		UserRepo:    deps.UserRepo,
		PhotoStore:  deps.PhotoStore,
		ContentType: s3infra.DetectContentType,
	})
	appointmentSvc := appointment.NewService(deps.AppointmentRepo, deps.UserRepo)
	notifSvc := notification.NewService(deps.UserRepo)
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:         deps.UserRepo,
		VerificationRepo: deps.VerificationRepo,
		Mailer:           deps.Mailer,
		SMSSender:        deps.SMSSender,
		JWTProvider:      deps.JWTProvider,
	})

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc)
	doctorH := handler.NewDoctorHandler(doctorSvc)
	appointmentH := handler.NewAppointmentHandler(appointmentSvc, doctorSvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	authH := handler.NewAuthHandler(authSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", userH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/password-recovery/{action}", authH.RecoveryAction)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/{id}", userH.Get)
			r.Post("/auth/change-password", authH.ChangePassword)

			r.Get("/doctors", doctorH.ListApproved)
			r.Post("/doctors", doctorH.Apply)
			r.Get("/doctors/by-user/{userID}", doctorH.GetByUser)
			r.Get("/doctors/{id}", doctorH.Get)
			r.Put("/doctors/{id}", doctorH.Update)
			r.Post("/doctors/{id}/photo", doctorH.UploadPhoto)
			r.Get("/doctors/{id}/photo", doctorH.PhotoURL)

			r.Post("/appointments", appointmentH.Book)
			r.Post("/appointments/availability", appointmentH.CheckAvailability)
			r.Get("/appointments", appointmentH.ListMine)

			r.Get("/notifications", notifH.Get)
			r.Post("/notifications/mark-all-seen", notifH.MarkAllSeen)
			r.Delete("/notifications", notifH.DeleteAll)

			// Doctor and admin
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleDoctor, domain.RoleAdmin))

				r.Get("/appointments/doctor", appointmentH.ListForDoctor)
				r.Put("/appointments/{id}/status", appointmentH.ChangeStatus)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Get("/admin/doctors", doctorH.ListAll)
				r.Put("/doctors/{id}/status", doctorH.ChangeStatus)
			})
		})
	})

	return r
}
