package routes

import (
	"github.com/chrisbel07054/AquaSport/handlers"
	"github.com/chrisbel07054/AquaSport/middleware"
	"github.com/chrisbel07054/AquaSport/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes настраивает маршруты приложения поверх chi.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	enrollmentHandler *handlers.EnrollmentHandler,
	userHandler *handlers.UserHandler,
	testimonialHandler *handlers.TestimonialHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	router.Route("/torneo", func(r chi.Router) {
		// Публичные маршруты просмотра
		r.Get("/activos", tournamentHandler.ListActive)
		r.Get("/filtros", tournamentHandler.ListWithFilters)
		r.Get("/finalizados", tournamentHandler.ListFinalized)
		r.Get("/{id}", tournamentHandler.GetByID)

		// Инскрипции: любой аутентифицированный пользователь
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/inscripcion/{id}", enrollmentHandler.Enroll)
			r.Delete("/inscripcion/{id}", enrollmentHandler.Cancel)
		})

		// Управление турнирами: только админ
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Get("/", tournamentHandler.ListAllWithCounts)
			r.Post("/", tournamentHandler.Create)
			r.Put("/{id}", tournamentHandler.Update)
			r.Put("/cambiar-estado/{id}", tournamentHandler.ChangeState)
			r.Post("/{id}/imagen", tournamentHandler.UploadImage)
		})
	})

	router.Route("/testimonio", func(r chi.Router) {
		r.Get("/", testimonialHandler.List)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", testimonialHandler.Create)
		})
	})

	router.Route("/usuario", func(r chi.Router) {
		r.Get("/{id}", userHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/torneos/{id}", userHandler.ListTournaments)
			r.Get("/testimonios/{id}", userHandler.ListTestimonials)
			r.Put("/{id}", userHandler.UpdateProfile)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Get("/", userHandler.ListParticipants)
		})
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)
		r.Get("/estadisticas", adminHandler.GetStats)
		r.Get("/testimonios", adminHandler.ListTestimonials)
	})

	router.Get("/ws/torneo/{id}", webSocketHandler.ServeWs)
}
