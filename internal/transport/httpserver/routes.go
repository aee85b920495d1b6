package httpserver

import (
	"net/http"

	"family-hub-go/internal/config"
	"family-hub-go/internal/transport/httpserver/handler"
	"family-hub-go/internal/transport/httpserver/middleware"
	"family-hub-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *middleware.BearerAuth, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.NewCORS(cfg.AllowedOrigins))

	r.Get("/health", handlers.Common.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handlers.Common.Register)
		r.Post("/login", handlers.Common.Login)
		r.With(auth.Middleware).Get("/me", handlers.Common.AuthMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Route("/family", func(r chi.Router) {
			r.Post("/create", handlers.Family.CreateFamily)
			r.Post("/join", handlers.Family.JoinFamily)
			r.Get("/me", handlers.Family.GetFamilyMe)
			r.Get("/members", handlers.Family.ListMembers)
		})

		r.Route("/finance", func(r chi.Router) {
			r.Get("/savings/status", handlers.Finance.SavingsStatus)
			r.Post("/savings/pay", handlers.Finance.PayMonthly)
			r.Get("/goals", handlers.Finance.ListGoals)
			r.Post("/goals", handlers.Finance.CreateGoal)
			r.Post("/goals/{goal_id}/contribute", handlers.Finance.Contribute)
			r.Get("/goals/{goal_id}/contributions", handlers.Finance.ListContributions)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", handlers.Tasks.ListTasks)
			r.Post("/", handlers.Tasks.CreateTask)
			r.Get("/dashboard", handlers.Tasks.DashboardAlerts)
			r.Put("/{task_id}", handlers.Tasks.UpdateTask)
			r.Delete("/{task_id}", handlers.Tasks.DeleteTask)
			r.Post("/{task_id}/complete", handlers.Tasks.CompleteTask)
			r.Post("/{task_id}/rate", handlers.Tasks.RateTask)
			r.Get("/{task_id}/comments", handlers.Tasks.ListComments)
			r.Post("/{task_id}/comments", handlers.Tasks.AddComment)
		})
	})

	return r
}
