package httpapi

import (
	"net/http"

	"quizhub-backend-go/internal/config"
	"quizhub-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB     *sqlx.DB
	Config config.Config
	AI     services.GenAIClient
}

func NewServer(db *sqlx.DB, cfg config.Config) *Server {
	return &Server{
		DB:     db,
		Config: cfg,
		AI: services.GenAIClient{
			APIKey:  cfg.GenAIAPIKey,
			Model:   cfg.GenAIModel,
			BaseURL: cfg.GenAIBaseURL,
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Post("/register_student", s.RegisterStudent)
	r.Post("/register_staff", s.RegisterStaff)
	r.Post("/login_student", s.LoginStudent)
	r.Post("/login_staff", s.LoginStaff)
	r.Post("/login_admin", s.LoginAdmin)

	r.Route("/api", func(api chi.Router) {
		api.Get("/admin/students", s.ListStudents)
		api.Get("/admin/staff", s.ListStaff)
		api.Post("/gen_ai/generate", s.GenerateQuiz)
	})

	r.Get("/healthz", s.Health)
	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.Ping(); err != nil {
		WriteMessage(w, http.StatusServiceUnavailable, false, "database unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
