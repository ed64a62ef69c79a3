package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-quora-api/internal/api/admin"
	"github.com/FACorreiaa/go-quora-api/internal/api/answer"
	"github.com/FACorreiaa/go-quora-api/internal/api/auth"
	"github.com/FACorreiaa/go-quora-api/internal/api/question"
)

// Config contains the handlers the router wires up.
type Config struct {
	AuthHandler     *auth.AuthHandler
	QuestionHandler *question.QuestionHandler
	AnswerHandler   *answer.AnswerHandler
	AdminHandler    *admin.AdminHandler
}

// SetupRouter builds the route table. Server-wide middleware (request ID,
// logging, recoverer) is applied before mounting this router in main.go.
// Authorization is not middleware here: each service resolves the token
// itself because the rejection message is operation-specific and two
// operations validate the resource before the caller.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"access_token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", cfg.AuthHandler.SignUp)
		r.Post("/signin", cfg.AuthHandler.SignIn)
		r.Post("/signout", cfg.AuthHandler.SignOut)
	})
	r.Get("/userprofile/{userId}", cfg.AuthHandler.GetUserProfile)

	r.Delete("/admin/user/{userId}", cfg.AdminHandler.DeleteUser)

	r.Route("/question", func(r chi.Router) {
		r.Post("/create", cfg.QuestionHandler.Create)
		r.Get("/all", cfg.QuestionHandler.GetAll)
		r.Get("/all/{userId}", cfg.QuestionHandler.GetAllByUser)
		r.Put("/edit/{questionId}", cfg.QuestionHandler.Edit)
		r.Delete("/delete/{questionId}", cfg.QuestionHandler.Delete)
		r.Post("/{questionId}/answer/create", cfg.AnswerHandler.Create)
	})

	r.Route("/answer", func(r chi.Router) {
		r.Put("/edit/{answerId}", cfg.AnswerHandler.Edit)
		r.Delete("/delete/{answerId}", cfg.AnswerHandler.Delete)
		r.Get("/all/{questionId}", cfg.AnswerHandler.GetAllForQuestion)
	})

	return r
}
