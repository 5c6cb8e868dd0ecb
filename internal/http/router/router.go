// Package router assembles the HTTP route table of the student directory.
//
// Route table (paths are part of the public contract):
//
//	GET    /students                 → list all students
//	GET    /student/{id}             → get one student
//	POST   /create_student           → create a student
//	PUT    /student/{id}             → partially update a student
//	DELETE /student/{id}             → delete a student
//	GET    /students/search          → substring search on name/email
//	GET    /students/filter          → filter by department
//	GET    /sort                     → sort by name or age
//	GET    /students/stats           → aggregate statistics
//	GET    /health                   → liveness
//	GET    /metrics                  → Prometheus (when enabled)
package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/student-directory/internal/config"
	"github.com/aanand-mishra/student-directory/internal/http/handlers/student"
	"github.com/aanand-mishra/student-directory/internal/http/middleware"
	"github.com/aanand-mishra/student-directory/internal/utils/response"
)

// New returns the application handler.
func New(dir student.Directory, logger *slog.Logger, metrics config.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics())

	r.Get("/students", student.GetList(dir))
	r.Get("/students/search", student.Search(dir))
	r.Get("/students/filter", student.Filter(dir))
	r.Get("/students/stats", student.Stats(dir))

	r.Get("/student/{id}", student.GetByID(dir))
	r.Put("/student/{id}", student.Update(dir))
	r.Delete("/student/{id}", student.Delete(dir))

	r.Post("/create_student", student.New(dir))
	r.Get("/sort", student.Sort(dir))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	})

	if metrics.Enabled {
		r.Handle(metrics.Path, promhttp.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusNotFound,
			response.GeneralError(errors.New("Not Found")))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusMethodNotAllowed,
			response.GeneralError(errors.New("Method Not Allowed")))
	})

	return r
}
