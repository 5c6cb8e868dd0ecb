// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// To inject dependencies each exported function is a factory that accepts
// the Directory and returns a handler closing over it:
//
//	r.Post("/create_student", student.New(svc))
//	//                                 ^^^^^^^^
//	//                 New(svc) is called ONCE at startup; the returned
//	//                 handler runs on EVERY incoming request.
package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-directory/internal/service"
	"github.com/aanand-mishra/student-directory/internal/types"
	"github.com/aanand-mishra/student-directory/internal/utils/response"
)

// Directory is what the handlers need from the student service.
// *service.Students satisfies it; tests may pass anything else.
type Directory interface {
	List(ctx context.Context) (*types.Table, error)
	Get(ctx context.Context, id string) (types.Student, error)
	Create(ctx context.Context, in types.StudentCreate) (string, error)
	Update(ctx context.Context, id string, patch types.StudentPatch) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]types.Entry, error)
	Filter(ctx context.Context, department string) ([]types.Entry, error)
	Sort(ctx context.Context, sortBy, order string) ([]types.Entry, error)
	Stats(ctx context.Context) (types.Stats, error)
}

// Query parameter names; existing clients depend on them.
const (
	ParamSearch     = "student_name_or_email"
	ParamDepartment = "department"
	ParamSortBy     = "sort_by"
	ParamOrder      = "order"
)

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /students
// Returns the whole stored mapping, keyed by student id:
//
//	{ "3f2c…": { "name": "Alice", "email": "a@x.com", … } }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		table, err := dir.List(r.Context())
		if err != nil {
			writeError(w, "error getting students", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, table)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /student/{id}
//
// Success response (200 OK) — the stored record, without its id.
// Error responses:
//
//	404 Not Found — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := dir.Get(r.Context(), id)
		if err != nil {
			writeError(w, "error getting student", err, slog.String("id", id))
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /create_student
//
// Request body (JSON):
//
//	{ "name": "Alice", "email": "a@x.com", "age": 20, "department": "CS", "CGPA": 3.5 }
//
// Success response (201 Created):
//
//	{ "message": "Student created successfully" }
//
// Error responses:
//
//	400 Bad Request          — email already used by another student
//	422 Unprocessable Entity — empty body, malformed JSON, or failed validation
//
// ─────────────────────────────────────────────────────────────────────────────
func New(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var in types.StudentCreate
		if !decodeBody(w, r, &in) {
			return
		}

		id, err := dir.Create(r.Context(), in)
		if err != nil {
			writeError(w, "error creating student", err)
			return
		}

		slog.Info("student created", slog.String("id", id))
		response.WriteJSON(w, http.StatusCreated,
			response.Message{Message: "Student created successfully"})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /student/{id}
// Applies a PARTIAL update: only the keys present in the body change.
//
//	{ "age": 23 }
//
// Error responses:
//
//	404 Not Found            — no student with that id
//	422 Unprocessable Entity — empty body, malformed JSON, or failed validation
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("updating a student", slog.String("id", id))

		var patch types.StudentPatch
		if !decodeBody(w, r, &patch) {
			return
		}

		if err := dir.Update(r.Context(), id, patch); err != nil {
			writeError(w, "error updating student", err, slog.String("id", id))
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK,
			response.Message{Message: "Student updated successfully"})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /student/{id}
// Permanently removes a student record.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := dir.Delete(r.Context(), id); err != nil {
			writeError(w, "error deleting student", err, slog.String("id", id))
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK,
			response.Message{Message: "Student deleted successfully"})
	}
}

// Search handles GET /students/search?student_name_or_email=…
func Search(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, ok := requireQuery(w, r, ParamSearch)
		if !ok {
			return
		}
		slog.Info("searching students", slog.String("query", query))

		result, err := dir.Search(r.Context(), query)
		if err != nil {
			writeError(w, "error searching students", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, result)
	}
}

// Filter handles GET /students/filter?department=…
func Filter(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		department, ok := requireQuery(w, r, ParamDepartment)
		if !ok {
			return
		}
		slog.Info("filtering students", slog.String("department", department))

		result, err := dir.Filter(r.Context(), department)
		if err != nil {
			writeError(w, "error filtering students", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, result)
	}
}

// Sort handles GET /sort?sort_by=name|age&order=asc|desc
// order defaults to asc. Any other value of either parameter is a 400.
func Sort(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		sortBy := q.Get(ParamSortBy)
		order := service.OrderAsc
		if q.Has(ParamOrder) {
			order = q.Get(ParamOrder)
		}
		slog.Info("sorting students",
			slog.String("sort_by", sortBy), slog.String("order", order))

		result, err := dir.Sort(r.Context(), sortBy, order)
		if err != nil {
			writeError(w, "error sorting students", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, result)
	}
}

// Stats handles GET /students/stats
//
//	{ "total_students": 2, "average_age": 21, "count_per_department": { "CS": 2 } }
func Stats(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("computing student stats")

		stats, err := dir.Stats(r.Context())
		if err != nil {
			writeError(w, "error computing stats", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, stats)
	}
}

// decodeBody decodes the JSON request body into v. On failure it writes a
// 422 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusUnprocessableEntity,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusUnprocessableEntity, response.GeneralError(err))
		return false
	}
	return true
}

// requireQuery returns the query parameter name. A missing parameter is a
// 422; a present but empty one is passed through.
func requireQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	q := r.URL.Query()
	if !q.Has(name) {
		response.WriteJSON(w, http.StatusUnprocessableEntity,
			response.GeneralError(errors.New("query parameter "+name+" is required")))
		return "", false
	}
	return q.Get(name), true
}

// writeError maps a service error to its HTTP status.
func writeError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, service.ErrConflict):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case errors.Is(err, service.ErrInvalidParameter):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case errors.As(err, &verrs):
		response.WriteJSON(w, http.StatusUnprocessableEntity, response.ValidationError(verrs))
	case errors.Is(err, service.ErrValidation):
		response.WriteJSON(w, http.StatusUnprocessableEntity, response.GeneralError(err))
	default:
		slog.Error(msg, append(attrs, slog.String("error", err.Error()))...)
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}
