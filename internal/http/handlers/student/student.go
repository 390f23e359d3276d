// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage, config values)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `storage` even after the factory call has returned.
//
//	router.HandleFunc("POST /api/students", student.New(storage))
//	//                         New(storage) is called ONCE at startup.
//	//                         It returns a handler func which is called
//	//                         on EVERY incoming request.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-records-api/internal/export"
	"github.com/aanand-mishra/student-records-api/internal/query"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// User-facing messages for the domain error cases. The UI displays
// these verbatim, so they stay in French like the rest of the product.
const (
	msgDuplicateEmail       = "Cet email existe déjà"
	msgDuplicateEmailUpdate = "Cet email existe déjà pour un autre étudiant"
	msgStudentNotFound      = "Étudiant non trouvé"
)

// writeStoreError maps the storage sentinels onto HTTP statuses.
// Anything that is not a known sentinel is an unexpected store failure
// and surfaces as a 500 with the underlying message.
func writeStoreError(w http.ResponseWriter, err error, duplicateMsg string) {
	switch {
	case errors.Is(err, storage.ErrDuplicateEmail):
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New(duplicateMsg)))
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound,
			response.GeneralError(errors.New(msgStudentNotFound)))
	default:
		response.WriteJSON(w, http.StatusInternalServerError,
			response.GeneralError(err))
	}
}

// decodeStudent reads and validates a student payload from the request
// body. On failure it writes the 400 response itself and reports false.
func decodeStudent(w http.ResponseWriter, r *http.Request) (types.Student, bool) {
	var student types.Student

	err := json.NewDecoder(r.Body).Decode(&student)
	if errors.Is(err, io.EOF) {
		// io.EOF means the body was completely empty — nothing to decode.
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return types.Student{}, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.Student{}, false
	}

	// validator.New().Struct(v) checks all validate:"..." tags on v:
	// every field required, age > 0, email well-formed.
	if err := validator.New().Struct(student); err != nil {
		validateErrs := err.(validator.ValidationErrors)
		response.WriteJSON(w, http.StatusBadRequest,
			response.ValidationError(validateErrs))
		return types.Student{}, false
	}

	return student, true
}

// parseID extracts and converts the {id} path segment. On failure it
// writes the 400 response itself and reports false.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	// r.PathValue("id") extracts the {id} segment from the URL —
	// Go 1.22+ named path parameters in the ServeMux pattern.
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Dupont", "firstname": "Jean", "age": 21,
//	  "email": "jean@x.com", "filiere": "Info" }
//
// Success response (201 Created): the record with its assigned id.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, failed validation,
//	                   or duplicate email ("Cet email existe déjà")
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		student, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		lastID, err := store.CreateStudent(
			student.Name, student.Firstname, student.Age, student.Email, student.Filiere,
		)
		if err != nil {
			writeStoreError(w, err, msgDuplicateEmail)
			return
		}

		slog.Info("student created", slog.Int64("id", lastID))

		// Echo the submitted fields with the assigned id. CreatedAt is
		// store-assigned and not part of the echo contract.
		student.ID = lastID
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Filtered, sorted, paginated listing.
//
// Query-string options (all optional):
//
//	search    — substring matched against name, firstname, and email
//	filiere   — exact filière label
//	sortBy    — id | name | firstname | age | email | filiere | created_at
//	            (anything else falls back to created_at, silently)
//	sortOrder — asc | anything else = desc
//	page      — 1-based page number (values < 1 clamp to 1)
//	limit     — page size (default from config)
//
// Success response (200 OK):
//
//	{ "students": [ ... ],
//	  "pagination": { "page": 1, "limit": 10, "total": 42, "totalPages": 5 } }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := query.ParseOptions(r.URL.Query(), defaultLimit)

		slog.Info("listing students",
			slog.String("search", opts.Search),
			slog.String("filiere", opts.Filiere),
			slog.Int("page", opts.Page),
		)

		students, total, err := store.ListStudents(opts)
		if err != nil {
			slog.Error("error listing students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, types.StudentList{
			Students: students,
			Pagination: types.Pagination{
				Page:       opts.Page,
				Limit:      opts.Limit,
				Total:      total,
				TotalPages: query.TotalPages(total, opts.Limit),
			},
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Export handles GET /api/students/export
// Streams nothing: the ENTIRE filtered set (same search/filiere
// predicate as the listing, no paging, no client-chosen sort) is
// materialized, ordered by creation time descending, and sent as a CSV
// attachment named etudiants.csv.
// ─────────────────────────────────────────────────────────────────────────────
func Export(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		search, filiere := q.Get("search"), q.Get("filiere")

		slog.Info("exporting students",
			slog.String("search", search),
			slog.String("filiere", filiere),
		)

		students, err := store.ExportStudents(search, filiere)
		if err != nil {
			slog.Error("error exporting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename)
		w.WriteHeader(http.StatusOK)
		w.Write(export.StudentsCSV(students))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Statistics handles GET /api/statistics
//
// Success response (200 OK):
//
//	{ "total": 42, "thisMonth": 3, "filieres": 4 }
//
// ─────────────────────────────────────────────────────────────────────────────
func Statistics(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.Statistics()
		if err != nil {
			slog.Error("error computing statistics", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, stats)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Filieres handles GET /api/filieres
// Returns the distinct filière labels alphabetically, e.g.
//
//	["Finance", "Info", "Réseaux"]
//
// Feeds the filter dropdown in the UI.
// ─────────────────────────────────────────────────────────────────────────────
func Filieres(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filieres, err := store.ListFilieres()
		if err != nil {
			slog.Error("error listing filieres", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, filieres)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
// Fetches a single student by their primary key ID.
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := store.GetStudentByID(id)
		if err != nil {
			writeStoreError(w, err, msgDuplicateEmail)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Replaces ALL fields of an existing student. Same required-field
// contract as creation.
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty body, validation failure, or
//	                   email collision with a DIFFERENT student
//	                   ("Cet email existe déjà pour un autre étudiant")
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		student, ok := decodeStudent(w, r)
		if !ok {
			return
		}

		updated, err := store.UpdateStudentByID(id, student)
		if err != nil {
			writeStoreError(w, err, msgDuplicateEmailUpdate)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// Permanently removes a student record. No related entities, so no
// cascading effects.
//
// Success response (200 OK):
//
//	{ "success": true }
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := store.DeleteStudentByID(id); err != nil {
			writeStoreError(w, err, msgDuplicateEmail)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
