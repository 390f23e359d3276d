// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care which database they are
// talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line in main.go. Zero handler changes.
//
//   - Writing tests = pass a fake/mock that satisfies the interface.
//     No real database needed for unit tests.
//
// This is the Dependency Inversion Principle in practice.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-records-api/internal/query"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

// Sentinel errors every backend must return for the conditions below.
// Handlers match them with errors.Is and map them to HTTP statuses;
// anything else is treated as an unexpected store failure.
var (
	// ErrNotFound: the mutation or lookup target does not exist
	// (zero rows affected / no row matched).
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail: an insert or update would violate the email
	// UNIQUE constraint. The first record always wins.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// CreateStudent inserts a new student record and returns the auto-
	// generated primary-key ID. The creation timestamp is assigned by
	// the store. Returns ErrDuplicateEmail on an email collision.
	CreateStudent(name, firstname string, age int, email, filiere string) (int64, error)

	// GetStudentByID fetches a single student by primary key.
	// Returns ErrNotFound if no row matches.
	GetStudentByID(id int64) (types.Student, error)

	// ListStudents returns one page of students matching the options'
	// predicate, plus the total number of matching rows independent of
	// paging. Rows with equal sort-field values keep store-dependent
	// relative order: no secondary sort key is defined.
	ListStudents(opts query.Options) ([]types.Student, int64, error)

	// ExportStudents returns EVERY student matching the search/filière
	// predicate, ordered by creation time descending. The whole set is
	// materialized; callers accept the memory cost.
	ExportStudents(search, filiere string) ([]types.Student, error)

	// UpdateStudentByID replaces the fields of an existing student.
	// Returns ErrNotFound if the id does not exist and
	// ErrDuplicateEmail if the new email belongs to a different row.
	UpdateStudentByID(id int64, student types.Student) (types.Student, error)

	// DeleteStudentByID removes a student record permanently.
	// Returns ErrNotFound if the id does not exist.
	DeleteStudentByID(id int64) error

	// Statistics reports the dashboard counters: total students,
	// students created this calendar month, distinct filières.
	Statistics() (types.Statistics, error)

	// ListFilieres returns the distinct filière labels in alphabetical
	// order, for the filter dropdown.
	ListFilieres() ([]string, error)

	// GetUserByEmail fetches an operator credential row by exact email.
	// Returns ErrNotFound if absent. The caller (the credential
	// verifier) is responsible for never leaking which lookup failed.
	GetUserByEmail(email string) (types.User, error)

	// CreateUser inserts an operator credential row. passwordHash must
	// already be hashed — the store never sees a plaintext password.
	CreateUser(name, email, passwordHash string) (int64, error)
}
