// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// Student represents one student record.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (lowercase names match REST API conventions).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty.
//     Age additionally carries gt=0 so a zero or negative age is
//     rejected at the gateway rather than stored.
//
// Name is the family name and Firstname the given name; Filiere is the
// program/track label ("Info", "Finance", ...), a free-text category.
type Student struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"      validate:"required"`
	Firstname string `json:"firstname" validate:"required"`
	Age       int    `json:"age"       validate:"required,gt=0"`
	Email     string `json:"email"     validate:"required,email"`
	Filiere   string `json:"filiere"   validate:"required"`

	// CreatedAt is assigned by the store at insert time and never
	// changes afterwards. Kept as the store's own text representation
	// (SQLite DATETIME) — it is displayed and exported, never computed on.
	CreatedAt string `json:"created_at,omitempty"`
}

// User is an operator credential row. PasswordHash is the bcrypt hash
// of the operator's password — it must never leave the auth package.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    string
}

// PublicUser is the identity returned to clients after a successful
// login. Deliberately a separate type so the hash cannot leak by
// accident through JSON encoding.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Pagination is the metadata block attached to every list response.
// TotalPages is ceil(Total/Limit).
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// StudentList is the full response shape of the listing endpoint.
type StudentList struct {
	Students   []Student  `json:"students"`
	Pagination Pagination `json:"pagination"`
}

// Statistics is the dashboard summary: total records, records created
// in the current calendar month, and the number of distinct filières.
type Statistics struct {
	Total     int64 `json:"total"`
	ThisMonth int64 `json:"thisMonth"`
	Filieres  int64 `json:"filieres"`
}
