// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. It is fast enough for most projects and trivial to set up.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/student-records-api/internal/config"
	"github.com/aanand-mishra/student-records-api/internal/query"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	// Without this the sql.Open("sqlite3", ...) call would fail with
	// "unknown driver".
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines;
// concurrent writes are serialized by the engine itself.
type SQLite struct {
	Db *sql.DB
}

// studentColumns is the canonical SELECT list. Scan order everywhere in
// this file must match it.
const studentColumns = "id, name, firstname, age, email, filiere, created_at"

// New opens the SQLite database at the path specified in cfg.StoragePath,
// creates the tables if they do not already exist, and returns a
// ready-to-use *SQLite.
//
// Naming convention: New() acts as a constructor. Go has no constructors,
// so the community convention is a package-level New() function that
// returns an initialised instance (and an error as the second value).
func New(cfg *config.Config) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	// The first actual connection happens on the first query.
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	s := &SQLite{Db: db}
	if err := s.createTables(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewInMemory returns a store backed by an in-memory database.
// Used by tests; everything vanishes when the connection closes.
func NewInMemory() (*SQLite, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("sqlite.NewInMemory: open db: %w", err)
	}

	// Every pooled connection to ":memory:" gets its OWN database.
	// Pin the pool to a single connection so all queries see one store.
	db.SetMaxOpenConns(1)

	s := &SQLite{Db: db}
	if err := s.createTables(); err != nil {
		return nil, err
	}
	return s, nil
}

// createTables bootstraps the schema. CREATE TABLE IF NOT EXISTS is
// idempotent — safe to run on every startup.
//
// The UNIQUE constraints on both email columns are what back the
// duplicate-email contract: violating inserts/updates are rejected by
// the engine, never silently merged.
func (s *SQLite) createTables() error {
	_, err := s.Db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id         INTEGER  PRIMARY KEY AUTOINCREMENT,
			name       TEXT     NOT NULL,
			firstname  TEXT     NOT NULL,
			age        INTEGER  NOT NULL,
			email      TEXT     NOT NULL UNIQUE,
			filiere    TEXT     NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: create students table: %w", err)
	}

	_, err = s.Db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER  PRIMARY KEY AUTOINCREMENT,
			name       TEXT     NOT NULL,
			email      TEXT     NOT NULL UNIQUE,
			password   TEXT     NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: create users table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is the driver's UNIQUE
// constraint failure. mattn/go-sqlite3 exposes typed errors, but
// matching on the message keeps this file decoupled from driver
// internals the same way the rest of the code is.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ─────────────────────────────────────────────────────────────────────────────
// Students — mutations
// ─────────────────────────────────────────────────────────────────────────────

// CreateStudent inserts a new row into the students table.
//
// Prepared statements use placeholders (?). The database driver sends
// the query and the values separately, so the engine treats the values
// as pure data, never as SQL syntax — no injection is possible.
// created_at is filled in by the column default.
func (s *SQLite) CreateStudent(name, firstname string, age int, email, filiere string) (int64, error) {
	stmt, err := s.Db.Prepare(
		"INSERT INTO students (name, firstname, age, email, filiere) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(name, firstname, age, email, filiere)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	// LastInsertId returns the auto-generated primary key of the new
	// row. AUTOINCREMENT guarantees ids are monotonic — a new id is
	// always greater than every id ever assigned before it.
	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

// UpdateStudentByID replaces a student's data with the provided values.
// Echoes the submitted fields back with the id; created_at is immutable
// and not part of the update.
func (s *SQLite) UpdateStudentByID(id int64, student types.Student) (types.Student, error) {
	stmt, err := s.Db.Prepare(
		"UPDATE students SET name = ?, firstname = ?, age = ?, email = ?, filiere = ? WHERE id = ?",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(student.Name, student.Firstname, student.Age, student.Email, student.Filiere, id)
	if err != nil {
		// The UNIQUE constraint fires when the new email belongs to a
		// DIFFERENT row; updating a row to its own email is a no-op
		// for the constraint.
		if isUniqueViolation(err) {
			return types.Student{}, storage.ErrDuplicateEmail
		}
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	// RowsAffected == 0 means no row had this id.
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Student{}, storage.ErrNotFound
	}

	student.ID = id
	return student, nil
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Students — queries
// ─────────────────────────────────────────────────────────────────────────────

// GetStudentByID fetches exactly one student row matched by primary key.
//
// QueryRow executes the query and returns a *Row — a single-row result.
// Scan reads the columns from that row into Go variables IN ORDER; the
// order of variables must match the SELECT column list.
func (s *SQLite) GetStudentByID(id int64) (types.Student, error) {
	stmt, err := s.Db.Prepare(
		"SELECT " + studentColumns + " FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student
	err = stmt.QueryRow(id).Scan(
		&student.ID,
		&student.Name,
		&student.Firstname,
		&student.Age,
		&student.Email,
		&student.Filiere,
		&student.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// buildFilter assembles the shared WHERE clause for listing, counting,
// and exporting. The search term matches as a substring against name,
// firstname, OR email; the filière is an exact label match. Both are
// optional and combined with AND.
//
// Returns the clause (including the leading "WHERE", or empty) and the
// placeholder arguments in matching order.
func buildFilter(search, filiere string) (string, []any) {
	var conditions []string
	var args []any

	if search != "" {
		conditions = append(conditions, "(name LIKE ? OR firstname LIKE ? OR email LIKE ?)")
		term := "%" + search + "%"
		args = append(args, term, term, term)
	}
	if filiere != "" {
		conditions = append(conditions, "filiere = ?")
		args = append(args, filiere)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// ListStudents returns one page of matching students plus the total
// match count.
//
// The count runs with the same predicate but without ORDER BY or
// LIMIT, so pagination metadata is independent of the requested page.
// The ORDER BY column and direction come from the query package's
// enums (never from user input), so string concatenation here is safe.
func (s *SQLite) ListStudents(opts query.Options) ([]types.Student, int64, error) {
	where, args := buildFilter(opts.Search, opts.Filiere)

	var total int64
	countQuery := "SELECT COUNT(*) FROM students " + where
	if err := s.Db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListStudents: count: %w", err)
	}

	dataQuery := fmt.Sprintf(
		"SELECT %s FROM students %s ORDER BY %s %s LIMIT ? OFFSET ?",
		studentColumns, where, opts.Sort.Column(), opts.Order.Keyword(),
	)
	dataArgs := append(append([]any{}, args...), opts.Limit, opts.Offset())

	students, err := s.queryStudents(dataQuery, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListStudents: %w", err)
	}

	return students, total, nil
}

// ExportStudents returns the entire matching set, newest first.
// No LIMIT: the export contract materializes everything.
func (s *SQLite) ExportStudents(search, filiere string) ([]types.Student, error) {
	where, args := buildFilter(search, filiere)

	q := "SELECT " + studentColumns + " FROM students " + where + " ORDER BY created_at DESC"
	students, err := s.queryStudents(q, args...)
	if err != nil {
		return nil, fmt.Errorf("ExportStudents: %w", err)
	}
	return students, nil
}

// queryStudents runs a multi-row student SELECT and scans the results.
//
// Query (unlike QueryRow) returns *sql.Rows — a cursor over multiple
// rows. We iterate with rows.Next(), Scan each row, and always close
// the cursor to release the database connection.
func (s *SQLite) queryStudents(q string, args ...any) ([]types.Student, error) {
	rows, err := s.Db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Firstname,
			&student.Age,
			&student.Email,
			&student.Filiere,
			&student.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		students = append(students, student)
	}

	// rows.Err() captures any error that occurred during iteration.
	// This is separate from Scan errors.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return students, nil
}

// Statistics reports the dashboard counters in three queries.
// "This month" compares the year-month prefix of created_at with the
// store's own notion of now, so the comparison stays in one timezone.
func (s *SQLite) Statistics() (types.Statistics, error) {
	var stats types.Statistics

	if err := s.Db.QueryRow("SELECT COUNT(*) FROM students").Scan(&stats.Total); err != nil {
		return types.Statistics{}, fmt.Errorf("Statistics: total: %w", err)
	}

	err := s.Db.QueryRow(
		"SELECT COUNT(*) FROM students WHERE strftime('%Y-%m', created_at) = strftime('%Y-%m', 'now')",
	).Scan(&stats.ThisMonth)
	if err != nil {
		return types.Statistics{}, fmt.Errorf("Statistics: this month: %w", err)
	}

	err = s.Db.QueryRow("SELECT COUNT(DISTINCT filiere) FROM students").Scan(&stats.Filieres)
	if err != nil {
		return types.Statistics{}, fmt.Errorf("Statistics: filieres: %w", err)
	}

	return stats, nil
}

// ListFilieres returns the distinct filière labels alphabetically.
func (s *SQLite) ListFilieres() ([]string, error) {
	rows, err := s.Db.Query("SELECT DISTINCT filiere FROM students ORDER BY filiere")
	if err != nil {
		return nil, fmt.Errorf("ListFilieres: query: %w", err)
	}
	defer rows.Close()

	filieres := make([]string, 0)
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("ListFilieres: scan: %w", err)
		}
		filieres = append(filieres, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListFilieres: rows iteration: %w", err)
	}

	return filieres, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────────────────

// GetUserByEmail fetches an operator credential row by exact email.
func (s *SQLite) GetUserByEmail(email string) (types.User, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, name, email, password, created_at FROM users WHERE email = ? LIMIT 1",
	)
	if err != nil {
		return types.User{}, fmt.Errorf("GetUserByEmail: prepare: %w", err)
	}
	defer stmt.Close()

	var user types.User
	err = stmt.QueryRow(email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, storage.ErrNotFound
		}
		return types.User{}, fmt.Errorf("GetUserByEmail: scan: %w", err)
	}

	return user, nil
}

// CreateUser inserts an operator credential row. The password must
// arrive pre-hashed.
func (s *SQLite) CreateUser(name, email, passwordHash string) (int64, error) {
	stmt, err := s.Db.Prepare(
		"INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("CreateUser: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(name, email, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("CreateUser: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateUser: last insert id: %w", err)
	}

	return lastID, nil
}
