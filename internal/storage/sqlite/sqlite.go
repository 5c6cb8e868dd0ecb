// Package sqlite provides a SQLite-backed implementation of the
// storage.Repository interface using Go's standard database/sql package.
//
// SQLite keeps everything in a single file on disk, so this is still a
// flat-file store, only with a transactional write path. The table is
// loaded and saved as a whole, exactly like the JSON document driver; the
// position column remembers the order of identifiers.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aanand-mishra/student-directory/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Repository.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the students table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Schema:
	//   id         opaque student identifier (the JSON document key)
	//   position   order of the identifier in the table
	//   department NULL when the student has no department
	//   created_at RFC 3339 timestamp with nanoseconds
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id         TEXT    PRIMARY KEY,
			position   INTEGER NOT NULL,
			name       TEXT    NOT NULL,
			email      TEXT    NOT NULL,
			age        INTEGER NOT NULL,
			department TEXT,
			cgpa       REAL    NOT NULL,
			created_at TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// Load reads every row, in position order, into a fresh table.
func (s *SQLite) Load(ctx context.Context) (*types.Table, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT id, name, email, age, department, cgpa, created_at FROM students ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("Load: query: %w", err)
	}
	defer rows.Close()

	table := types.NewTable()
	for rows.Next() {
		var (
			id         string
			student    types.Student
			department sql.NullString
			createdAt  string
		)

		if err := rows.Scan(
			&id,
			&student.Name,
			&student.Email,
			&student.Age,
			&department,
			&student.CGPA,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("Load: scan row: %w", err)
		}

		if department.Valid {
			dept := department.String
			student.Department = &dept
		}

		student.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("Load: parse created_at of %s: %w", id, err)
		}

		table.Put(id, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Load: rows iteration: %w", err)
	}

	return table, nil
}

// Save replaces every row with the contents of table inside one
// transaction, so a failed save leaves the previous table intact.
func (s *SQLite) Save(ctx context.Context, table *types.Table) (err error) {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Save: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM students"); err != nil {
		return fmt.Errorf("Save: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO students (id, position, name, email, age, department, cgpa, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("Save: prepare: %w", err)
	}
	defer stmt.Close()

	for i, e := range table.Entries() {
		var department sql.NullString
		if e.Department != nil {
			department = sql.NullString{String: *e.Department, Valid: true}
		}

		if _, err = stmt.ExecContext(ctx,
			e.ID,
			i,
			e.Name,
			e.Email,
			e.Age,
			department,
			e.CGPA,
			e.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("Save: insert %s: %w", e.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("Save: commit: %w", err)
	}

	return nil
}
