// Package service holds the student directory operations.
//
// Every call loads the whole table from the repository, works on that
// private copy and, for mutations, saves the whole table back. Nothing is
// kept in memory between calls.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/types"
)

// Students is the student directory service.
type Students struct {
	repo     storage.Repository
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures Students.
type Option func(*Students)

// WithClock replaces the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Students) { s.now = now }
}

// WithIDGenerator replaces the source of student identifiers.
func WithIDGenerator(newID func() string) Option {
	return func(s *Students) { s.newID = newID }
}

// New builds the service on top of repo.
func New(repo storage.Repository, logger *slog.Logger, opts ...Option) *Students {
	s := &Students{
		repo:     repo,
		validate: newValidator(),
		logger:   logger.With(slog.String("component", "student_service")),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newValidator reports field errors under their JSON keys.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// List returns the whole table.
func (s *Students) List(ctx context.Context) (table *types.Table, err error) {
	defer func() { observe("list", err) }()

	table, err = s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return table, nil
}

// Get returns the record stored under id.
func (s *Students) Get(ctx context.Context, id string) (student types.Student, err error) {
	defer func() { observe("get", err) }()

	table, err := s.repo.Load(ctx)
	if err != nil {
		return types.Student{}, fmt.Errorf("Get: %w", err)
	}

	student, ok := table.Get(id)
	if !ok {
		return types.Student{}, notFound("Student not found")
	}
	return student, nil
}

// Create validates in, rejects an email that is already stored and saves a
// new record under a freshly generated identifier. It returns that
// identifier.
func (s *Students) Create(ctx context.Context, in types.StudentCreate) (id string, err error) {
	defer func() { observe("create", err) }()

	if err := s.validate.Struct(in); err != nil {
		return "", invalid(err)
	}

	table, err := s.repo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("Create: %w", err)
	}

	for _, e := range table.Entries() {
		if strings.EqualFold(e.Email, in.Email) {
			return "", conflict("Email already exists")
		}
	}

	id = s.newID()
	table.Put(id, types.Student{
		Name:       in.Name,
		Email:      in.Email,
		Age:        *in.Age,
		Department: in.Department,
		CGPA:       *in.CGPA,
		CreatedAt:  s.now(),
	})

	if err := s.repo.Save(ctx, table); err != nil {
		return "", fmt.Errorf("Create: %w", err)
	}

	s.logger.Debug("student created", slog.String("id", id))
	return id, nil
}

// Update merges the fields present in patch into the record stored under
// id. Email uniqueness is not checked again.
func (s *Students) Update(ctx context.Context, id string, patch types.StudentPatch) (err error) {
	defer func() { observe("update", err) }()

	if err := s.validate.Struct(patch); err != nil {
		return invalid(err)
	}

	table, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	current, ok := table.Get(id)
	if !ok {
		return notFound("Student not found")
	}

	table.Put(id, patch.Apply(current))

	if err := s.repo.Save(ctx, table); err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	s.logger.Debug("student updated", slog.String("id", id))
	return nil
}

// Delete removes the record stored under id.
func (s *Students) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()

	table, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	if !table.Delete(id) {
		return notFound("Student not found")
	}

	if err := s.repo.Save(ctx, table); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	s.logger.Debug("student deleted", slog.String("id", id))
	return nil
}
