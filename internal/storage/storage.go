// Package storage defines the Repository interface, the contract that any
// backing store must satisfy to hold the student table.
//
// The whole table is loaded at the start of a request and, for mutations,
// saved back in full at the end. Handlers and the service never see the
// file format; tests pass an in-memory fake instead of touching disk.
package storage

import (
	"context"

	"github.com/aanand-mishra/student-directory/internal/types"
)

// Repository is the storage contract.
type Repository interface {
	// Load returns a fresh, private copy of every stored record.
	Load(ctx context.Context) (*types.Table, error)

	// Save replaces the stored records with the contents of table.
	Save(ctx context.Context, table *types.Table) error
}
