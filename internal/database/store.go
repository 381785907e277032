package database

import (
	"context"
	"errors"

	"github.com/mhtools/mhwork/internal/model"
)

// ErrNotFound is returned when a worklist id does not exist in the store.
var ErrNotFound = errors.New("worklist not found")

// Store defines the interface for all database operations.
// The command layer depends on the interface, not on a concrete database type.
type Store interface {
	// SaveWorklist stores w under name and returns its new id.
	SaveWorklist(ctx context.Context, name string, w *model.Worklist) (int64, error)
	ListWorklists(ctx context.Context) ([]model.WorklistSummary, error)
	GetWorklist(ctx context.Context, id int64) (*model.WorklistSummary, error)
	// Columns returns the column names of a stored worklist in table order.
	Columns(ctx context.Context, worklistID int64) ([]string, error)
	DeleteWorklist(ctx context.Context, id int64) error

	// Query execution for pre-built SQL (from query.Build). The scan order
	// matches model.JobFields.
	ExecuteQuery(ctx context.Context, sql string, args []any) ([]*model.StoredJob, error)
	ExecuteCountQuery(ctx context.Context, sql string, args []any) (int64, error)

	Dialect() Dialect
	Close() error
	Path() string
}
