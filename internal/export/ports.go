package export

import (
	"context"

	"bookgen/internal/book"

	"github.com/google/uuid"
)

// Repository persists export runs and the records they produce.
type Repository interface {
	CreateRun(ctx context.Context, run *Run) (uuid.UUID, error)
	UpdateRun(ctx context.Context, run *Run) error
	InsertBooks(ctx context.Context, runID uuid.UUID, books []book.Book) (int64, error)
}
