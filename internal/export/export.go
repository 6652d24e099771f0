// Package export writes generated ranges to Postgres so test environments
// can be seeded from a config instead of fixtures.
package export

import (
	"errors"
	"time"

	"bookgen/internal/book"

	"github.com/google/uuid"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

const (
	DefaultBatchSize = 500
	MaxCount         = 1_000_000
)

var ErrInvalidRequest = errors.New("invalid export request")

// Run is one export job as recorded in export_runs.
type Run struct {
	ID           uuid.UUID   `json:"id"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   *time.Time  `json:"finished_at,omitempty"`
	Status       string      `json:"status"`
	Config       book.Config `json:"config"`
	Start        int64       `json:"start"`
	Requested    int64       `json:"requested"`
	BooksWritten int64       `json:"books_written"`
	Error        string      `json:"error,omitempty"`
}

// Request describes the range to export. Progress, if set, is called after
// every written batch.
type Request struct {
	Config    book.Config
	Start     int64
	Count     int64
	BatchSize int
	Progress  func(written, total int64)
}
