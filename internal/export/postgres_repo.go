package export

import (
	"context"
	"time"

	"bookgen/internal/book"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var bookColumns = []string{
	"run_id", "idx", "book_id", "isbn", "title", "authors",
	"publisher", "likes", "reviews", "review_texts", "cover_url",
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (uuid.UUID, error) {
	const sql = `
		INSERT INTO export_runs (
			id, started_at, status, config_locale, config_seed, config_avg_likes,
			config_avg_reviews, config_fingerprint, start_index, requested
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	id := uuid.New()
	cfg := run.Config
	err := r.db.QueryRow(ctx, sql,
		id, run.StartedAt, run.Status, string(cfg.Locale), cfg.Seed, cfg.AvgLikes,
		cfg.AvgReviews, cfg.Fingerprint(), run.Start, run.Requested,
	).Scan(&id)
	return id, err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE export_runs SET
			finished_at = $1,
			status = $2,
			books_written = $3,
			error = $4
		WHERE id = $5`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, sql, run.FinishedAt, run.Status, run.BooksWritten, run.Error, run.ID)
	return err
}

// InsertBooks bulk-loads a batch with COPY.
func (r *PostgresRepo) InsertBooks(ctx context.Context, runID uuid.UUID, books []book.Book) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows := make([][]any, len(books))
	for i, b := range books {
		rows[i] = []any{
			runID, b.Index, b.ID, b.ISBN, b.Title, b.Authors,
			b.Publisher, b.Likes, b.Reviews, b.ReviewTexts, b.CoverURL,
		}
	}

	return r.db.CopyFrom(ctx, pgx.Identifier{"generated_books"}, bookColumns, pgx.CopyFromRows(rows))
}
