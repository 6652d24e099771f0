package export

import (
	"context"
	"fmt"
	"math"
	"time"

	"bookgen/internal/book"
	"bookgen/internal/session"

	"go.uber.org/zap"
)

type Service struct {
	gen    *book.Generator
	repo   Repository
	logger *zap.Logger
	opts   []session.Option
	now    func() time.Time
}

// NewService creates an export service. opts are passed to the session that
// computes each batch.
func NewService(gen *book.Generator, repo Repository, logger *zap.Logger, opts ...session.Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, repo: repo, logger: logger, opts: opts, now: time.Now}
}

func (req Request) validate() error {
	if req.Start < 0 {
		return fmt.Errorf("%w: start must be non-negative", ErrInvalidRequest)
	}
	if req.Count <= 0 || req.Count > MaxCount {
		return fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, MaxCount)
	}
	if req.Start > math.MaxInt64-req.Count {
		return fmt.Errorf("%w: range overflows", ErrInvalidRequest)
	}
	if req.BatchSize < 0 {
		return fmt.Errorf("%w: batch size must be non-negative", ErrInvalidRequest)
	}
	return req.Config.Validate()
}

// Run generates the requested range batch by batch and writes it under a new
// export run. The run row always ends COMPLETED or FAILED.
func (s *Service) Run(ctx context.Context, req Request) (run *Run, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	batchSize := req.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}

	opts := append(append([]session.Option{session.WithLogger(s.logger)}, s.opts...),
		session.WithCacheSize(0),
		session.WithMaxPageSize(batchSize),
	)
	sess, err := session.Create(s.gen, req.Config, opts...)
	if err != nil {
		return nil, err
	}

	run = &Run{
		Status:    StatusRunning,
		Config:    req.Config,
		Start:     req.Start,
		Requested: req.Count,
		StartedAt: s.now(),
	}
	runID, rErr := s.repo.CreateRun(ctx, run)
	if rErr != nil {
		return nil, fmt.Errorf("create export run: %w", rErr)
	}
	run.ID = runID

	defer func() {
		now := s.now()
		run.FinishedAt = &now
		if err != nil && run.Error == "" {
			run.Error = err.Error()
		}

		if run.Error != "" {
			run.Status = StatusFailed
		} else {
			run.Status = StatusCompleted
		}
		// the job context may already be cancelled; the final status must still land
		if updateErr := s.repo.UpdateRun(context.WithoutCancel(ctx), run); updateErr != nil {
			s.logger.Error("failed to update export run", zap.Stringer("run_id", run.ID), zap.Error(updateErr))
		}
		s.logger.Info("export finished",
			zap.Stringer("run_id", run.ID),
			zap.String("status", run.Status),
			zap.Int64("books_written", run.BooksWritten),
		)
	}()

	end := req.Start + req.Count
	for pos := req.Start; pos < end; {
		n := int(min(int64(batchSize), end-pos))
		page, err := sess.FetchRange(ctx, pos, n)
		if err != nil {
			return run, fmt.Errorf("generate batch at %d: %w", pos, err)
		}

		written, err := s.repo.InsertBooks(ctx, run.ID, page.Records)
		if err != nil {
			return run, fmt.Errorf("write batch at %d: %w", pos, err)
		}
		run.BooksWritten += written
		if req.Progress != nil {
			req.Progress(run.BooksWritten, req.Count)
		}

		s.logger.Debug("export batch written",
			zap.Stringer("run_id", run.ID),
			zap.Int64("start", pos),
			zap.Int64("written", written),
		)
		pos = page.Next
	}

	return run, nil
}
