package export

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookgen/internal/book"
	"bookgen/internal/content"
	"bookgen/internal/session"
	"bookgen/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateRun(ctx context.Context, run *Run) (uuid.UUID, error) {
	args := m.Called(ctx, run)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockRepo) UpdateRun(ctx context.Context, run *Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRepo) InsertBooks(ctx context.Context, runID uuid.UUID, books []book.Book) (int64, error) {
	args := m.Called(ctx, runID, books)
	return args.Get(0).(int64), args.Error(1)
}

var (
	testGen   = book.NewGenerator(content.NewRegistry())
	testRunID = uuid.MustParse("4b1f0c1e-6a3d-4c52-9a57-8f0e2d7c1a90")
)

func newTestService(repo Repository) *Service {
	s := NewService(testGen, repo, zap.NewNop(), session.WithWorkers(2))
	s.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()
	cfg := testutil.TestConfig

	t.Run("writes every batch", func(t *testing.T) {
		repo := new(mockRepo)
		s := newTestService(repo)

		var written []book.Book
		repo.On("CreateRun", ctx, mock.MatchedBy(func(run *Run) bool {
			return run.Status == StatusRunning && run.Requested == 25 && run.Start == 10
		})).Return(testRunID, nil)
		repo.On("InsertBooks", ctx, testRunID, mock.Anything).Run(func(args mock.Arguments) {
			written = append(written, args.Get(2).([]book.Book)...)
		}).Return(int64(10), nil).Twice()
		repo.On("InsertBooks", ctx, testRunID, mock.Anything).Run(func(args mock.Arguments) {
			written = append(written, args.Get(2).([]book.Book)...)
		}).Return(int64(5), nil).Once()
		repo.On("UpdateRun", mock.Anything, mock.MatchedBy(func(run *Run) bool {
			return run.Status == StatusCompleted && run.BooksWritten == 25 && run.FinishedAt != nil && run.Error == ""
		})).Return(nil)

		var progress []int64
		run, err := s.Run(ctx, Request{
			Config:    cfg,
			Start:     10,
			Count:     25,
			BatchSize: 10,
			Progress:  func(done, total int64) { progress = append(progress, done) },
		})

		require.NoError(t, err)
		assert.Equal(t, testRunID, run.ID)
		assert.Equal(t, StatusCompleted, run.Status)
		assert.Equal(t, []int64{10, 20, 25}, progress)

		require.Len(t, written, 25)
		bound, err := testGen.Bind(cfg)
		require.NoError(t, err)
		for i, b := range written {
			assert.Equal(t, bound.At(int64(10+i)), b)
		}
		repo.AssertExpectations(t)
	})

	t.Run("insert failure marks run failed", func(t *testing.T) {
		repo := new(mockRepo)
		s := newTestService(repo)

		repo.On("CreateRun", ctx, mock.Anything).Return(testRunID, nil)
		repo.On("InsertBooks", ctx, testRunID, mock.Anything).Return(int64(0), errors.New("copy failed")).Once()
		repo.On("UpdateRun", mock.Anything, mock.MatchedBy(func(run *Run) bool {
			return run.Status == StatusFailed && run.BooksWritten == 0 && run.Error != ""
		})).Return(nil)

		run, err := s.Run(ctx, Request{Config: cfg, Count: 5})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "copy failed")
		assert.Equal(t, StatusFailed, run.Status)
		repo.AssertExpectations(t)
	})

	t.Run("cancelled context still records the failure", func(t *testing.T) {
		repo := new(mockRepo)
		s := newTestService(repo)
		cctx, cancel := context.WithCancel(ctx)

		repo.On("CreateRun", cctx, mock.Anything).Return(testRunID, nil)
		repo.On("InsertBooks", cctx, testRunID, mock.Anything).Run(func(mock.Arguments) {
			cancel()
		}).Return(int64(3), nil).Once()
		repo.On("UpdateRun", mock.Anything, mock.MatchedBy(func(run *Run) bool {
			return run.Status == StatusFailed && run.BooksWritten == 3
		})).Return(nil)

		_, err := s.Run(cctx, Request{Config: cfg, Count: 6, BatchSize: 3})

		assert.True(t, errors.Is(err, session.ErrFetchFailed))
		repo.AssertExpectations(t)
	})

	t.Run("create run failure", func(t *testing.T) {
		repo := new(mockRepo)
		s := newTestService(repo)

		repo.On("CreateRun", ctx, mock.Anything).Return(uuid.Nil, errors.New("db down"))

		run, err := s.Run(ctx, Request{Config: cfg, Count: 5})

		assert.Error(t, err)
		assert.Nil(t, run)
		repo.AssertNotCalled(t, "UpdateRun", mock.Anything, mock.Anything)
	})

	t.Run("invalid requests never touch the database", func(t *testing.T) {
		repo := new(mockRepo)
		s := newTestService(repo)

		bad := cfg
		bad.AvgLikes = -1
		for _, req := range []Request{
			{Config: cfg, Count: 0},
			{Config: cfg, Count: MaxCount + 1},
			{Config: cfg, Start: -1, Count: 1},
			{Config: cfg, Count: 1, BatchSize: -1},
			{Config: bad, Count: 1},
		} {
			_, err := s.Run(ctx, req)
			assert.Error(t, err)
		}
		repo.AssertNotCalled(t, "CreateRun", mock.Anything, mock.Anything)
	})
}

func TestHTTPHandler_Export(t *testing.T) {
	repo := new(mockRepo)
	repo.On("CreateRun", mock.Anything, mock.Anything).Return(testRunID, nil)
	repo.On("InsertBooks", mock.Anything, testRunID, mock.Anything).Return(int64(4), nil)
	repo.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	mux := http.NewServeMux()
	NewHTTPHandler(newTestService(repo), testutil.TestSecret).Register(mux)

	serve := func(r *http.Request) testutil.RecordResponse {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		return testutil.RecordHTTPResponse(w)
	}
	body := map[string]any{"locale": "en_US", "seed": "export", "avg_likes": 1, "count": 4}

	t.Run("unauthorized", func(t *testing.T) {
		resp := serve(testutil.NewInternalRequest(http.MethodPost, "/internal/jobs/export", body, "wrong"))
		testutil.AssertResponseCode(t, resp.Code, http.StatusUnauthorized)
	})

	t.Run("success", func(t *testing.T) {
		resp := serve(testutil.NewInternalRequest(http.MethodPost, "/internal/jobs/export", body, testutil.TestSecret))
		testutil.AssertResponseCode(t, resp.Code, http.StatusOK)
		testutil.AssertResponseBody(t, resp.Body, "success", true)

		var run Run
		require.NoError(t, resp.DecodeData(&run))
		assert.Equal(t, testRunID, run.ID)
		assert.Equal(t, StatusCompleted, run.Status)
		assert.Equal(t, int64(4), run.BooksWritten)
	})

	t.Run("validation", func(t *testing.T) {
		resp := serve(testutil.NewInternalRequest(http.MethodPost, "/internal/jobs/export",
			map[string]any{"locale": "en_US", "seed": "x"}, testutil.TestSecret))
		testutil.AssertResponseCode(t, resp.Code, http.StatusBadRequest)
		assert.Equal(t, "VALIDATION_ERROR", resp.ErrorCode())
	})

	t.Run("bad locale", func(t *testing.T) {
		resp := serve(testutil.NewInternalRequest(http.MethodPost, "/internal/jobs/export",
			map[string]any{"locale": "xx", "seed": "x", "count": 1}, testutil.TestSecret))
		testutil.AssertResponseCode(t, resp.Code, http.StatusBadRequest)
		assert.Equal(t, "INVALID_CONFIG", resp.ErrorCode())
	})
}
