package bookgenapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bookgen/internal/book"
	"bookgen/internal/content"
	"bookgen/internal/session"
	"bookgen/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testGen = book.NewGenerator(content.NewRegistry())

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	registry := session.NewRegistry(testGen, time.Minute, zap.NewNop())
	mux := http.NewServeMux()
	session.NewHTTPHandler(registry, testGen, zap.NewNop()).Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, NewClient(Config{BaseURL: srv.URL, RetryWait: time.Millisecond})
}

func TestClient_SessionRoundTrip(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()
	cfg := testutil.TestConfig

	created, err := c.CreateSession(ctx, RequestFor(cfg))
	require.NoError(t, err)
	require.NotNil(t, created.Config)
	assert.Equal(t, cfg, *created.Config)
	assert.Equal(t, session.Ready, created.State)

	bound, err := testGen.Bind(cfg)
	require.NoError(t, err)

	page, err := c.Books(ctx, created.ID, 5, 3)
	require.NoError(t, err)
	require.Len(t, page.Books, 3)
	assert.Equal(t, int64(5), page.Start)
	assert.Equal(t, int64(8), page.Next)
	assert.True(t, page.HasMore)
	for i, b := range page.Books {
		assert.Equal(t, bound.At(int64(5+i)), b)
	}

	single, err := c.Book(ctx, created.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, page.Books[1], *single)

	got, err := c.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, c.DeleteSession(ctx, created.ID))
	_, err = c.GetSession(ctx, created.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestClient_NextPage(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	created, err := c.CreateSession(ctx, RequestFor(testutil.TestConfig))
	require.NoError(t, err)

	first, err := c.NextPage(ctx, created.ID, "", 4)
	require.NoError(t, err)
	require.NotEmpty(t, first.NextCursor)

	second, err := c.NextPage(ctx, created.ID, first.NextCursor, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), second.Start)

	whole, err := c.Books(ctx, created.ID, 0, 8)
	require.NoError(t, err)
	assert.Equal(t, whole.Books, append(first.Books, second.Books...))
}

func TestClient_ApplyConfigRejected(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	created, err := c.CreateSession(ctx, RequestFor(testutil.TestConfig))
	require.NoError(t, err)

	negative := -1.0
	_, err = c.ApplyConfig(ctx, created.ID, CreateSessionRequest{AvgLikes: &negative})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "INVALID_CONFIG", apiErr.Code)
	assert.NotEmpty(t, apiErr.Details)

	got, err := c.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestConfig, *got.Config)
}

func TestClient_Generate(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()
	cfg := testutil.TestConfig

	page, err := c.Generate(ctx, cfg, 100, 5)
	require.NoError(t, err)
	require.Len(t, page.Books, 5)

	bound, err := testGen.Bind(cfg)
	require.NoError(t, err)
	assert.Equal(t, bound.At(102), page.Books[2])
}

func TestClient_SeedAndLocales(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	s, err := c.RandomSeed(ctx)
	require.NoError(t, err)
	assert.Len(t, s, 13)

	locales, err := c.Locales(ctx)
	require.NoError(t, err)
	assert.Equal(t, content.Locales(), locales)
}

func TestClient_RetriesUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"FETCH_FAILED","message":"retry"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"seed":"abc"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: 3, RetryWait: time.Millisecond})
	s, err := c.RandomSeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: 2, RetryWait: time.Millisecond})
	_, err := c.Locales(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_RetriesOnlyIdempotent(t *testing.T) {
	tests := []struct {
		name      string
		call      func(c *Client) error
		wantCalls int32
	}{
		{
			name: "create session is sent once",
			call: func(c *Client) error {
				_, err := c.CreateSession(context.Background(), CreateSessionRequest{Seed: "abc"})
				return err
			},
			wantCalls: 1,
		},
		{
			name: "apply config is retried",
			call: func(c *Client) error {
				_, err := c.ApplyConfig(context.Background(), "id", CreateSessionRequest{Seed: "abc"})
				return err
			},
			wantCalls: 3,
		},
		{
			name: "delete is retried",
			call: func(c *Client) error {
				return c.DeleteSession(context.Background(), "id")
			},
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL, MaxRetries: 2, RetryWait: time.Millisecond})
			require.Error(t, tt.call(c))
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}
