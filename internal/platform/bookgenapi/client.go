// Package bookgenapi is a client for the book generator HTTP API.
package bookgenapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bookgen/internal/book"
	"bookgen/internal/content"
	"bookgen/internal/session"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	// RPS caps outgoing requests per second. Zero means no limit.
	RPS int
}

type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "bookgen-cli"
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RPS)), 1)
	}

	c := &Client{limiter: limiter}
	c.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(8 * cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r != nil && r.Request != nil && !idempotent(r.Request.Method) {
				return false
			}
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		}).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return c.limiter.Wait(req.Context())
		})
	return c
}

// idempotent reports whether a request may be replayed. A retried POST
// could create a second session.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// APIError is a non-2xx reply decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []Detail
}

type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("bookgen api: status %d", e.Status)
	}
	return fmt.Sprintf("bookgen api: %s (%d): %s", e.Code, e.Status, e.Message)
}

type envelope[T any] struct {
	Success bool     `json:"success"`
	Data    T        `json:"data"`
	Meta    pageMeta `json:"meta"`
}

type errorEnvelope struct {
	Error struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Details []Detail `json:"details"`
	} `json:"error"`
}

type pageMeta struct {
	Start      int64  `json:"start"`
	Next       int64  `json:"next"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
	RequestID  string `json:"request_id"`
}

// Page is one range of records as returned by the server. NextCursor is only
// set by NextPage.
type Page struct {
	Books      []book.Book
	Start      int64
	Next       int64
	HasMore    bool
	NextCursor string
}

// CreateSessionRequest mirrors POST /v1/sessions. Empty fields take the
// server defaults.
type CreateSessionRequest struct {
	Locale     string   `json:"locale,omitempty"`
	Seed       string   `json:"seed,omitempty"`
	AvgLikes   *float64 `json:"avg_likes,omitempty"`
	AvgReviews *float64 `json:"avg_reviews,omitempty"`
	Limit      int64    `json:"limit,omitempty"`
}

// RequestFor spells out every field of cfg.
func RequestFor(cfg book.Config) CreateSessionRequest {
	likes, reviews := cfg.AvgLikes, cfg.AvgReviews
	return CreateSessionRequest{
		Locale:     string(cfg.Locale),
		Seed:       cfg.Seed,
		AvgLikes:   &likes,
		AvgReviews: &reviews,
	}
}

func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*session.SessionResponse, error) {
	var env envelope[session.SessionResponse]
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", c.http.R().SetBody(req), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) GetSession(ctx context.Context, id string) (*session.SessionResponse, error) {
	var env envelope[session.SessionResponse]
	r := c.http.R().SetPathParam("id", id)
	if err := c.do(ctx, http.MethodGet, "/v1/sessions/{id}", r, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ApplyConfig replaces the session config. Fields left empty keep their
// current value.
func (c *Client) ApplyConfig(ctx context.Context, id string, req CreateSessionRequest) (*session.SessionResponse, error) {
	var env envelope[session.SessionResponse]
	r := c.http.R().SetPathParam("id", id).SetBody(req)
	if err := c.do(ctx, http.MethodPut, "/v1/sessions/{id}/config", r, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	r := c.http.R().SetPathParam("id", id)
	return c.do(ctx, http.MethodDelete, "/v1/sessions/{id}", r, nil)
}

// Books fetches records start..start+count-1 of a session.
func (c *Client) Books(ctx context.Context, id string, start int64, count int) (*Page, error) {
	r := c.http.R().SetPathParam("id", id).SetQueryParams(map[string]string{
		"start": strconv.FormatInt(start, 10),
		"count": strconv.Itoa(count),
	})
	return c.page(ctx, "/v1/sessions/{id}/books", r)
}

// NextPage continues from cursor; an empty cursor starts at index 0.
func (c *Client) NextPage(ctx context.Context, id, cursor string, size int) (*Page, error) {
	r := c.http.R().SetPathParam("id", id).SetQueryParam("page_size", strconv.Itoa(size))
	if cursor != "" {
		r.SetQueryParam("cursor", cursor)
	}
	return c.page(ctx, "/v1/sessions/{id}/books", r)
}

func (c *Client) Book(ctx context.Context, id string, index int64) (*book.Book, error) {
	var env envelope[book.Book]
	r := c.http.R().SetPathParams(map[string]string{"id": id, "index": strconv.FormatInt(index, 10)})
	if err := c.do(ctx, http.MethodGet, "/v1/sessions/{id}/books/{index}", r, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Generate fetches a range without creating a session.
func (c *Client) Generate(ctx context.Context, cfg book.Config, start int64, count int) (*Page, error) {
	r := c.http.R().SetQueryParams(map[string]string{
		"locale":      string(cfg.Locale),
		"seed":        cfg.Seed,
		"avg_likes":   strconv.FormatFloat(cfg.AvgLikes, 'g', -1, 64),
		"avg_reviews": strconv.FormatFloat(cfg.AvgReviews, 'g', -1, 64),
		"start":       strconv.FormatInt(start, 10),
		"count":       strconv.Itoa(count),
	})
	return c.page(ctx, "/v1/books", r)
}

func (c *Client) RandomSeed(ctx context.Context) (string, error) {
	var env envelope[struct {
		Seed string `json:"seed"`
	}]
	if err := c.do(ctx, http.MethodGet, "/v1/seeds/random", c.http.R(), &env); err != nil {
		return "", err
	}
	return env.Data.Seed, nil
}

func (c *Client) Locales(ctx context.Context) ([]content.Info, error) {
	var env envelope[[]content.Info]
	if err := c.do(ctx, http.MethodGet, "/v1/locales", c.http.R(), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) page(ctx context.Context, path string, r *resty.Request) (*Page, error) {
	var env envelope[[]book.Book]
	if err := c.do(ctx, http.MethodGet, path, r, &env); err != nil {
		return nil, err
	}
	return &Page{
		Books:      env.Data,
		Start:      env.Meta.Start,
		Next:       env.Meta.Next,
		HasMore:    env.Meta.HasMore,
		NextCursor: env.Meta.NextCursor,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, r *resty.Request, result any) error {
	r.SetContext(ctx).SetError(&errorEnvelope{})
	if result != nil {
		r.SetResult(result)
	}

	resp, err := r.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		if body, ok := resp.Error().(*errorEnvelope); ok {
			apiErr.Code = body.Error.Code
			apiErr.Message = body.Error.Message
			apiErr.Details = body.Error.Details
		}
		return apiErr
	}
	return nil
}
