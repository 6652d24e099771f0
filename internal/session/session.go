// Package session orchestrates a logical infinite sequence of generated
// books for one config.
//
// A Session holds nothing but an immutable snapshot (bound config plus an
// optional prefix cache) behind an atomic pointer. Applying a config swaps
// the whole snapshot; an in-flight fetch keeps using the snapshot it loaded,
// so it sees either the old config or the new one, never a mix.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"

	"bookgen/internal/book"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrUninitialized = errors.New("session has no config")
	ErrInvalidRange  = errors.New("invalid range")
	// ErrFetchFailed marks a retryable range failure. The session is left
	// unchanged, so retrying the same range is safe.
	ErrFetchFailed    = errors.New("range fetch failed")
	ErrCursorMismatch = book.ErrCursorMismatch
	ErrInvalidCursor  = book.ErrInvalidCursor
)

const (
	DefaultPageSize    = 10
	DefaultMaxPageSize = 100
	DefaultCacheSize   = 10000
)

// State is the lifecycle position of a session.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ready":
		*s = Ready
	case "uninitialized":
		*s = Uninitialized
	default:
		return fmt.Errorf("unknown session state %q", text)
	}
	return nil
}

// Page is the result of a range fetch. Next is the index following the last
// returned record.
type Page struct {
	Start   int64       `json:"start"`
	Records []book.Book `json:"records"`
	HasMore bool        `json:"has_more"`
	Next    int64       `json:"next"`
}

type options struct {
	limit       int64
	cacheSize   int
	workers     int
	maxPageSize int
	logger      *zap.Logger
}

// Option configures a Session.
type Option func(*options)

// WithLimit caps the sequence at n records. n <= 0 means unbounded.
func WithLimit(n int64) Option {
	return func(o *options) { o.limit = n }
}

// WithCacheSize bounds the materialized prefix. n <= 0 disables caching.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithWorkers sets how many goroutines compute a single range.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithMaxPageSize sets the largest count a single fetch accepts. Sessions
// are unbounded unless it is set.
func WithMaxPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPageSize = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func defaultOptions() options {
	return options{
		cacheSize:   DefaultCacheSize,
		workers:     runtime.GOMAXPROCS(0),
		logger:      zap.NewNop(),
	}
}

type state struct {
	bound   *book.Bound
	cache   *prefixCache
	version uint64
}

// Session serves ranges of one config's sequence.
type Session struct {
	gen      *book.Generator
	opts     options
	current  atomic.Pointer[state]
	versions atomic.Uint64
}

// New returns an uninitialized session.
func New(gen *book.Generator, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{gen: gen, opts: o}
}

// Create returns a ready session for cfg.
func Create(gen *book.Generator, cfg book.Config, opts ...Option) (*Session, error) {
	s := New(gen, opts...)
	if err := s.Apply(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply validates cfg and replaces the session state with a fresh sequence.
// On error the previous state is kept.
func (s *Session) Apply(cfg book.Config) error {
	bound, err := s.gen.Bind(cfg)
	if err != nil {
		s.opts.logger.Debug("config rejected", zap.Error(err))
		return err
	}

	next := &state{
		bound:   bound,
		cache:   newPrefixCache(s.opts.cacheSize),
		version: s.versions.Add(1),
	}
	s.current.Store(next)

	s.opts.logger.Debug("config applied",
		zap.String("fingerprint", cfg.Fingerprint()),
		zap.String("locale", string(cfg.Locale)),
		zap.Uint64("version", next.version),
	)
	return nil
}

// Reset drops the config and every materialized record.
func (s *Session) Reset() {
	s.current.Store(nil)
}

func (s *Session) State() State {
	if s.current.Load() == nil {
		return Uninitialized
	}
	return Ready
}

// Config returns the active config, if any.
func (s *Session) Config() (book.Config, bool) {
	st := s.current.Load()
	if st == nil {
		return book.Config{}, false
	}
	return st.bound.Config(), true
}

// Version increases with every applied config.
func (s *Session) Version() uint64 {
	st := s.current.Load()
	if st == nil {
		return 0
	}
	return st.version
}

// Limit is the configured sequence cap, 0 when unbounded.
func (s *Session) Limit() int64 {
	if s.opts.limit <= 0 {
		return 0
	}
	return s.opts.limit
}

// Cached reports how many records of the prefix are materialized.
func (s *Session) Cached() int {
	st := s.current.Load()
	if st == nil {
		return 0
	}
	return st.cache.len()
}

// FetchRange returns records start..start+count-1. Past the cap the result
// is shorter than requested and HasMore is false.
func (s *Session) FetchRange(ctx context.Context, start int64, count int) (Page, error) {
	st := s.current.Load()
	if st == nil {
		return Page{}, ErrUninitialized
	}
	return s.fetch(ctx, st, start, count)
}

// At returns a single record.
func (s *Session) At(ctx context.Context, index int64) (book.Book, error) {
	page, err := s.FetchRange(ctx, index, 1)
	if err != nil {
		return book.Book{}, err
	}
	if len(page.Records) == 0 {
		return book.Book{}, fmt.Errorf("%w: index %d is past the end of the sequence", ErrInvalidRange, index)
	}
	return page.Records[0], nil
}

// NextPage continues from cursor, or from index 0 when cursor is empty. The
// returned cursor is empty once the sequence is exhausted.
func (s *Session) NextPage(ctx context.Context, cursor string, size int) (Page, string, error) {
	st := s.current.Load()
	if st == nil {
		return Page{}, "", ErrUninitialized
	}
	if size == 0 {
		size = DefaultPageSize
	}

	cfg := st.bound.Config()
	start, err := book.CursorFor(cfg, cursor)
	if err != nil {
		return Page{}, "", err
	}

	page, err := s.fetch(ctx, st, start, size)
	if err != nil {
		return Page{}, "", err
	}

	var next string
	if page.HasMore {
		next = book.EncodeCursor(book.CursorData{Next: page.Next, Fingerprint: cfg.Fingerprint()})
	}
	return page, next, nil
}

func (s *Session) fetch(ctx context.Context, st *state, start int64, count int) (Page, error) {
	if start < 0 || count < 0 {
		return Page{}, fmt.Errorf("%w: start and count must be non-negative", ErrInvalidRange)
	}
	if s.opts.maxPageSize > 0 && count > s.opts.maxPageSize {
		return Page{}, fmt.Errorf("%w: count %d exceeds %d", ErrInvalidRange, count, s.opts.maxPageSize)
	}
	if start > math.MaxInt64-int64(count) {
		return Page{}, fmt.Errorf("%w: start %d out of bounds", ErrInvalidRange, start)
	}

	end := start + int64(count)
	if limit := s.Limit(); limit > 0 {
		end = min(end, limit)
	}
	if end < start {
		end = start
	}
	hasMore := s.Limit() == 0 || end < s.Limit()

	records := make([]book.Book, end-start)
	cached := st.cache.lookup(start, records)
	if err := s.compute(ctx, st, start+int64(cached), records[cached:]); err != nil {
		s.opts.logger.Warn("range fetch failed",
			zap.Int64("start", start),
			zap.Int("count", count),
			zap.Uint64("version", st.version),
			zap.Error(err),
		)
		return Page{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	st.cache.extend(start, records)

	return Page{
		Start:   start,
		Records: records,
		HasMore: hasMore,
		Next:    end,
	}, nil
}

// compute fills out[i] with the record at from+i. Work is split into one
// contiguous chunk per worker; chunks write disjoint slots, so no locking
// is needed and the merge is by index.
func (s *Session) compute(ctx context.Context, st *state, from int64, out []book.Book) error {
	if len(out) == 0 {
		return ctx.Err()
	}

	workers := min(s.opts.workers, len(out))
	chunk := (len(out) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(out); lo += chunk {
		hi := min(lo+chunk, len(out))
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("record %d: panic: %v", from+int64(lo), r)
				}
			}()
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				out[i] = st.bound.At(from + int64(i))
			}
			return nil
		})
	}
	return g.Wait()
}
