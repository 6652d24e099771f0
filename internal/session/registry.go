package session

import (
	"context"
	"sync"
	"time"

	"bookgen/internal/book"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type entry struct {
	session  *Session
	lastUsed time.Time
}

// Registry keeps sessions by id and evicts the ones left idle past the TTL.
type Registry struct {
	gen    *book.Generator
	opts   []Option
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewRegistry(gen *book.Generator, ttl time.Duration, logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		gen:      gen,
		opts:     append([]Option{WithLogger(logger)}, opts...),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create builds a ready session for cfg. extra options apply after the
// registry defaults.
func (r *Registry) Create(cfg book.Config, extra ...Option) (string, *Session, error) {
	opts := append(append([]Option(nil), r.opts...), extra...)
	s, err := Create(r.gen, cfg, opts...)
	if err != nil {
		return "", nil, err
	}

	id := ulid.Make().String()
	r.mu.Lock()
	r.sessions[id] = &entry{session: s, lastUsed: r.now()}
	r.mu.Unlock()

	r.logger.Info("session created", zap.String("session_id", id), zap.String("fingerprint", cfg.Fingerprint()))
	return id, s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastUsed = r.now()
	return e.session, nil
}

// Apply replaces the config of an existing session.
func (r *Registry) Apply(id string, cfg book.Config) (*Session, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run evicts idle sessions until ctx is done. A non-positive TTL disables
// eviction.
func (r *Registry) Run(ctx context.Context) {
	if r.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.evict(r.now()); n > 0 {
				r.logger.Debug("idle sessions evicted", zap.Int("count", n))
			}
		}
	}
}

func (r *Registry) evict(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.sessions {
		if now.Sub(e.lastUsed) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
