package book

import (
	"fmt"

	"bookgen/internal/content"
	"bookgen/internal/seed"
)

// Generator resolves content providers and produces records for a config.
type Generator struct {
	providers content.Source
}

// NewGenerator creates a generator backed by the given provider source.
func NewGenerator(providers content.Source) *Generator {
	return &Generator{providers: providers}
}

// Bind validates cfg and resolves its provider once. The returned Bound is
// immutable and safe for concurrent use.
func (g *Generator) Bind(cfg Config) (*Bound, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := g.providers.For(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &Bound{cfg: cfg, provider: p}, nil
}

// At computes a single record without any session state.
func (g *Generator) At(cfg Config, index int64) (Book, error) {
	if index < 0 {
		return Book{}, fmt.Errorf("book: negative index %d", index)
	}
	b, err := g.Bind(cfg)
	if err != nil {
		return Book{}, err
	}
	return b.At(index), nil
}

// Bound is a generator fixed to one validated config.
type Bound struct {
	cfg      Config
	provider content.Provider
}

// Config returns the config the generator was bound with.
func (b *Bound) Config() Config {
	return b.cfg
}

// At returns the record at index. index must be non-negative.
func (b *Bound) At(index int64) Book {
	return Generate(seed.Derive(b.cfg.Seed, index), index, b.cfg, b.provider)
}
