package session

import (
	"slices"
	"sync"

	"bookgen/internal/book"
)

// prefixCache keeps records 0..n-1 of one config's sequence. It only grows
// contiguously and is discarded with its state on the next Apply.
type prefixCache struct {
	mu      sync.RWMutex
	max     int
	records []book.Book
}

func newPrefixCache(size int) *prefixCache {
	return &prefixCache{max: max(size, 0)}
}

func (c *prefixCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// lookup copies the cached head of the range starting at start into dst and
// returns how many slots it filled.
func (c *prefixCache) lookup(start int64, dst []book.Book) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if start >= int64(len(c.records)) {
		return 0
	}
	n := copy(dst, c.records[start:])
	for i := 0; i < n; i++ {
		dst[i] = clone(dst[i])
	}
	return n
}

// extend appends the part of a computed range that continues the prefix.
func (c *prefixCache) extend(start int64, recs []book.Book) {
	if c.max == 0 || len(recs) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	have := int64(len(c.records))
	if start > have || start+int64(len(recs)) <= have {
		return
	}
	for _, b := range recs[have-start:] {
		if len(c.records) >= c.max {
			return
		}
		c.records = append(c.records, clone(b))
	}
}

func clone(b book.Book) book.Book {
	b.Authors = slices.Clone(b.Authors)
	b.ReviewTexts = slices.Clone(b.ReviewTexts)
	return b
}
