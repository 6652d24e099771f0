package book

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"bookgen/internal/content"
	"bookgen/internal/seed"
)

// Book is one synthetic catalog record. It is fully determined by the
// generation config and its index.
type Book struct {
	Index       int64    `json:"index"`
	ID          string   `json:"id"`
	ISBN        string   `json:"isbn"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Publisher   string   `json:"publisher"`
	Likes       int      `json:"likes"`
	Reviews     int      `json:"reviews"`
	ReviewTexts []string `json:"review_texts"`
	CoverURL    string   `json:"cover_url"`
}

// Config is the immutable input of a generated sequence. Changing any field
// starts a new sequence.
type Config struct {
	Locale     content.Locale `json:"locale" yaml:"locale" validate:"required,locale"`
	Seed       string         `json:"seed" yaml:"seed" validate:"required,max=128"`
	AvgLikes   float64        `json:"avg_likes" yaml:"avg_likes" validate:"gte=0,lte=10000"`
	AvgReviews float64        `json:"avg_reviews" yaml:"avg_reviews" validate:"gte=0,lte=10000"`
}

// DefaultConfig mirrors the generator's out-of-the-box settings. Seed is left
// empty; callers pick one (see seed.Random).
func DefaultConfig() Config {
	return Config{
		Locale:     content.EnUS,
		AvgLikes:   5,
		AvgReviews: 4.7,
	}
}

// Fingerprint is a short stable digest of the config. Cursors carry it so a
// page token cannot be replayed against a different sequence.
func (c Config) Fingerprint() string {
	canonical := strings.Join([]string{
		string(c.Locale),
		c.Seed,
		strconv.FormatFloat(c.AvgLikes, 'g', -1, 64),
		strconv.FormatFloat(c.AvgReviews, 'g', -1, 64),
	}, "\x1f")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:8])
}

// Identifier is the record id for a position in a seed's sequence.
func Identifier(rootSeed string, index int64) string {
	return seed.Key(rootSeed, index)
}
