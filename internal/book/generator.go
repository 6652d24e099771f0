package book

import (
	"fmt"
	"math"

	"bookgen/internal/content"
	"bookgen/internal/seed"
)

const (
	maxAuthors   = 3
	nameAttempts = 8
	coverWidth   = 400
	coverHeight  = 600
	untitled     = "Untitled"
	anonymous    = "Anonymous"
	isbnPrefix   = "978"
)

// Publishers is the closed catalog records draw their publisher from.
var Publishers = []string{
	"Penguin", "HarperCollins", "Oxford", "Cambridge",
	"MIT Press", "Springer", "Wiley", "Elsevier",
}

// Count applies the fractional rule to a target average: the integer part
// always, plus one more when u falls under the fractional part. Over many
// records the mean converges to avg; avg 0 always yields 0.
func Count(avg, u float64) int {
	whole := math.Floor(avg)
	n := int(whole)
	if u < avg-whole {
		n++
	}
	return n
}

// Generate builds the record at index from its local seed. Each field draws
// from its own labelled sub-stream, so field order is irrelevant. Provider
// failures and panics are replaced with fallbacks and never abort the record.
// cfg must already be valid.
func Generate(local seed.Local, index int64, cfg Config, p content.Provider) Book {
	b := Book{
		Index:     index,
		ID:        Identifier(cfg.Seed, index),
		Likes:     Count(cfg.AvgLikes, local.Float64("likes")),
		Reviews:   Count(cfg.AvgReviews, local.Float64("reviews")),
		Publisher: Publishers[local.IntN("publisher", len(Publishers))],
	}

	b.Title = title(local, p)
	b.Authors = authors(local, p)
	b.ISBN = isbn(local, p)
	b.ReviewTexts = reviewTexts(local, cfg.Locale, b.Reviews, p)
	b.CoverURL = guard(func() string {
		return p.ImageRef(coverWidth, coverHeight, local.String())
	}, func() string { return "" })

	return b
}

func title(local seed.Local, p content.Provider) string {
	fallback := func() string {
		return guard(func() string { return p.Sentence(local.Uint64("title-fallback")) }, func() string { return untitled })
	}

	t := guard(func() string {
		t, err := p.Title(local.Uint64("title"))
		if err != nil {
			return ""
		}
		return t
	}, func() string { return "" })
	if t == "" {
		t = fallback()
	}
	if t == "" {
		t = untitled
	}
	return t
}

// authors draws 1-3 distinct names. A duplicate is re-drawn on a fresh label;
// if the provider keeps repeating itself the name gets an ordinal suffix.
func authors(local seed.Local, p content.Provider) []string {
	n := 1 + int(local.Float64("authors")*maxAuthors)
	if n > maxAuthors {
		n = maxAuthors
	}

	out := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		var name string
		for attempt := 0; attempt < nameAttempts; attempt++ {
			label := seed.Label(seed.Label("author", i), attempt)
			name = guard(func() string { return p.PersonName(local.Uint64(label)) }, func() string { return "" })
			if name != "" && !seen[name] {
				break
			}
		}
		if name == "" {
			name = anonymous
		}
		if seen[name] {
			name = fmt.Sprintf("%s (%d)", name, i+1)
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// isbn formats four provider draws as 978-d-dddd-dddd-d. It is presentational
// only: neither uniqueness nor a valid check digit is guaranteed.
func isbn(local seed.Local, p content.Provider) string {
	part := func(label string, max int) int {
		n := guard(func() int { return p.NumberInRange(local.Uint64(label), 0, max) }, func() int {
			return local.IntN(label, max+1)
		})
		if n < 0 || n > max {
			n = local.IntN(label, max+1)
		}
		return n
	}

	return fmt.Sprintf("%s-%d-%04d-%04d-%d",
		isbnPrefix,
		part("isbn-group", 9),
		part("isbn-publisher", 9999),
		part("isbn-title", 9999),
		part("isbn-check", 9),
	)
}

func reviewTexts(local seed.Local, locale content.Locale, n int, p content.Provider) []string {
	out := make([]string, 0, n)
	info, ok := content.Lookup(locale)
	rich := ok && info.RichText

	for i := 0; i < n; i++ {
		label := seed.Label("review", i)
		canned := func() string {
			return content.Canned(locale, local.IntN(label, content.CannedCount(locale)))
		}
		if !rich {
			out = append(out, canned())
			continue
		}
		text := guard(func() string { return p.Paragraph(local.Uint64(label)) }, canned)
		if text == "" {
			text = canned()
		}
		out = append(out, text)
	}
	return out
}

// guard runs fn and substitutes fallback if it panics.
func guard[T any](fn func() T, fallback func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			out = fallback()
		}
	}()
	return fn()
}
