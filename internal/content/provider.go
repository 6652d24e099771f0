// Package content supplies locale-aware text, names and image references for
// generated records.
//
// Every Provider call takes its seed material explicitly. Nothing here keeps a
// running random stream, so a provider can be shared between goroutines and
// the same seed always yields the same string.
package content

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"

	"github.com/brianvoe/gofakeit/v7"
)

// ErrUnsupported is returned by a provider operation the locale has no
// vocabulary for.
var ErrUnsupported = errors.New("content: unsupported for locale")

// fakerStream keeps provider streams apart from the seed package's streams.
const fakerStream = 0x2545f4914f6cdd1d

const imageBaseURL = "https://picsum.photos/seed"

// Faker is the gofakeit-backed Provider.
type Faker struct {
	info  Info
	names *nameBank
}

// NewFaker builds the provider for a supported locale.
func NewFaker(locale Locale) (*Faker, error) {
	info, ok := Lookup(locale)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	return &Faker{info: info, names: nameBanks[locale]}, nil
}

// faker returns a fresh, unlocked gofakeit instance on a PCG stream. It must
// not use gofakeit.New(0), which is seeded from crypto/rand.
func (f *Faker) faker(seed uint64) *gofakeit.Faker {
	return gofakeit.NewFaker(rand.NewPCG(seed, fakerStream), false)
}

func (f *Faker) Locale() Locale {
	return f.info.ID
}

func (f *Faker) Title(seed uint64) (string, error) {
	if !f.info.NativeTitles {
		return "", fmt.Errorf("%w: title for %s", ErrUnsupported, f.info.ID)
	}
	return f.faker(seed).BookTitle(), nil
}

func (f *Faker) Sentence(seed uint64) string {
	fk := f.faker(seed)
	return fk.Sentence(fk.Number(3, 8))
}

func (f *Faker) Paragraph(seed uint64) string {
	fk := f.faker(seed)
	return fk.Paragraph(1, fk.Number(2, 4), fk.Number(6, 12), " ")
}

func (f *Faker) PersonName(seed uint64) string {
	fk := f.faker(seed)
	if f.names == nil {
		return fk.Name()
	}
	return f.names.pick(fk)
}

func (f *Faker) NumberInRange(seed uint64, min, max int) int {
	return f.faker(seed).Number(min, max)
}

// ImageRef points at a placeholder image that is stable for the seed material.
func (f *Faker) ImageRef(width, height int, seedMaterial string) string {
	return fmt.Sprintf("%s/%s/%d/%d", imageBaseURL, url.PathEscape(seedMaterial), width, height)
}

// Registry holds one provider per supported locale.
type Registry struct {
	providers map[Locale]Provider
}

// NewRegistry builds a Faker for every registered locale.
func NewRegistry() *Registry {
	r := &Registry{providers: make(map[Locale]Provider, len(registry))}
	for _, info := range registry {
		p, err := NewFaker(info.ID)
		if err != nil {
			// registry entries are always constructible
			panic(err)
		}
		r.providers[info.ID] = p
	}
	return r
}

func (r *Registry) For(locale Locale) (Provider, error) {
	p, ok := r.providers[locale]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	return p, nil
}

// Single serves the same provider for every locale. Tests use it to inject
// stubs.
type Single struct {
	Provider Provider
}

func (s Single) For(Locale) (Provider, error) {
	return s.Provider, nil
}
