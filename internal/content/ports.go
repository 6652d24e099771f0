package content

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks bookgen/internal/content Provider

// Provider is the content capability used by the record generator.
type Provider interface {
	Locale() Locale
	// Title may fail; callers fall back to Sentence.
	Title(seed uint64) (string, error)
	Sentence(seed uint64) string
	Paragraph(seed uint64) string
	PersonName(seed uint64) string
	NumberInRange(seed uint64, min, max int) int
	ImageRef(width, height int, seedMaterial string) string
}

// Source resolves the provider for a locale.
type Source interface {
	For(locale Locale) (Provider, error)
}
