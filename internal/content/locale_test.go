package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Locale
		wantErr bool
	}{
		{name: "exact", input: "en_US", want: EnUS},
		{name: "lower case", input: "de_de", want: DeDE},
		{name: "dash separator", input: "ja-JP", want: JaJP},
		{name: "surrounding spaces", input: "  en_US ", want: EnUS},
		{name: "unknown", input: "fr_FR", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocale(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedLocale))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocale_Suggestion(t *testing.T) {
	_, err := ParseLocale("german")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "did you mean de_DE")
	}
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, []string{"ja_JP"}, Suggest("japan"))
	assert.Empty(t, Suggest(""))
	assert.Empty(t, Suggest("klingon"))
}

func TestLookup(t *testing.T) {
	info, ok := Lookup(EnUS)
	assert.True(t, ok)
	assert.True(t, info.NativeTitles)
	assert.True(t, info.RichText)

	info, ok = Lookup(DeDE)
	assert.True(t, ok)
	assert.False(t, info.RichText)

	_, ok = Lookup("en_us")
	assert.False(t, ok)
}

func TestLocales_ReturnsCopy(t *testing.T) {
	l := Locales()
	l[0].Name = "changed"
	assert.Equal(t, "English (USA)", Locales()[0].Name)
}
