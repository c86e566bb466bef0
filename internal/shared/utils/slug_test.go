package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii", "Books", "books"},
		{"spaces to hyphens", "Science Fiction", "science-fiction"},
		{"cyrillic transliteration", "Фильмы", "filmy"},
		{"cyrillic phrase", "Русская классика", "russkaya-klassika"},
		{"latin diacritics", "Café Noir", "cafe-noir"},
		{"special characters dropped", "Rock & Roll!", "rock-roll"},
		{"underscores", "drama_movies", "drama-movies"},
		{"collapses hyphen runs", "a  --  b", "a-b"},
		{"trims edge hyphens", "  -edge-  ", "edge"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}

func TestParseStringToUUID(t *testing.T) {
	id, err := ParseStringToUUID("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	assert.NoError(t, err)
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", id.String())

	_, err = ParseStringToUUID("not-a-uuid")
	assert.Error(t, err)
}
