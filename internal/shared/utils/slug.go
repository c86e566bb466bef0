package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug builds a URL-safe slug from a display name.
// "Science Fiction" becomes "science-fiction", "Фильмы" becomes "filmy".
func GenerateSlug(input string) string {
	// Step 1: transliterate non-ASCII letters
	ascii := Transliterate(input)

	// Step 2: lowercase
	lower := strings.ToLower(ascii)

	// Step 3: spaces and underscores to hyphens
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	hyphenated = strings.ReplaceAll(hyphenated, "_", "-")

	// Step 4: drop everything outside a-z, 0-9, hyphen
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")

	// Step 5: collapse hyphen runs and trim the ends
	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// Transliterate maps Cyrillic and common Latin diacritics to ASCII.
// Unknown runes pass through untouched and are filtered later.
func Transliterate(input string) string {
	multi := map[rune]string{
		// Cyrillic lowercase
		'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
		'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
		'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
		'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
		'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
		'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
		'э': "e", 'ю': "yu", 'я': "ya",

		// Cyrillic uppercase
		'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D",
		'Е': "E", 'Ё': "Yo", 'Ж': "Zh", 'З': "Z", 'И': "I",
		'Й': "Y", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N",
		'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T",
		'У': "U", 'Ф': "F", 'Х': "Kh", 'Ц': "Ts", 'Ч': "Ch",
		'Ш': "Sh", 'Щ': "Shch", 'Ъ': "", 'Ы': "Y", 'Ь': "",
		'Э': "E", 'Ю': "Yu", 'Я': "Ya",

		// Latin diacritics
		'á': "a", 'à': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
		'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
		'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
		'ó': "o", 'ò': "o", 'ô': "o", 'ö': "o", 'õ': "o",
		'ú': "u", 'ù': "u", 'û': "u", 'ü': "u",
		'ý': "y", 'ÿ': "y", 'ñ': "n", 'ç': "c", 'ß': "ss",
		'Á': "A", 'À': "A", 'Â': "A", 'Ä': "A", 'Ã': "A", 'Å': "A",
		'É': "E", 'È': "E", 'Ê': "E", 'Ë': "E",
		'Í': "I", 'Ì': "I", 'Î': "I", 'Ï': "I",
		'Ó': "O", 'Ò': "O", 'Ô': "O", 'Ö': "O", 'Õ': "O",
		'Ú': "U", 'Ù': "U", 'Û': "U", 'Ü': "U",
		'Ý': "Y", 'Ñ': "N", 'Ç': "C",
	}

	var b strings.Builder
	b.Grow(len(input))

	for _, r := range input {
		if replacement, ok := multi[r]; ok {
			b.WriteString(replacement)
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}
