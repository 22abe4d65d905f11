package release

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanSequels maps the numerals used for sequel and revival series. "I" and
// "X" are left alone: they are far more often words ("I Love Lucy", "The X Files").
var romanSequels = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

// titleSeparators turn the punctuation release names and catalogs disagree on into spaces.
var titleSeparators = strings.NewReplacer(
	"&", " and ",
	"'", "",
	"’", "",
	".", " ",
	"-", " ",
	"_", " ",
)

// FoldAccents strips combining marks, so "Pokémon" becomes "Pokemon".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// CleanTitle reduces a series title or release title to lower-case words for
// comparison. "The Office (US)" and "The.Office.US" both become "office us".
// A leading article is dropped from the title and from a subtitle after a
// colon, and sequel numerals after the first word become digits.
func CleanTitle(title string) string {
	s := titleSeparators.Replace(FoldAccents(strings.ToLower(title)))

	var words []string
	for _, part := range strings.Split(s, ":") {
		fields := strings.FieldsFunc(part, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(fields) > 1 {
			switch fields[0] {
			case "the", "a", "an":
				fields = fields[1:]
			}
		}
		words = append(words, fields...)
	}

	for i := 1; i < len(words); i++ {
		if n, ok := romanSequels[words[i]]; ok {
			words[i] = n
		}
	}
	return strings.Join(words, " ")
}

// NormalizeSearchQuery tidies the text sent to indexers: "&" becomes "and" and
// runs of whitespace collapse. Case and punctuation are kept.
func NormalizeSearchQuery(query string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(query, "&", "and")), " ")
}
