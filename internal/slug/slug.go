// Package slug turns free text (post titles, category names, file names) into
// lower-case, hyphen-separated URL path segments.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make converts text into a slug.
//
// The input is decomposed (NFD) so accented letters lose their combining marks,
// lower-cased, and every run of characters that are not letters or digits is
// collapsed into a single hyphen. Leading and trailing hyphens are removed.
// Make is idempotent: Make(Make(s)) == Make(s).
func Make(text string) string {
	decomposed := norm.NFD.String(text)

	var b strings.Builder
	b.Grow(len(decomposed))

	pendingHyphen := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingHyphen = true
	}

	// NFD split Hangul syllables into jamo; put them back together.
	return norm.NFC.String(b.String())
}
