package scaffolding

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// transliterate spells out lowercase letters that carry no combining mark,
// so NFKD leaves them whole.
var transliterate = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"đ", "d",
	"ð", "d",
	"þ", "th",
	"ł", "l",
	"ı", "i",
)

// Slugify derives a filesystem- and URL-safe identifier from a title:
// accents are folded to their base letters, a few ligatures and stroked
// letters are spelled out in ASCII, everything is lowercased, and each run
// of other characters becomes a single hyphen. Scripts without a Latin
// spelling, such as CJK, produce no characters.
//
//	Slugify("My Great Book!") == "my-great-book"
func Slugify(title string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range transliterate.Replace(strings.ToLower(folded)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}

	return b.String()
}
