package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops combining marks, then recomposes.
// "REGIONAL NORDESTE" and "REGIONAL NORDESTÊ" normalize to the same string.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeRegion canonicalizes a region name for comparison: accents
// removed, case folded to upper, everything non-alphanumeric stripped.
// Region names come from two independent sources (catalog rows and user
// selection) and disagree on hyphens, spacing and accents; comparisons
// must tolerate that rather than fail the filter.
func NormalizeRegion(s string) string {
	clean, _, err := transform.String(stripAccents, s)
	if err != nil {
		clean = s
	}

	var b strings.Builder
	for _, r := range clean {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
