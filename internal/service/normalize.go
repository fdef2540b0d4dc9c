package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// orgPrefix is the organizational token the GPS feed prepends to unit names
// ("FF Bergdorf Tank 1" vs roster "Bergdorf / Tank 1").
const orgPrefix = "ff"

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeUnitName canonicalizes a unit name for the fuzzy join between the
// GPS feed and the roster. Rule set: lower-case, strip diacritics, collapse
// whitespace, drop a leading org prefix token.
func NormalizeUnitName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if stripped, _, err := transform.String(diacriticStripper, s); err == nil {
		s = stripped
	}
	fields := strings.Fields(s)
	if len(fields) > 1 && fields[0] == orgPrefix {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}
