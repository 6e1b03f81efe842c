package rota

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Roster names and calendar names come from different systems with
// inconsistent casing and accents ("Muñoz" vs "MUNOZ"), so every string
// comparison in this package goes through Normalize first.

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize lowercases, trims and strips diacritics.
func Normalize(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// NamesMatch reports whether two names refer to the same person under the
// bidirectional containment rule: either normalized string contains the
// other. "García, Ana" therefore matches "ana garcia" both ways.
func NamesMatch(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// supervisorKeywords classify a free-text position title as
// supervisor-like. Known heuristic: the directory only carries titles, not
// structured role types, so the engines infer the role from the title.
var supervisorKeywords = []string{
	"supervisor",
	"supervisora",
	"coordinador",
	"coordinadora",
	"coordinator",
}

// IsSupervisorTitle reports whether the raw position title names a
// supervisor or coordinator role.
func IsSupervisorTitle(rawTitle string) bool {
	title := Normalize(rawTitle)
	for _, kw := range supervisorKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}
