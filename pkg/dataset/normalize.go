package dataset

import (
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/livingset/pkg/constants"
)

// Key is a normalized composite key. Components are joined by the ASCII unit separator.
type Key string

const keySeparator = "\x1f"

// Parts splits a key into its normalized components.
func (k Key) Parts() []string {
	return strings.Split(string(k), keySeparator)
}

// String renders the key with " | " between components for logs.
func (k Key) String() string {
	return strings.Join(k.Parts(), " | ")
}

// identity pipeline: decompose, drop combining marks, fold case, drop
// separators/punctuation/symbols, recompose.
var identityChains = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			cases.Fold(),
			runes.Remove(runes.Predicate(func(r rune) bool {
				return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.Is(unicode.Cf, r)
			})),
			norm.NFC,
		)
	},
}

// NormalizeIdentity maps formatting variants of a name to one comparable form.
// "Dustin Poirier", "DustinPoirier", " dustin  poirier " and "Dústin Poirier."
// all normalize to "dustinpoirier".
func NormalizeIdentity(s string) string {
	s = strings.ToValidUTF8(s, "")
	if s == "" {
		return ""
	}
	tr := identityChains.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	identityChains.Put(tr)
	if err != nil {
		return NormalizeText(strings.ToLower(s))
	}
	return out
}

var dateLayouts = []string{
	constants.KeyDateLayout,
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"2006/01/02",
}

// NormalizeDate renders a recognized date as YYYY-MM-DD. Values in no known
// layout fall back to NormalizeText.
func NormalizeDate(s string) string {
	v := NormalizeText(s)
	if v == "" {
		return ""
	}
	if t, ok := ParseDate(v); ok {
		return t.Format(constants.KeyDateLayout)
	}
	return v
}

// ParseDate parses v with the known date layouts.
func ParseDate(v string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeText trims and collapses internal whitespace runs to one space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
