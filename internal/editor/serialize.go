package editor

import (
	"strings"
	"unicode"

	"github.com/pkordes/pfscgen/internal/domain"
)

// Fallbacks used when only one side of a label pair is filled in.
const (
	fallbackKey   = "key"
	fallbackValue = "value"
)

// Serialize turns a snapshot into file_sd records, one per group in order.
//
// Targets are trimmed and kept even when empty, so positions line up with the
// rows being edited. A label pair is dropped only when both trimmed sides are
// empty; otherwise a blank side takes the "key"/"value" fallback, and a later
// pair overwrites an earlier one with the same key. Group names are not part
// of the output.
//
// An empty snapshot returns domain.ErrEmptyCollection.
func Serialize(groups []domain.Group) ([]domain.Record, error) {
	if len(groups) == 0 {
		return nil, domain.ErrEmptyCollection
	}

	records := make([]domain.Record, 0, len(groups))
	for _, g := range groups {
		records = append(records, serializeGroup(g))
	}
	return records, nil
}

func serializeGroup(g domain.Group) domain.Record {
	rec := domain.Record{
		Targets: make([]string, 0, len(g.Targets)),
		Labels:  make(map[string]string, len(g.Labels)),
	}

	for _, t := range g.Targets {
		rec.Targets = append(rec.Targets, trim(t.Value))
	}

	for _, l := range g.Labels {
		key := trim(l.Key)
		value := trim(l.Value)
		if key == "" && value == "" {
			continue
		}
		if key == "" {
			key = fallbackKey
		}
		if value == "" {
			value = fallbackValue
		}
		rec.Labels[key] = value
	}
	return rec
}

// trim strips the whitespace a browser form field would: ECMAScript WhiteSpace
// and LineTerminator. That includes U+FEFF and excludes U+0085, unlike
// strings.TrimSpace.
func trim(s string) string {
	return strings.TrimFunc(s, isFormSpace)
}

func isFormSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
