package domain

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// columnRule maps headers containing any of needles to a canonical column.
// When several headers match, one whose folded name also contains prefer
// takes the canonical name ahead of the leftmost match.
type columnRule struct {
	target  string
	needles []string
	prefer  string
}

// columnRules are tested in order; the first rule with a matching needle wins.
// Location is tested before latitude so "Crash location" is never read as a
// coordinate column.
var columnRules = []columnRule{
	{target: ColDate, needles: []string{"date"}},
	{target: ColLocation, needles: []string{"location"}},
	{target: ColLatitude, needles: []string{"latitude", "lat"}},
	{target: ColLongitude, needles: []string{"longitude", "lon", "lng"}},
	{target: ColOperator, needles: []string{"operator"}},
	{target: ColFatalities, needles: []string{"fatalities", "fatal"}, prefer: "total"},
}

// FoldHeader lowercases a header and strips accents so substring tests are
// insensitive to case and diacritics ("Fécha" and "FECHA" fold alike).
func FoldHeader(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	stripped, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		stripped = strings.TrimSpace(s)
	}
	return cases.Fold().String(stripped)
}

// MatchColumn returns the canonical column a header maps to, if any.
func MatchColumn(header string) (string, bool) {
	folded := FoldHeader(header)
	for _, rule := range columnRules {
		for _, needle := range rule.needles {
			if strings.Contains(folded, needle) {
				return rule.target, true
			}
		}
	}
	return "", false
}

// ColumnMapping is the result of matching input headers to the canonical schema.
type ColumnMapping struct {
	// Renames maps input header to canonical name. Headers already carrying
	// their canonical name are not listed.
	Renames map[string]string
	// Columns is the schema after renaming, in input order.
	Columns []string
	// Collisions lists headers that matched a canonical column another header
	// had already claimed. They keep their original names.
	Collisions []string
}

// NormalizeColumns builds the rename mapping for the given headers. A header
// that is already exactly canonical claims its name first, then a header
// carrying its rule's preferred word ("Total fatalities" over "Crew
// fatalities"); otherwise the leftmost matching header wins. Unmatched
// headers pass through unchanged.
func NormalizeColumns(columns []string) ColumnMapping {
	m := ColumnMapping{
		Renames: make(map[string]string),
		Columns: make([]string, len(columns)),
	}

	claimed := make(map[string]string, len(CanonicalColumns))
	for _, c := range columns {
		if slices.Contains(CanonicalColumns, c) {
			claimed[c] = c
		}
	}
	for _, rule := range columnRules {
		if _, taken := claimed[rule.target]; taken || rule.prefer == "" {
			continue
		}
		for _, c := range columns {
			target, ok := MatchColumn(c)
			if ok && target == rule.target && strings.Contains(FoldHeader(c), rule.prefer) {
				claimed[target] = c
				break
			}
		}
	}

	for i, c := range columns {
		m.Columns[i] = c
		target, ok := MatchColumn(c)
		if !ok {
			continue
		}
		owner, taken := claimed[target]
		switch {
		case !taken:
			claimed[target] = c
		case owner != c:
			m.Collisions = append(m.Collisions, c)
			continue
		case c == target:
			continue
		}
		m.Renames[c] = target
		m.Columns[i] = target
	}
	return m
}

// Matched returns the canonical columns present after renaming, in canonical order.
func (m ColumnMapping) Matched() []string {
	var out []string
	for _, c := range CanonicalColumns {
		if slices.Contains(m.Columns, c) {
			out = append(out, c)
		}
	}
	return out
}

// Missing returns the required columns absent after renaming.
func (m ColumnMapping) Missing(required ...string) []string {
	var out []string
	for _, c := range required {
		if !slices.Contains(m.Columns, c) {
			out = append(out, c)
		}
	}
	return out
}

// Apply renames the dataset's schema and every record in place.
func (m ColumnMapping) Apply(ds *Dataset) {
	if len(m.Renames) == 0 {
		return
	}
	for i, c := range ds.Columns {
		if to, ok := m.Renames[c]; ok {
			ds.Columns[i] = to
		}
	}
	for _, r := range ds.Records {
		for from, to := range m.Renames {
			if v, ok := r[from]; ok {
				delete(r, from)
				r[to] = v
			}
		}
	}
}

// FindColumn returns the first column whose folded name contains needle.
func FindColumn(columns []string, needle string) (string, bool) {
	for _, c := range columns {
		if strings.Contains(FoldHeader(c), needle) {
			return c, true
		}
	}
	return "", false
}
