package identity

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Runs of whitespace and any dash variant collapse to one space.
	separatorPattern = regexp.MustCompile(`[\s\-\x{2010}-\x{2015}\x{2212}]+`)
	// Sequence markers from paginated recipe lists: "1/2 ", "3. ", "4) ".
	ordinalPrefixPattern = regexp.MustCompile(`^\s*(?:\d+\s*/\s*\d+|\d+[.)])\s+`)
	qualifierPattern     = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
	slugPattern          = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeName lower-cases s and collapses whitespace/dash variants to single spaces.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	s = separatorPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeQty canonicalizes a quantity for comparison: trimmed, lower-case, no spaces.
func NormalizeQty(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), ""))
}

// StripOrdinal removes a leading sequence marker such as "1/2 ".
func StripOrdinal(name string) string {
	return ordinalPrefixPattern.ReplaceAllString(name, "")
}

// HasQualifier reports whether name already ends in a parenthetical suffix.
func HasQualifier(name string) bool {
	return qualifierPattern.MatchString(name)
}

// StripQualifier removes a trailing parenthetical suffix.
func StripQualifier(name string) string {
	return qualifierPattern.ReplaceAllString(name, "")
}

// BaseName is the grouping name for crafts: ordinal prefix and trailing qualifier removed,
// then normalized. "1/2 Make Basic Fertilizer (Berry)" → "make basic fertilizer".
func BaseName(name string) string {
	return NormalizeName(StripQualifier(StripOrdinal(name)))
}

// Qualifier renders the disambiguation suffix for a material, e.g. " (Berry)".
func Qualifier(material string) string {
	material = strings.Join(strings.Fields(material), " ")
	if material == "" {
		return ""
	}
	return " (" + cases.Title(language.Und).String(material) + ")"
}

// Slug renders s as a lower-case, dash separated identifier fragment.
func Slug(s string) string {
	s = slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
