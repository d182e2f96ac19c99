package merge

import (
	"fmt"
	"math"
	"unicode/utf8"

	"craft-catalog/feature/catalog/models"
)

// epsilon absorbs float noise when comparing confidence margins, so 0.90 vs 0.85 is not
// read as a margin above 0.05.
const epsilon = 1e-9

// Score summarizes the quality of one observation.
type Score struct {
	Confidence float64
	// Completeness is the description length for items and the number of material and
	// output entries for crafts.
	Completeness int
	// Specificity is 1 when an item carries a tier, and the number of filled
	// requirement fields for crafts.
	Specificity int
}

// ScoreItem scores an item observation.
func ScoreItem(item models.Item) Score {
	s := Score{
		Confidence:   item.Confidence,
		Completeness: utf8.RuneCountInString(item.Description),
	}
	if item.Tier != nil {
		s.Specificity = 1
	}
	return s
}

// ScoreCraft scores a craft observation.
func ScoreCraft(craft models.Craft) Score {
	return Score{
		Confidence:   craft.Confidence,
		Completeness: len(craft.Materials) + len(craft.Outputs),
		Specificity:  craft.Requirements.Filled(),
	}
}

// ItemRule decides whether a candidate item replaces a stored one.
type ItemRule struct {
	// ConfidenceMargin is the amount by which the candidate must be more confident.
	ConfidenceMargin float64
	// DescriptionGrowth is the fraction by which the candidate description must be longer.
	DescriptionGrowth float64
}

// DefaultItemRule replaces on +0.05 confidence, a 20% longer description or a new tier.
var DefaultItemRule = ItemRule{ConfidenceMargin: 0.05, DescriptionGrowth: 0.20}

// Replace reports whether candidate should replace stored, and why.
func (r ItemRule) Replace(stored, candidate Score) (bool, string) {
	if exceeds(candidate.Confidence, stored.Confidence, r.ConfidenceMargin) {
		return true, fmt.Sprintf("confidence %.2f over %.2f", candidate.Confidence, stored.Confidence)
	}
	if longer(candidate.Completeness, stored.Completeness, r.DescriptionGrowth) {
		return true, fmt.Sprintf("description length %d over %d", candidate.Completeness, stored.Completeness)
	}
	if candidate.Specificity > 0 && stored.Specificity == 0 {
		return true, "adds tier"
	}
	return false, ""
}

// CraftRule decides whether a candidate craft replaces a stored, logically equal one.
type CraftRule struct {
	ConfidenceMargin float64
}

// DefaultCraftRule replaces on +0.10 confidence, more filled requirements or more entries.
var DefaultCraftRule = CraftRule{ConfidenceMargin: 0.10}

// Replace reports whether candidate should replace stored, and why.
func (r CraftRule) Replace(stored, candidate Score) (bool, string) {
	if exceeds(candidate.Confidence, stored.Confidence, r.ConfidenceMargin) {
		return true, fmt.Sprintf("confidence %.2f over %.2f", candidate.Confidence, stored.Confidence)
	}
	if candidate.Specificity > stored.Specificity {
		return true, fmt.Sprintf("requirements %d over %d fields", candidate.Specificity, stored.Specificity)
	}
	if candidate.Completeness > stored.Completeness {
		return true, fmt.Sprintf("entries %d over %d", candidate.Completeness, stored.Completeness)
	}
	return false, ""
}

func exceeds(candidate, stored, margin float64) bool {
	if math.IsNaN(candidate) || math.IsNaN(stored) {
		return false
	}
	return candidate-stored > margin+epsilon
}

func longer(candidate, stored int, growth float64) bool {
	if stored == 0 {
		return candidate > 0
	}
	return float64(candidate) > float64(stored)*(1+growth)+epsilon
}
