package validation

import (
	"fmt"
	"math"
	"strings"

	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"
)

// DefaultMinConfidence is used when no threshold is configured.
const DefaultMinConfidence = 0.7

// Result is the outcome of validating one record.
type Result struct {
	OK      bool     `json:"ok"`
	Reasons []string `json:"reasons,omitempty"`
}

func (r *Result) fail(format string, args ...any) {
	r.OK = false
	r.Reasons = append(r.Reasons, fmt.Sprintf(format, args...))
}

// Validator checks candidate records against a minimum confidence threshold.
type Validator struct {
	MinConfidence float64
}

// New creates a Validator. Thresholds outside (0, 1] fall back to DefaultMinConfidence.
func New(minConfidence float64) *Validator {
	if math.IsNaN(minConfidence) || minConfidence <= 0 || minConfidence > 1 {
		minConfidence = DefaultMinConfidence
	}
	return &Validator{MinConfidence: minConfidence}
}

// checkConfidence requires a finite confidence in [MinConfidence, 1]. Stored records must
// stay JSON-encodable, which rules out NaN and infinities.
func (v *Validator) checkConfidence(r *Result, confidence float64) {
	switch {
	case math.IsNaN(confidence) || math.IsInf(confidence, 0):
		r.fail("confidence %v is not a finite number", confidence)
	case confidence > 1:
		r.fail("confidence %.2f above 1", confidence)
	case confidence < v.MinConfidence:
		r.fail("confidence %.2f below threshold %.2f", confidence, v.MinConfidence)
	}
}

// ValidateItem fails items below the confidence threshold or without a name.
func (v *Validator) ValidateItem(item models.Item) Result {
	r := Result{OK: true}
	v.checkConfidence(&r, item.Confidence)
	if strings.TrimSpace(item.Name) == "" {
		r.fail("missing name")
	}
	return r
}

// ValidateCraft fails crafts below the confidence threshold, with a missing name, no
// requirements, no materials, no outputs or an item that is both consumed and produced.
// A craft without any requirement is most likely an item tooltip read as a recipe.
func (v *Validator) ValidateCraft(craft models.Craft) Result {
	r := Result{OK: true}
	v.checkConfidence(&r, craft.Confidence)
	if strings.TrimSpace(craft.Name) == "" {
		r.fail("missing name")
	}
	if craft.Requirements.IsEmpty() {
		r.fail("no requirements (profession, tool and building are all blank)")
	}
	if countNamed(craft.Materials) == 0 {
		r.fail("no materials")
	}
	if countNamed(craft.Outputs) == 0 {
		r.fail("no outputs")
	}
	for _, name := range circular(craft) {
		r.fail("circular recipe: %q appears in both materials and outputs", name)
	}
	return r
}

func countNamed(materials []models.Material) int {
	n := 0
	for _, m := range materials {
		if strings.TrimSpace(m.Item) != "" {
			n++
		}
	}
	return n
}

// circular lists normalized item names present on both sides of the recipe, in material order.
func circular(craft models.Craft) []string {
	outputs := make(map[string]struct{}, len(craft.Outputs))
	for _, o := range craft.Outputs {
		if name := identity.NormalizeName(o.Item); name != "" {
			outputs[name] = struct{}{}
		}
	}
	var names []string
	seen := make(map[string]struct{})
	for _, m := range craft.Materials {
		name := identity.NormalizeName(m.Item)
		if _, ok := outputs[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
