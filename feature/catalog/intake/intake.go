package intake

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"craft-catalog/core/utils"
	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"

	"go.uber.org/zap"
)

// Kind tags a parsed Record.
type Kind int

const (
	KindItem Kind = iota
	KindCraft
	KindMalformed
)

// Malformed describes a batch entry that is not a structured record.
type Malformed struct {
	Kind   models.RecordKind
	Raw    string
	Reason string
	// Key is the best-effort content key of the raw entry.
	Key string
}

// Record is exactly one of Item, Craft or Malformed, selected by Kind.
type Record struct {
	Kind      Kind
	Item      *models.Item
	Craft     *models.Craft
	Malformed *Malformed
}

// Parsed is a batch after the boundary parser ran. Submission order is preserved.
type Parsed struct {
	Items  []Record
	Crafts []Record
}

var tierPattern = regexp.MustCompile(`\d+`)

// maxTier bounds accepted tiers. Larger values are misreads and read as a missing tier.
const maxTier = 100

// ParseBatch parses every entry of batch. It never fails: entries that cannot be read
// become Malformed records and are logged as warnings.
func ParseBatch(batch models.Batch, logger *zap.Logger) Parsed {
	if logger == nil {
		logger = zap.NewNop()
	}
	parsed := Parsed{
		Items:  make([]Record, 0, len(batch.ItemsFound)),
		Crafts: make([]Record, 0, len(batch.CraftsFound)),
	}
	for i, raw := range batch.ItemsFound {
		rec := ParseItem(raw)
		if rec.Kind == KindMalformed {
			logMalformed(logger, i, rec.Malformed)
		}
		parsed.Items = append(parsed.Items, rec)
	}
	for i, raw := range batch.CraftsFound {
		rec := ParseCraft(raw)
		if rec.Kind == KindMalformed {
			logMalformed(logger, i, rec.Malformed)
		}
		parsed.Crafts = append(parsed.Crafts, rec)
	}
	return parsed
}

func logMalformed(logger *zap.Logger, index int, m *Malformed) {
	logger.Warn("Malformed batch entry",
		zap.String("kind", string(m.Kind)),
		zap.Int("index", index),
		zap.String("key", m.Key),
		zap.String("reason", m.Reason))
}

func malformed(kind models.RecordKind, raw json.RawMessage, format string, args ...any) Record {
	return Record{
		Kind: KindMalformed,
		Malformed: &Malformed{
			Kind:   kind,
			Raw:    string(raw),
			Reason: fmt.Sprintf(format, args...),
			Key:    identity.RawKey([]byte(raw)),
		},
	}
}

// ParseItem reads one raw item entry.
func ParseItem(raw json.RawMessage) Record {
	obj, err := object(raw)
	if err != nil {
		return malformed(models.KindItem, raw, "%v", err)
	}
	name, ok := text(obj["name"])
	if !ok {
		return malformed(models.KindItem, raw, "name is not text")
	}
	description, _ := text(obj["description"])
	rarity, _ := text(obj["rarity"])
	if rarity == "" {
		rarity, _ = text(obj["rank"])
	}
	item := &models.Item{
		Name:        name,
		Description: description,
		Tier:        tier(obj["tier"]),
		Rarity:      rarity,
		Confidence:  utils.ToFloat(obj["confidence"]),
	}
	return Record{Kind: KindItem, Item: item}
}

// ParseCraft reads one raw craft entry.
func ParseCraft(raw json.RawMessage) Record {
	obj, err := object(raw)
	if err != nil {
		return malformed(models.KindCraft, raw, "%v", err)
	}
	name, ok := text(obj["name"])
	if !ok {
		return malformed(models.KindCraft, raw, "name is not text")
	}
	materials, err := materialList(obj["materials"])
	if err != nil {
		return malformed(models.KindCraft, raw, "materials: %v", err)
	}
	outputs, err := materialList(obj["outputs"])
	if err != nil {
		return malformed(models.KindCraft, raw, "outputs: %v", err)
	}
	reqs, err := requirements(obj["requirements"])
	if err != nil {
		return malformed(models.KindCraft, raw, "requirements: %v", err)
	}
	craft := &models.Craft{
		Name:         name,
		Materials:    materials,
		Outputs:      outputs,
		Requirements: reqs,
		Confidence:   utils.ToFloat(obj["confidence"]),
	}
	return Record{Kind: KindCraft, Craft: craft}
}

func object(raw json.RawMessage) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %s", typeName(v))
	}
	return obj, nil
}

// text accepts strings, numbers and booleans. Missing values read as "" and are still ok.
func text(v any) (string, bool) {
	switch v.(type) {
	case nil:
		return "", true
	case string, float64, bool:
		return strings.TrimSpace(utils.ToString(v)), true
	default:
		return "", false
	}
}

// tier accepts 2, 2.0, "2" and labels such as "Tier 2". Values outside [0, maxTier]
// read as missing.
func tier(v any) *int {
	n, ok := utils.ToIntOK(v)
	if !ok {
		s, isString := v.(string)
		if !isString {
			return nil
		}
		digits := tierPattern.FindString(s)
		if digits == "" {
			return nil
		}
		if n, ok = utils.ToIntOK(digits); !ok {
			return nil
		}
	}
	if n < 0 || n > maxTier {
		return nil
	}
	return &n
}

func materialList(v any) ([]models.Material, error) {
	if v == nil {
		return []models.Material{}, nil
	}
	entries, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %s", typeName(v))
	}
	out := make([]models.Material, 0, len(entries))
	for i, entry := range entries {
		switch e := entry.(type) {
		case string:
			if name := strings.TrimSpace(e); name != "" {
				out = append(out, models.Material{Item: name})
			}
		case map[string]any:
			name, ok := text(firstOf(e, "item", "name"))
			if !ok {
				return nil, fmt.Errorf("entry %d: item is not text", i)
			}
			qty, _ := text(firstOf(e, "qty", "quantity"))
			out = append(out, models.Material{Item: name, Qty: models.NewQuantity(qty)})
		default:
			return nil, fmt.Errorf("entry %d: expected an object, got %s", i, typeName(entry))
		}
	}
	return out, nil
}

func requirements(v any) (models.Requirements, error) {
	switch r := v.(type) {
	case nil:
		return models.Requirements{}, nil
	case map[string]any:
		var reqs models.Requirements
		var ok [3]bool
		reqs.Profession, ok[0] = text(r["profession"])
		reqs.Tool, ok[1] = text(r["tool"])
		reqs.Building, ok[2] = text(r["building"])
		for i, field := range []string{"profession", "tool", "building"} {
			if !ok[i] {
				return models.Requirements{}, fmt.Errorf("%s is not text", field)
			}
		}
		return reqs, nil
	default:
		return models.Requirements{}, fmt.Errorf("expected an object, got %s", typeName(v))
	}
}

func firstOf(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
