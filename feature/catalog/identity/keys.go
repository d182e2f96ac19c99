package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"craft-catalog/feature/catalog/models"
)

// KeyLength is the number of hex characters kept from the content hash.
const KeyLength = 16

// ItemKey derives the content key of an item from its normalized name, tier and rarity.
func ItemKey(item models.Item) string {
	tier := ""
	if item.Tier != nil {
		tier = strconv.Itoa(*item.Tier)
	}
	return digest(NormalizeName(item.Name), tier, NormalizeName(item.Rarity))
}

// CraftKey derives the content key of a craft from its identity name, sorted materials,
// sorted outputs and sorted non-empty requirements. Requirements take part in identity:
// the same materials under another profession, tool or building are another recipe.
func CraftKey(craft models.Craft) string {
	return digest(
		NormalizeName(IdentityName(craft)),
		MaterialSignature(craft.Materials),
		MaterialSignature(craft.Outputs),
		RequirementsSignature(craft.Requirements),
	)
}

// RawKey hashes the best-effort string form of input that could not be parsed as a record.
func RawKey(v any) string {
	var s string
	switch raw := v.(type) {
	case []byte:
		s = string(raw)
	case string:
		s = raw
	default:
		s = fmt.Sprintf("%v", raw)
	}
	return digest("raw", strings.TrimSpace(s))
}

// IdentityName is the craft name without the qualifier the disambiguator derives from its
// own primary material, so renaming a craft does not move it to a new key.
func IdentityName(craft models.Craft) string {
	name := strings.TrimSpace(craft.Name)
	q := Qualifier(craft.PrimaryMaterial())
	if q == "" || len(name) < len(q) {
		return name
	}
	if strings.EqualFold(name[len(name)-len(q):], q) {
		return strings.TrimSpace(name[:len(name)-len(q)])
	}
	return name
}

// MaterialSignature is the sorted, normalized "name:qty" list of entries joined by commas.
// Entries without an item name are ignored.
func MaterialSignature(materials []models.Material) string {
	pairs := make([]string, 0, len(materials))
	for _, m := range materials {
		name := NormalizeName(m.Item)
		if name == "" {
			continue
		}
		pairs = append(pairs, name+":"+NormalizeQty(string(m.Qty)))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// MaterialNames is the sorted set of normalized item names, quantities ignored.
func MaterialNames(materials []models.Material) string {
	seen := make(map[string]struct{}, len(materials))
	names := make([]string, 0, len(materials))
	for _, m := range materials {
		name := NormalizeName(m.Item)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// RequirementsSignature is the sorted "field:value" list of non-empty requirements.
// Values are case and whitespace normalized before hashing.
func RequirementsSignature(r models.Requirements) string {
	var pairs []string
	for field, value := range r.Fields() {
		if v := NormalizeName(value); v != "" {
			pairs = append(pairs, field+":"+v)
		}
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// digest joins length-prefixed parts so "a|b" and "a" + "|b" cannot collide.
func digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strconv.Itoa(len(p))))
		h.Write([]byte{':'})
		h.Write([]byte(p))
		h.Write([]byte{'|'})
	}
	return hex.EncodeToString(h.Sum(nil))[:KeyLength]
}
