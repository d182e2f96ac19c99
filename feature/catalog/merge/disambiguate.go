package merge

import (
	"sort"
	"strings"

	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"

	"go.uber.org/zap"
)

// Rename is a display name change proposed by Disambiguate.
type Rename struct {
	Key  string `json:"key"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Disambiguate groups crafts by base name and, for every group whose members use
// different material sets, proposes appending the primary material to each member's
// name, e.g. "Make Basic Fertilizer (Berry)". Names already ending in a parenthetical
// qualifier are left alone, which makes the pass idempotent. Renames are returned
// sorted by key.
func Disambiguate(crafts []models.Craft) []Rename {
	groups := make(map[string][]models.Craft)
	for _, c := range crafts {
		base := identity.BaseName(c.Name)
		groups[base] = append(groups[base], c)
	}

	var renames []Rename
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		materialSets := make(map[string]struct{}, len(group))
		for _, c := range group {
			materialSets[identity.MaterialNames(c.Materials)] = struct{}{}
		}
		if len(materialSets) < 2 {
			continue
		}
		for _, c := range group {
			if identity.HasQualifier(c.Name) {
				continue
			}
			q := identity.Qualifier(c.PrimaryMaterial())
			if q == "" {
				continue
			}
			renames = append(renames, Rename{
				Key:  c.Key,
				From: c.Name,
				To:   strings.TrimSpace(c.Name) + q,
			})
		}
	}
	sort.Slice(renames, func(i, j int) bool { return renames[i].Key < renames[j].Key })
	return renames
}

// Disambiguate applies Disambiguate to every stored craft. A rename that changes a
// craft's key re-indexes it; one that would collide with another stored craft is
// skipped. The applied renames are returned.
func (e *Engine) Disambiguate() []Rename {
	var applied []Rename
	for _, r := range Disambiguate(e.store.Crafts()) {
		craft, ok := e.store.Craft(r.Key)
		if !ok {
			continue
		}
		craft.Name = r.To
		newKey := identity.CraftKey(craft)
		if newKey != r.Key {
			if _, taken := e.store.Craft(newKey); taken {
				e.logger.Warn("Skipping craft rename that would collide",
					zap.String("from", r.From),
					zap.String("to", r.To),
					zap.String("key", newKey))
				continue
			}
			e.store.DeleteCraft(r.Key)
			craft.Key = newKey
		}
		e.store.PutCraft(craft)
		e.session.renameCraft(r.Key, craft)
		e.logger.Info("Disambiguated craft name",
			zap.String("from", r.From),
			zap.String("to", r.To))
		applied = append(applied, Rename{Key: craft.Key, From: r.From, To: r.To})
	}
	return applied
}
