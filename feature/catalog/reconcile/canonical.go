package reconcile

import (
	"encoding/json"
	"fmt"

	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"
)

// CanonicalDocument is the authoritative dataset kept in object storage.
type CanonicalDocument struct {
	Items  []CanonicalItem  `json:"items"`
	Crafts []CanonicalCraft `json:"crafts"`
}

// CanonicalItem is one item of the canonical dataset.
type CanonicalItem struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Tier   *int   `json:"tier,omitempty"`
	Rarity string `json:"rarity,omitempty"`
}

// CanonicalCraft is one recipe of the canonical dataset.
type CanonicalCraft struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Profession string            `json:"profession,omitempty"`
	Materials  []models.Material `json:"materials"`
	Outputs    []models.Material `json:"outputs"`
}

// ParseCanonical decodes a canonical document. Entries without an id get the ID their
// name and profession map to; entries without a name are skipped.
func ParseCanonical(data []byte) (map[string]*Entity, error) {
	var doc CanonicalDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse canonical dataset: %w", err)
	}

	index := make(map[string]*Entity, len(doc.Items)+len(doc.Crafts))
	for _, it := range doc.Items {
		if it.Name == "" {
			continue
		}
		id := it.ID
		if id == "" {
			id = identity.CanonicalID(KindItem, identity.GeneralProfession, it.Name)
		}
		index[id] = &Entity{
			Kind:   KindItem,
			Name:   it.Name,
			Tier:   it.Tier,
			Rarity: it.Rarity,
		}
	}
	for _, c := range doc.Crafts {
		if c.Name == "" {
			continue
		}
		id := c.ID
		if id == "" {
			id = identity.CanonicalID(KindCraft, c.Profession, identity.StripOrdinal(c.Name))
		}
		index[id] = &Entity{
			Kind:       KindCraft,
			Name:       c.Name,
			Profession: c.Profession,
			Materials:  c.Materials,
			Outputs:    c.Outputs,
		}
	}
	return index, nil
}
