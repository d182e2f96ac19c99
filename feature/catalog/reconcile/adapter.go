package reconcile

import (
	"context"
	"fmt"
	"strconv"

	corereconcile "craft-catalog/core/reconcile"
	"craft-catalog/core/storage"
	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"
)

// Record kinds, also used as the type segment of canonical IDs.
const (
	KindItem  = "item"
	KindCraft = "craft"
)

// Catalog is the read side of the catalog the adapter indexes.
type Catalog interface {
	Items(name string) []models.Item
	Crafts(name string) []models.Craft
}

// Entity is the entry type of both indices. Key, Confidence and Variants are only set
// on local entities.
type Entity struct {
	Kind       string
	Key        string
	Name       string
	Tier       *int
	Rarity     string
	Profession string
	Materials  []models.Material
	Outputs    []models.Material
	Confidence float64
	Variants   int
}

// Adapter implements corereconcile.Adapter for items and crafts.
type Adapter struct {
	catalog Catalog
}

// NewAdapter creates an adapter reading local records from catalog.
func NewAdapter(catalog Catalog) *Adapter {
	return &Adapter{catalog: catalog}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "catalog"
}

// LoadLocalIndex indexes all stored records by canonical ID. Crafts that differ only in
// their ordinal prefix share one ID; the highest confidence one represents it and the
// others are counted as variants.
func (a *Adapter) LoadLocalIndex(ctx context.Context) (map[string]corereconcile.Entry, error) {
	items := a.catalog.Items("")
	crafts := a.catalog.Crafts("")
	index := make(map[string]corereconcile.Entry, len(items)+len(crafts))

	for _, it := range items {
		put(index, identity.CanonicalItemID(it), &Entity{
			Kind:       KindItem,
			Key:        it.Key,
			Name:       it.Name,
			Tier:       it.Tier,
			Rarity:     it.Rarity,
			Confidence: it.Confidence,
		})
	}
	for _, c := range crafts {
		put(index, identity.CanonicalCraftID(c), &Entity{
			Kind:       KindCraft,
			Key:        c.Key,
			Name:       c.Name,
			Profession: c.Requirements.Profession,
			Materials:  c.Materials,
			Outputs:    c.Outputs,
			Confidence: c.Confidence,
		})
	}
	return index, ctx.Err()
}

func put(index map[string]corereconcile.Entry, id string, e *Entity) {
	existing, ok := index[id]
	if !ok {
		index[id] = e
		return
	}
	prev := existing.(*Entity)
	if e.Confidence > prev.Confidence {
		e.Variants = prev.Variants + 1
		index[id] = e
		return
	}
	prev.Variants++
}

// LoadCanonicalIndex downloads and parses the canonical dataset.
func (a *Adapter) LoadCanonicalIndex(ctx context.Context, client storage.Client, bucket, objectName string) (map[string]corereconcile.Entry, error) {
	if client == nil {
		return nil, fmt.Errorf("no storage client for canonical dataset %s", objectName)
	}
	data, err := storage.ReadAll(ctx, client, bucket, objectName)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseCanonical(data)
	if err != nil {
		return nil, err
	}
	index := make(map[string]corereconcile.Entry, len(parsed))
	for id, e := range parsed {
		index[id] = e
	}
	return index, nil
}

// ResolveName prefers the canonical spelling.
func (a *Adapter) ResolveName(local, canonical corereconcile.Entry) string {
	if c := entity(canonical); c != nil {
		return c.Name
	}
	if l := entity(local); l != nil {
		return l.Name
	}
	return ""
}

// CompareFields reports tier and rarity differences for items, and material or output
// differences for crafts. Names are compared after normalization.
func (a *Adapter) CompareFields(local, canonical corereconcile.Entry) []string {
	l, c := entity(local), entity(canonical)
	if l == nil || c == nil {
		return nil
	}

	var mismatches []string
	if l.Kind != c.Kind {
		return append(mismatches, fmt.Sprintf("kind: local=%s canonical=%s", l.Kind, c.Kind))
	}

	switch l.Kind {
	case KindItem:
		if c.Tier != nil && (l.Tier == nil || *l.Tier != *c.Tier) {
			mismatches = append(mismatches, fmt.Sprintf("tier: local=%s canonical=%d", tierString(l.Tier), *c.Tier))
		}
		if c.Rarity != "" && identity.NormalizeName(l.Rarity) != identity.NormalizeName(c.Rarity) {
			mismatches = append(mismatches, fmt.Sprintf("rarity: local=%q canonical=%q", l.Rarity, c.Rarity))
		}
	case KindCraft:
		if identity.MaterialSignature(l.Materials) != identity.MaterialSignature(c.Materials) {
			mismatches = append(mismatches, "materials: local="+identity.MaterialSignature(l.Materials)+
				" canonical="+identity.MaterialSignature(c.Materials))
		}
		if identity.MaterialSignature(l.Outputs) != identity.MaterialSignature(c.Outputs) {
			mismatches = append(mismatches, "outputs: local="+identity.MaterialSignature(l.Outputs)+
				" canonical="+identity.MaterialSignature(c.Outputs))
		}
	}
	return mismatches
}

// GetMetadata exposes the record kind and, for local records, the content key.
func (a *Adapter) GetMetadata(local, canonical corereconcile.Entry) map[string]string {
	meta := make(map[string]string)
	if l := entity(local); l != nil {
		meta["kind"] = l.Kind
		meta["key"] = l.Key
		meta["confidence"] = strconv.FormatFloat(l.Confidence, 'f', 2, 64)
		if l.Variants > 0 {
			meta["local_variants"] = strconv.Itoa(l.Variants)
		}
	} else if c := entity(canonical); c != nil {
		meta["kind"] = c.Kind
	}
	return meta
}

// MatchQuery matches by normalized display name, with or without ordinal prefix, or by
// local content key.
func (a *Adapter) MatchQuery(query corereconcile.Query, id string, local, canonical corereconcile.Entry) bool {
	if query.ID != "" {
		if l := entity(local); l != nil && l.Key == query.ID {
			return true
		}
	}
	if query.Name == "" {
		return false
	}
	want := identity.NormalizeName(identity.StripOrdinal(query.Name))
	for _, e := range []*Entity{entity(local), entity(canonical)} {
		if e != nil && identity.NormalizeName(identity.StripOrdinal(e.Name)) == want {
			return true
		}
	}
	return false
}

func entity(e corereconcile.Entry) *Entity {
	if e == nil {
		return nil
	}
	v, _ := e.(*Entity)
	return v
}

func tierString(t *int) string {
	if t == nil {
		return "none"
	}
	return strconv.Itoa(*t)
}
