package identity

import "craft-catalog/feature/catalog/models"

// GeneralProfession namespaces records that are not tied to a profession.
const GeneralProfession = "general"

// CanonicalItemID maps an item into the downstream namespace, e.g. "item:general:rough-spool-of-thread".
func CanonicalItemID(item models.Item) string {
	return CanonicalID("item", GeneralProfession, item.Name)
}

// CanonicalCraftID maps a craft into the downstream namespace using its profession and
// display name without ordinal prefix, e.g. "craft:farming:make-basic-fertilizer-berry".
func CanonicalCraftID(craft models.Craft) string {
	return CanonicalID("craft", craft.Requirements.Profession, StripOrdinal(craft.Name))
}

// CanonicalID builds "<type>:<profession>:<slug>". A blank profession becomes "general".
func CanonicalID(kind, profession, name string) string {
	p := Slug(profession)
	if p == "" {
		p = GeneralProfession
	}
	return kind + ":" + p + ":" + Slug(name)
}
