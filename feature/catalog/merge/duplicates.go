package merge

import (
	"time"

	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/intake"
	"craft-catalog/feature/catalog/models"
	"craft-catalog/feature/catalog/store"
)

// Analyze reports, for every entry of a parsed batch, whether its content key is already
// stored. It never mutates st; its result is informational and does not drive merging.
// Malformed entries are reported under their raw key and count as new.
func Analyze(parsed intake.Parsed, st *store.Store) models.DuplicateReport {
	report := models.DuplicateReport{
		Entries: make([]models.DuplicateEntry, 0, len(parsed.Items)+len(parsed.Crafts)),
	}

	for _, rec := range parsed.Items {
		entry := models.DuplicateEntry{Kind: models.KindItem}
		switch rec.Kind {
		case intake.KindItem:
			entry.Name = rec.Item.Name
			entry.Key = identity.ItemKey(*rec.Item)
			if stored, ok := st.Item(entry.Key); ok {
				entry.Exists = true
				entry.ExistingConfidence = stored.Confidence
				entry.FirstSeen = firstSeen(stored.Extraction)
			}
		default:
			entry.Malformed = true
			entry.Key = rec.Malformed.Key
		}
		report.ItemsTotal++
		if entry.Exists {
			report.ItemsDuplicate++
		} else {
			report.ItemsNew++
		}
		report.Entries = append(report.Entries, entry)
	}

	for _, rec := range parsed.Crafts {
		entry := models.DuplicateEntry{Kind: models.KindCraft}
		switch rec.Kind {
		case intake.KindCraft:
			entry.Name = rec.Craft.Name
			entry.Key = identity.CraftKey(*rec.Craft)
			if stored, ok := st.Craft(entry.Key); ok {
				entry.Exists = true
				entry.ExistingConfidence = stored.Confidence
				entry.FirstSeen = firstSeen(stored.Extraction)
			}
		default:
			entry.Malformed = true
			entry.Key = rec.Malformed.Key
		}
		report.CraftsTotal++
		if entry.Exists {
			report.CraftsDuplicate++
		} else {
			report.CraftsNew++
		}
		report.Entries = append(report.Entries, entry)
	}
	return report
}

func firstSeen(x models.Extraction) *time.Time {
	if x.ExtractedAt.IsZero() {
		return nil
	}
	t := x.ExtractedAt
	return &t
}
