package checks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"
	"craft-catalog/feature/catalog/store"
)

// DocumentReport describes problems in the persisted catalog documents. The store
// repairs most of them on its next load; the report shows them before that happens.
type DocumentReport struct {
	Matched bool           `json:"matched"`
	Items   DocumentStatus `json:"items"`
	Crafts  DocumentStatus `json:"crafts"`
	// DuplicateCraftNames lists display names shared by more than one craft.
	DuplicateCraftNames []string `json:"duplicate_craft_names"`
	// UnknownMaterials lists material and output names with no matching item record.
	UnknownMaterials []string `json:"unknown_materials"`
}

// DocumentStatus is the result for one document.
type DocumentStatus struct {
	Present       bool     `json:"present"`
	Records       int      `json:"records"`
	DeclaredCount int      `json:"declared_count"`
	CountDrift    bool     `json:"count_drift"`
	KeyDrift      []string `json:"key_drift"`
	DuplicateKeys []string `json:"duplicate_keys"`
	Nameless      int      `json:"nameless"`
	Error         string   `json:"error,omitempty"`
}

func (s DocumentStatus) ok() bool {
	return s.Error == "" && !s.CountDrift && len(s.KeyDrift) == 0 && len(s.DuplicateKeys) == 0 && s.Nameless == 0
}

// CheckDocuments inspects items.json and crafts.json in dir without taking the store lock.
// Missing documents are not an error; unreadable ones are reported per document.
func CheckDocuments(dir string) (*DocumentReport, error) {
	if dir == "" {
		return nil, fmt.Errorf("catalog data directory is not configured")
	}

	report := &DocumentReport{
		DuplicateCraftNames: []string{},
		UnknownMaterials:    []string{},
	}

	var itemDoc models.ItemDocument
	report.Items = readDocument(filepath.Join(dir, store.ItemsFile), &itemDoc)
	var craftDoc models.CraftDocument
	report.Crafts = readDocument(filepath.Join(dir, store.CraftsFile), &craftDoc)

	if report.Items.Present && report.Items.Error == "" {
		entries := make([]keyedRecord, 0, len(itemDoc.Records))
		for _, it := range itemDoc.Records {
			entries = append(entries, keyedRecord{key: it.Key, want: identity.ItemKey(it), name: it.Name})
		}
		inspect(&report.Items, itemDoc.Metadata.Count, entries)
	}
	if report.Crafts.Present && report.Crafts.Error == "" {
		entries := make([]keyedRecord, 0, len(craftDoc.Records))
		for _, c := range craftDoc.Records {
			entries = append(entries, keyedRecord{key: c.Key, want: identity.CraftKey(c), name: c.Name})
		}
		inspect(&report.Crafts, craftDoc.Metadata.Count, entries)
		report.DuplicateCraftNames = duplicateNames(craftDoc.Records)
		report.UnknownMaterials = unknownMaterials(itemDoc.Records, craftDoc.Records)
	}

	report.Matched = report.Items.ok() && report.Crafts.ok() && len(report.DuplicateCraftNames) == 0
	return report, nil
}

func readDocument(path string, v any) DocumentStatus {
	status := DocumentStatus{KeyDrift: []string{}, DuplicateKeys: []string{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return status
	}
	status.Present = true
	if err != nil {
		status.Error = err.Error()
		return status
	}
	if err := json.Unmarshal(data, v); err != nil {
		status.Error = fmt.Sprintf("corrupt document: %v", err)
	}
	return status
}

// keyedRecord pairs a stored key with the key recomputed from the record's content.
type keyedRecord struct {
	key, want, name string
}

func inspect(status *DocumentStatus, declared int, records []keyedRecord) {
	status.Records = len(records)
	status.DeclaredCount = declared
	status.CountDrift = declared != len(records)

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.name == "" {
			status.Nameless++
			continue
		}
		if r.key != r.want {
			status.KeyDrift = append(status.KeyDrift, r.key)
		}
		if _, dup := seen[r.key]; dup {
			status.DuplicateKeys = append(status.DuplicateKeys, r.key)
		}
		seen[r.key] = struct{}{}
	}
}

func duplicateNames(crafts []models.Craft) []string {
	counts := make(map[string]int, len(crafts))
	for _, c := range crafts {
		counts[identity.NormalizeName(c.Name)]++
	}
	dups := []string{}
	for name, n := range counts {
		if n > 1 && name != "" {
			dups = append(dups, name)
		}
	}
	sort.Strings(dups)
	return dups
}

func unknownMaterials(items []models.Item, crafts []models.Craft) []string {
	known := make(map[string]struct{}, len(items))
	for _, it := range items {
		known[identity.NormalizeName(it.Name)] = struct{}{}
	}
	unknown := make(map[string]struct{})
	for _, c := range crafts {
		for _, list := range [][]models.Material{c.Materials, c.Outputs} {
			for _, m := range list {
				name := identity.NormalizeName(m.Item)
				if name == "" {
					continue
				}
				if _, ok := known[name]; !ok {
					unknown[name] = struct{}{}
				}
			}
		}
	}
	out := make([]string, 0, len(unknown))
	for name := range unknown {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
