package export

import (
	"encoding/json"
	"time"

	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"
)

// CatalogItem is a row of the catalog_items table.
type CatalogItem struct {
	ContentKey      string     `gorm:"column:content_key;primaryKey;size:32"`
	CanonicalID     string     `gorm:"column:canonical_id;size:255;index"`
	Name            string     `gorm:"column:name;size:255"`
	Description     string     `gorm:"column:description;type:text"`
	Tier            *int       `gorm:"column:tier"`
	Rarity          string     `gorm:"column:rarity;size:64"`
	Confidence      float64    `gorm:"column:confidence"`
	Source          string     `gorm:"column:source;size:128"`
	ExtractedAt     time.Time  `gorm:"column:extracted_at"`
	RecordUpdatedAt *time.Time `gorm:"column:record_updated_at"`
	UpdateSource    string     `gorm:"column:update_source;size:128"`
}

// TableName overrides the table name.
func (CatalogItem) TableName() string {
	return "catalog_items"
}

// CatalogCraft is a row of the catalog_crafts table. Materials and outputs are stored as
// JSON arrays of {item, qty}.
type CatalogCraft struct {
	ContentKey      string     `gorm:"column:content_key;primaryKey;size:32"`
	CanonicalID     string     `gorm:"column:canonical_id;size:255;index"`
	Name            string     `gorm:"column:name;size:255"`
	Materials       string     `gorm:"column:materials;type:text"`
	Outputs         string     `gorm:"column:outputs;type:text"`
	Profession      string     `gorm:"column:profession;size:128"`
	Tool            string     `gorm:"column:tool;size:128"`
	Building        string     `gorm:"column:building;size:128"`
	Confidence      float64    `gorm:"column:confidence"`
	Source          string     `gorm:"column:source;size:128"`
	ExtractedAt     time.Time  `gorm:"column:extracted_at"`
	RecordUpdatedAt *time.Time `gorm:"column:record_updated_at"`
	UpdateSource    string     `gorm:"column:update_source;size:128"`
}

// TableName overrides the table name.
func (CatalogCraft) TableName() string {
	return "catalog_crafts"
}

// ItemRow converts a stored item.
func ItemRow(item models.Item) CatalogItem {
	return CatalogItem{
		ContentKey:      item.Key,
		CanonicalID:     identity.CanonicalItemID(item),
		Name:            item.Name,
		Description:     item.Description,
		Tier:            item.Tier,
		Rarity:          item.Rarity,
		Confidence:      item.Confidence,
		Source:          item.Extraction.Source,
		ExtractedAt:     item.Extraction.ExtractedAt,
		RecordUpdatedAt: item.Extraction.UpdatedAt,
		UpdateSource:    item.Extraction.UpdateSource,
	}
}

// CraftRow converts a stored craft.
func CraftRow(craft models.Craft) (CatalogCraft, error) {
	materials, err := json.Marshal(nonNil(craft.Materials))
	if err != nil {
		return CatalogCraft{}, err
	}
	outputs, err := json.Marshal(nonNil(craft.Outputs))
	if err != nil {
		return CatalogCraft{}, err
	}
	return CatalogCraft{
		ContentKey:      craft.Key,
		CanonicalID:     identity.CanonicalCraftID(craft),
		Name:            craft.Name,
		Materials:       string(materials),
		Outputs:         string(outputs),
		Profession:      craft.Requirements.Profession,
		Tool:            craft.Requirements.Tool,
		Building:        craft.Requirements.Building,
		Confidence:      craft.Confidence,
		Source:          craft.Extraction.Source,
		ExtractedAt:     craft.Extraction.ExtractedAt,
		RecordUpdatedAt: craft.Extraction.UpdatedAt,
		UpdateSource:    craft.Extraction.UpdateSource,
	}, nil
}

func nonNil(m []models.Material) []models.Material {
	if m == nil {
		return []models.Material{}
	}
	return m
}
