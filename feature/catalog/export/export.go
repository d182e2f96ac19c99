package export

import (
	"context"
	"fmt"

	"craft-catalog/feature/catalog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 200

// Result counts the rows written and removed by Export.
type Result struct {
	Items         int `json:"items"`
	Crafts        int `json:"crafts"`
	RemovedItems  int `json:"removedItems"`
	RemovedCrafts int `json:"removedCrafts"`
}

// Migrate creates or updates the export tables.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if err := db.AutoMigrate(&CatalogItem{}, &CatalogCraft{}); err != nil {
		return fmt.Errorf("failed to migrate export tables: %w", err)
	}
	return nil
}

// Export upserts every item and craft and deletes rows whose content key is gone.
// Nothing is written unless the whole export succeeds.
func Export(ctx context.Context, db *gorm.DB, items []models.Item, crafts []models.Craft) (*Result, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	itemRows := make([]CatalogItem, 0, len(items))
	itemKeys := make([]string, 0, len(items))
	for _, item := range items {
		itemRows = append(itemRows, ItemRow(item))
		itemKeys = append(itemKeys, item.Key)
	}
	craftRows := make([]CatalogCraft, 0, len(crafts))
	craftKeys := make([]string, 0, len(crafts))
	for _, craft := range crafts {
		row, err := CraftRow(craft)
		if err != nil {
			return nil, fmt.Errorf("failed to encode craft %q: %w", craft.Name, err)
		}
		craftRows = append(craftRows, row)
		craftKeys = append(craftKeys, craft.Key)
	}

	result := &Result{Items: len(itemRows), Crafts: len(craftRows)}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(itemRows) > 0 {
			if err := upsert(tx, &itemRows); err != nil {
				return fmt.Errorf("failed to upsert items: %w", err)
			}
		}
		removed, err := prune(tx, &CatalogItem{}, itemKeys)
		if err != nil {
			return fmt.Errorf("failed to prune items: %w", err)
		}
		result.RemovedItems = removed

		if len(craftRows) > 0 {
			if err := upsert(tx, &craftRows); err != nil {
				return fmt.Errorf("failed to upsert crafts: %w", err)
			}
		}
		removed, err = prune(tx, &CatalogCraft{}, craftKeys)
		if err != nil {
			return fmt.Errorf("failed to prune crafts: %w", err)
		}
		result.RemovedCrafts = removed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func upsert(tx *gorm.DB, rows any) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_key"}},
		UpdateAll: true,
	}).CreateInBatches(rows, batchSize).Error
}

func prune(tx *gorm.DB, model any, keep []string) (int, error) {
	var res *gorm.DB
	if len(keep) == 0 {
		res = tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model)
	} else {
		res = tx.Where("content_key NOT IN ?", keep).Delete(model)
	}
	return int(res.RowsAffected), res.Error
}
