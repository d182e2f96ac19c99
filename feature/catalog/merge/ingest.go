package merge

import (
	"errors"
	"fmt"
	"strings"

	"craft-catalog/feature/catalog/intake"
	"craft-catalog/feature/catalog/models"
	"craft-catalog/feature/catalog/store"

	"go.uber.org/zap"
)

// Ingest merges one extraction batch into the store and saves it when anything changed.
// It never fails: malformed entries, validation failures and records that break the
// merge are counted in the report, and a failed save leaves Stats.Persisted false with
// the in-memory state intact for the next save.
func (e *Engine) Ingest(batch models.Batch) *models.IngestReport {
	source := strings.TrimSpace(batch.Source)
	if source == "" {
		source = e.source
	}

	report := &models.IngestReport{Rejections: []models.Rejection{}}
	stats := &report.Stats
	stats.MinConfidenceThreshold = e.validator.MinConfidence

	parsed := intake.ParseBatch(batch, e.logger)

	report.Duplicates = Analyze(parsed, e.store)
	stats.ItemsFoundTotal = report.Duplicates.ItemsTotal
	stats.ItemsFoundNew = report.Duplicates.ItemsNew
	stats.ItemsFoundDuplicates = report.Duplicates.ItemsDuplicate
	stats.CraftsFoundTotal = report.Duplicates.CraftsTotal
	stats.CraftsFoundNew = report.Duplicates.CraftsNew
	stats.CraftsFoundDuplicates = report.Duplicates.CraftsDuplicate

	for _, rec := range parsed.Items {
		if rec.Kind != intake.KindItem {
			stats.InvalidItemsFiltered++
			continue
		}
		stats.ItemsProcessed++
		if res := e.validator.ValidateItem(*rec.Item); !res.OK {
			stats.ItemsRejected++
			report.Rejections = append(report.Rejections, models.Rejection{
				Kind: models.KindItem, Name: rec.Item.Name, Reasons: res.Reasons,
			})
			e.logger.Debug("Item rejected", zap.String("name", rec.Item.Name), zap.Strings("reasons", res.Reasons))
			continue
		}
		d, err := e.safeMergeItem(*rec.Item, source)
		if err != nil {
			stats.InvalidItemsFiltered++
			e.logger.Error("Item merge failed", zap.String("name", rec.Item.Name), zap.Error(err))
			continue
		}
		e.logDecision(models.KindItem, rec.Item.Name, d)
		switch d.Action {
		case ActionInsert:
			stats.NewItemsAdded++
		case ActionUpdate:
			stats.ItemsUpdated++
		}
		if d.Action != ActionSkip {
			if stored, ok := e.store.Item(d.Key); ok {
				e.session.RecordItem(stored, d.PreviousKey)
			}
		}
	}

	for _, rec := range parsed.Crafts {
		if rec.Kind != intake.KindCraft {
			stats.InvalidCraftsFiltered++
			continue
		}
		stats.CraftsProcessed++
		if res := e.validator.ValidateCraft(*rec.Craft); !res.OK {
			stats.CraftsRejected++
			report.Rejections = append(report.Rejections, models.Rejection{
				Kind: models.KindCraft, Name: rec.Craft.Name, Reasons: res.Reasons,
			})
			e.logger.Debug("Craft rejected", zap.String("name", rec.Craft.Name), zap.Strings("reasons", res.Reasons))
			continue
		}
		d, err := e.safeMergeCraft(*rec.Craft, source)
		if err != nil {
			stats.InvalidCraftsFiltered++
			e.logger.Error("Craft merge failed", zap.String("name", rec.Craft.Name), zap.Error(err))
			continue
		}
		e.logDecision(models.KindCraft, rec.Craft.Name, d)
		switch d.Action {
		case ActionInsert:
			stats.NewCraftsAdded++
		case ActionUpdate:
			stats.CraftsUpdated++
		}
		if d.Action != ActionSkip {
			if stored, ok := e.store.Craft(d.Key); ok {
				e.session.RecordCraft(stored, d.PreviousKey)
			}
		}
	}

	if stats.NewCraftsAdded > 0 {
		stats.CraftsRenamed = len(e.Disambiguate())
	}

	stats.TotalItems, stats.TotalCrafts = e.store.Counts()
	stats.Persisted = true
	if e.store.Dirty() {
		switch err := e.store.Save(); {
		case errors.Is(err, store.ErrReadOnly):
			stats.Persisted = false
			e.logger.Debug("Read-only catalog, changes kept in memory")
		case err != nil:
			stats.Persisted = false
			e.logger.Error("Failed to persist catalog, changes kept in memory", zap.Error(err))
		}
	}

	e.logger.Info("Batch ingested",
		zap.String("source", source),
		zap.Int("itemsAdded", stats.NewItemsAdded),
		zap.Int("itemsUpdated", stats.ItemsUpdated),
		zap.Int("itemsRejected", stats.ItemsRejected),
		zap.Int("craftsAdded", stats.NewCraftsAdded),
		zap.Int("craftsUpdated", stats.CraftsUpdated),
		zap.Int("craftsRejected", stats.CraftsRejected),
		zap.Int("craftsRenamed", stats.CraftsRenamed),
		zap.Bool("persisted", stats.Persisted))
	return report
}

func (e *Engine) safeMergeItem(item models.Item, source string) (d Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("merge item %q: %v", item.Name, r)
		}
	}()
	return e.MergeItem(item, source), nil
}

func (e *Engine) safeMergeCraft(craft models.Craft, source string) (d Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("merge craft %q: %v", craft.Name, r)
		}
	}()
	return e.MergeCraft(craft, source), nil
}

func (e *Engine) logDecision(kind models.RecordKind, name string, d Decision) {
	e.logger.Debug("Merge decision",
		zap.String("kind", string(kind)),
		zap.String("name", name),
		zap.String("action", string(d.Action)),
		zap.String("key", d.Key),
		zap.String("previousKey", d.PreviousKey),
		zap.String("reason", d.Reason))
}
