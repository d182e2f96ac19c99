package merge

import (
	"time"

	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"
	"craft-catalog/feature/catalog/store"
	"craft-catalog/feature/catalog/validation"

	"go.uber.org/zap"
)

// Action is what the engine did with a candidate record.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// Decision is the outcome of merging one record.
type Decision struct {
	Action Action
	// Key is the key the record is stored under after the merge. For skips it is the
	// key of the record that was kept.
	Key string
	// PreviousKey is set when an update moved a record to a new key.
	PreviousKey string
	Reason      string
}

// Engine merges validated records into a store. It is not safe for concurrent use.
type Engine struct {
	store     *store.Store
	validator *validation.Validator
	session   *Tracker
	source    string
	logger    *zap.Logger
	now       func() time.Time

	ItemRule  ItemRule
	CraftRule CraftRule
}

// NewEngine creates an engine over st. source tags records of batches without their own source.
func NewEngine(st *store.Store, v *validation.Validator, source string, logger *zap.Logger, now func() time.Time) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	if v == nil {
		v = validation.New(validation.DefaultMinConfidence)
	}
	return &Engine{
		store:     st,
		validator: v,
		session:   NewTracker(now),
		source:    source,
		logger:    logger,
		now:       now,
		ItemRule:  DefaultItemRule,
		CraftRule: DefaultCraftRule,
	}
}

// Session returns the tracker of records added or updated by this engine.
func (e *Engine) Session() *Tracker { return e.session }

// Validator returns the validator gating candidates.
func (e *Engine) Validator() *validation.Validator { return e.validator }

// Store returns the store the engine merges into.
func (e *Engine) Store() *store.Store { return e.store }

func (e *Engine) stamp(source string) models.Extraction {
	return models.Extraction{Source: source, ExtractedAt: e.now().UTC()}
}

// carryOver keeps the first-seen provenance of stored and marks the record as updated.
func (e *Engine) carryOver(stored models.Extraction, source string) models.Extraction {
	at := e.now().UTC()
	return models.Extraction{
		Source:       stored.Source,
		ExtractedAt:  stored.ExtractedAt,
		UpdatedAt:    &at,
		UpdateSource: source,
	}
}

// MergeItem inserts, updates or skips a validated item.
//
// An item with a known key is an exact duplicate and is skipped. Otherwise the most
// confident stored item with the same normalized name (differing tier or rarity) is
// compared with ItemRule and replaced or kept. Items with a new name are inserted.
func (e *Engine) MergeItem(item models.Item, source string) Decision {
	item.Key = identity.ItemKey(item)

	if stored, ok := e.store.Item(item.Key); ok {
		return Decision{Action: ActionSkip, Key: stored.Key, Reason: "exact duplicate"}
	}

	similar := e.store.ItemsByName(item.Name)
	if len(similar) == 0 {
		item.Extraction = e.stamp(source)
		e.store.PutItem(item)
		return Decision{Action: ActionInsert, Key: item.Key, Reason: "new item"}
	}

	best := similar[0]
	for _, s := range similar[1:] {
		if s.Confidence > best.Confidence {
			best = s
		}
	}
	replace, why := e.ItemRule.Replace(ScoreItem(best), ScoreItem(item))
	if !replace {
		return Decision{Action: ActionSkip, Key: best.Key, Reason: "similar item retained"}
	}
	item.Extraction = e.carryOver(best.Extraction, source)
	e.store.DeleteItem(best.Key)
	e.store.PutItem(item)
	return Decision{Action: ActionUpdate, Key: item.Key, PreviousKey: best.Key, Reason: why}
}

// MergeCraft inserts, updates or skips a validated craft.
//
// A craft with a known key refreshes the stored record when it scores better, keeping
// the stored display name. Otherwise crafts sharing its base name are searched for one
// that is the same recipe (see sameRecipe); that one is replaced or kept according to
// CraftRule. Anything else is a distinct recipe and is inserted.
func (e *Engine) MergeCraft(craft models.Craft, source string) Decision {
	craft.Key = identity.CraftKey(craft)

	if stored, ok := e.store.Craft(craft.Key); ok {
		replace, why := e.CraftRule.Replace(ScoreCraft(stored), ScoreCraft(craft))
		if !replace {
			return Decision{Action: ActionSkip, Key: stored.Key, Reason: "exact duplicate"}
		}
		craft.Name = stored.Name
		craft.Extraction = e.carryOver(stored.Extraction, source)
		e.store.PutCraft(craft)
		return Decision{Action: ActionUpdate, Key: craft.Key, Reason: why}
	}

	var match *models.Craft
	for _, sibling := range e.store.CraftsByBaseName(craft.Name) {
		if !sameRecipe(sibling, craft) {
			continue
		}
		if match == nil || sibling.Confidence > match.Confidence {
			s := sibling
			match = &s
		}
	}

	if match == nil {
		craft.Extraction = e.stamp(source)
		e.store.PutCraft(craft)
		return Decision{Action: ActionInsert, Key: craft.Key, Reason: "new recipe"}
	}

	replace, why := e.CraftRule.Replace(ScoreCraft(*match), ScoreCraft(craft))
	if !replace {
		return Decision{Action: ActionSkip, Key: match.Key, Reason: "same recipe retained"}
	}

	updated := craft
	updated.Name = match.Name
	updated.Extraction = e.carryOver(match.Extraction, source)
	updated.Key = identity.CraftKey(updated)
	if updated.Key != match.Key {
		if _, taken := e.store.Craft(updated.Key); taken {
			e.logger.Warn("Craft update would collide with another recipe, keeping stored record",
				zap.String("name", match.Name),
				zap.String("key", match.Key),
				zap.String("collision", updated.Key))
			return Decision{Action: ActionSkip, Key: match.Key, Reason: "update would collide"}
		}
		e.store.DeleteCraft(match.Key)
	}
	e.store.PutCraft(updated)
	return Decision{Action: ActionUpdate, Key: updated.Key, PreviousKey: match.Key, Reason: why}
}

// sameRecipe reports whether two crafts sharing a base name are one logical recipe:
// equal materials and outputs after normalization, and requirements that agree on every
// field both of them fill. A requirement known to only one side counts as detail the
// other observation missed.
func sameRecipe(a, b models.Craft) bool {
	if identity.MaterialSignature(a.Materials) != identity.MaterialSignature(b.Materials) {
		return false
	}
	if identity.MaterialSignature(a.Outputs) != identity.MaterialSignature(b.Outputs) {
		return false
	}
	fa, fb := a.Requirements.Fields(), b.Requirements.Fields()
	for field, va := range fa {
		na, nb := identity.NormalizeName(va), identity.NormalizeName(fb[field])
		if na != "" && nb != "" && na != nb {
			return false
		}
	}
	return true
}
