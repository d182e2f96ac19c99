package merge

import (
	"time"

	"craft-catalog/feature/catalog/models"

	"github.com/google/uuid"
)

// Session is a snapshot of the records added or updated during one run.
type Session struct {
	RunID     string         `json:"runId"`
	StartedAt time.Time      `json:"startedAt"`
	Items     []models.Item  `json:"items"`
	Crafts    []models.Craft `json:"crafts"`
}

// Tracker accumulates the records inserted or updated since it was created or last
// reset. It lives in memory only. A record touched several times is listed once, in
// its latest state.
type Tracker struct {
	now       func() time.Time
	runID     string
	startedAt time.Time
	items     []models.Item
	crafts    []models.Craft
}

// NewTracker starts a tracking run.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	t := &Tracker{now: now}
	t.Reset()
	return t
}

// Reset drops all tracked records and starts a new run ID.
func (t *Tracker) Reset() {
	t.runID = uuid.NewString()
	t.startedAt = t.now().UTC()
	t.items = nil
	t.crafts = nil
}

// RunID identifies the current run.
func (t *Tracker) RunID() string { return t.runID }

// Items returns a copy of the tracked items in first-touched order.
func (t *Tracker) Items() []models.Item {
	return append([]models.Item{}, t.items...)
}

// Crafts returns a copy of the tracked crafts in first-touched order.
func (t *Tracker) Crafts() []models.Craft {
	return append([]models.Craft{}, t.crafts...)
}

// Snapshot returns the current run.
func (t *Tracker) Snapshot() Session {
	return Session{
		RunID:     t.runID,
		StartedAt: t.startedAt,
		Items:     t.Items(),
		Crafts:    t.Crafts(),
	}
}

// RecordItem tracks item, replacing an entry stored under its key or previousKey.
func (t *Tracker) RecordItem(item models.Item, previousKey string) {
	for i := range t.items {
		if k := t.items[i].Key; k == item.Key || (previousKey != "" && k == previousKey) {
			t.items[i] = item
			return
		}
	}
	t.items = append(t.items, item)
}

// RecordCraft tracks craft, replacing an entry stored under its key or previousKey.
func (t *Tracker) RecordCraft(craft models.Craft, previousKey string) {
	for i := range t.crafts {
		if k := t.crafts[i].Key; k == craft.Key || (previousKey != "" && k == previousKey) {
			t.crafts[i] = craft
			return
		}
	}
	t.crafts = append(t.crafts, craft)
}

// renameCraft refreshes a tracked craft after disambiguation. Untracked crafts are ignored.
func (t *Tracker) renameCraft(previousKey string, craft models.Craft) {
	for i := range t.crafts {
		if t.crafts[i].Key == previousKey {
			t.crafts[i] = craft
			return
		}
	}
}
