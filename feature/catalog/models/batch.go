package models

import "encoding/json"

// Batch is one extraction result submitted by the vision collaborator.
// Entries are kept raw so a single malformed record cannot fail the whole batch.
type Batch struct {
	ItemsFound  []json.RawMessage `json:"itemsFound"`
	CraftsFound []json.RawMessage `json:"craftsFound"`
	// Source optionally tags every record of the batch; the configured default applies otherwise.
	Source string `json:"source,omitempty"`
}
