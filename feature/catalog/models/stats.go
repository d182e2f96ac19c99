package models

import "time"

// IngestStats is the caller-facing summary of one batch.
type IngestStats struct {
	ItemsProcessed  int `json:"itemsProcessed"`
	ItemsRejected   int `json:"itemsRejected"`
	NewItemsAdded   int `json:"newItemsAdded"`
	ItemsUpdated    int `json:"itemsUpdated"`
	CraftsProcessed int `json:"craftsProcessed"`
	CraftsRejected  int `json:"craftsRejected"`
	NewCraftsAdded  int `json:"newCraftsAdded"`
	CraftsUpdated   int `json:"craftsUpdated"`
	CraftsRenamed   int `json:"craftsRenamed"`

	TotalItems             int     `json:"totalItems"`
	TotalCrafts            int     `json:"totalCrafts"`
	MinConfidenceThreshold float64 `json:"minConfidenceThreshold"`

	ItemsFoundTotal       int `json:"itemsFoundTotal"`
	ItemsFoundNew         int `json:"itemsFoundNew"`
	ItemsFoundDuplicates  int `json:"itemsFoundDuplicates"`
	CraftsFoundTotal      int `json:"craftsFoundTotal"`
	CraftsFoundNew        int `json:"craftsFoundNew"`
	CraftsFoundDuplicates int `json:"craftsFoundDuplicates"`

	InvalidItemsFiltered  int `json:"invalidItemsFiltered"`
	InvalidCraftsFiltered int `json:"invalidCraftsFiltered"`

	// Persisted is false when the batch changed the store but the write failed.
	Persisted bool `json:"persisted"`
}

// RecordKind distinguishes items from crafts in reports.
type RecordKind string

const (
	KindItem  RecordKind = "item"
	KindCraft RecordKind = "craft"
)

// Rejection explains why a well-formed record was not merged.
type Rejection struct {
	Kind    RecordKind `json:"kind"`
	Name    string     `json:"name"`
	Reasons []string   `json:"reasons"`
}

// DuplicateEntry is the pre-scan verdict for one batch entry.
type DuplicateEntry struct {
	Kind               RecordKind `json:"kind"`
	Name               string     `json:"name"`
	Key                string     `json:"key"`
	Exists             bool       `json:"exists"`
	Malformed          bool       `json:"malformed,omitempty"`
	ExistingConfidence float64    `json:"existingConfidence,omitempty"`
	FirstSeen          *time.Time `json:"firstSeen,omitempty"`
}

// DuplicateReport summarizes a batch against the store before merging.
type DuplicateReport struct {
	Entries         []DuplicateEntry `json:"entries"`
	ItemsTotal      int              `json:"itemsTotal"`
	ItemsNew        int              `json:"itemsNew"`
	ItemsDuplicate  int              `json:"itemsDuplicate"`
	CraftsTotal     int              `json:"craftsTotal"`
	CraftsNew       int              `json:"craftsNew"`
	CraftsDuplicate int              `json:"craftsDuplicate"`
}

// IngestReport is everything Ingest learned about a batch.
type IngestReport struct {
	Stats      IngestStats     `json:"stats"`
	Rejections []Rejection     `json:"rejections"`
	Duplicates DuplicateReport `json:"duplicates"`
}
