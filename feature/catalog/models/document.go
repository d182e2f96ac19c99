package models

import "time"

// DocumentVersion is written into every persisted document.
const DocumentVersion = "1.0"

// DocumentMetadata heads items.json and crafts.json.
type DocumentMetadata struct {
	Version     string    `json:"version"`
	Source      string    `json:"source"`
	LastUpdated time.Time `json:"lastUpdated"`
	Count       int       `json:"count"`
}

// Document is the on-disk shape of a record store.
type Document[T any] struct {
	Metadata DocumentMetadata `json:"metadata"`
	Records  []T              `json:"records"`
}

// ItemDocument is the content of items.json.
type ItemDocument = Document[Item]

// CraftDocument is the content of crafts.json.
type CraftDocument = Document[Craft]
