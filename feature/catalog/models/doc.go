// Package models defines the catalog's records and the documents they are persisted in.
//
// Items and Crafts carry a derived content key (see package identity) and extraction
// metadata. Material and output entries reference items by name only; resolving those
// names is left to downstream consumers.
package models
