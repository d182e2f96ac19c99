// Package identity computes the stable content keys that identify catalog records.
//
// Keys are pure functions of normalized record content: the same logical item or
// recipe hashes to the same key across batches and process restarts. Display concerns
// such as ordinal prefixes ("1/2 ") and disambiguation qualifiers ("(Berry)") are
// handled by the name helpers so grouping and identity stay separate.
package identity
