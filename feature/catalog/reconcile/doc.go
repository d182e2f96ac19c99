// Package reconcile adapts the catalog to the generic reconciliation engine. Local
// records and the canonical dataset are both indexed by canonical ID
// ("<type>:<profession>:<slug>").
package reconcile
