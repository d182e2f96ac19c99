// Package validation gates extracted items and crafts on confidence and structural
// completeness before they reach the merge engine.
//
// Validation never panics and never returns an error: every failure is reported as a
// human readable reason on the returned Result.
package validation
