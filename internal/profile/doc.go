// Package profile owns per-conversation state: the profile data model,
// the language label mapping, and two Store implementations — one over a
// row-keyed sheet table (matching the production backing store, including
// its non-atomic upsert) and one over SQLite with atomic upserts.
package profile
