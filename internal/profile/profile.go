// ABOUTME: Profile data model and Store interface for per-conversation state
// ABOUTME: Defines the sheet column layout and the row codec shared by store implementations

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no profile row exists for a conversation.
var ErrNotFound = errors.New("profile not found")

// ErrStoreUnavailable is returned when the backing table cannot be read or
// written, or returns something unusable.
var ErrStoreUnavailable = errors.New("profile store unavailable")

// Kind distinguishes the two conversation identities.
type Kind string

const (
	KindUser  Kind = "user"
	KindGroup Kind = "group"
)

// Profile is the persisted language/verification record for one
// conversation. Languages keeps caller order and is not deduplicated.
type Profile struct {
	ID          string
	Kind        Kind
	Languages   []string
	Verified    bool
	LastUpdated time.Time
	// ModifiedBy is the acting member for group conversations, empty for
	// individual ones.
	ModifiedBy string
}

// Store is the per-conversation profile contract. Implementations differ
// in atomicity: the sheet-backed store performs a read-then-write sequence
// with no locking, the sqlite store upserts in a single statement. Callers
// must not assume either.
type Store interface {
	// Get returns the profile for (id, kind), or ErrNotFound.
	Get(ctx context.Context, id string, kind Kind) (*Profile, error)

	// Upsert replaces the profile row for (id, kind) wholesale, creating
	// it if absent, and stamps a fresh LastUpdated.
	Upsert(ctx context.Context, id string, kind Kind, languages []string, verified bool, modifiedBy string) error
}

// Sheet layout. One row per (id, kind); the header row is self-healed by
// the sheet store before any data write.
const (
	SheetName   = "Profiles"
	fullRange   = SheetName + "!A:F"
	headerRange = SheetName + "!A1:F1"
)

var headerRow = []string{"id", "kind", "languages", "lastUpdated", "verified", "lastModifiedBy"}

// encodeRow serializes a profile into the fixed column layout.
func encodeRow(p *Profile) []string {
	languages, _ := json.Marshal(p.Languages)
	verified := "false"
	if p.Verified {
		verified = "true"
	}
	return []string{
		p.ID,
		string(p.Kind),
		string(languages),
		p.LastUpdated.UTC().Format(time.RFC3339),
		verified,
		p.ModifiedBy,
	}
}

// decodeRow parses a data row. Rows shorter than the full layout are
// tolerated (older writes); a row without id and kind yields nil.
func decodeRow(cells []string) *Profile {
	if len(cells) < 2 || cells[0] == "" {
		return nil
	}
	p := &Profile{
		ID:   cells[0],
		Kind: Kind(cells[1]),
	}
	if len(cells) > 2 {
		p.Languages = parseLanguages(cells[2])
	}
	if len(cells) > 3 && cells[3] != "" {
		if ts, err := time.Parse(time.RFC3339, cells[3]); err == nil {
			p.LastUpdated = ts
		}
	}
	if len(cells) > 4 {
		p.Verified = cells[4] == "true"
	}
	if len(cells) > 5 {
		p.ModifiedBy = cells[5]
	}
	return p
}

// parseLanguages decodes a languages cell. The stored format is a JSON
// array; cells written by old revisions were comma-joined plain text, so a
// cell that is not valid JSON is split on commas instead. The migration is
// read-side only: the next Upsert rewrites the row as JSON.
func parseLanguages(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	var langs []string
	if err := json.Unmarshal([]byte(cell), &langs); err == nil {
		return langs
	}
	for _, tok := range strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == '，'
	}) {
		if tok = strings.TrimSpace(tok); tok != "" {
			langs = append(langs, tok)
		}
	}
	return langs
}
