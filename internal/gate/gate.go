// ABOUTME: Access gate: passphrase check and per-conversation verified flag
// ABOUTME: Verified transitions false to true once and never auto-resets

package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiscus-labs/lingo-relay/internal/profile"
)

// Gate controls access to translation functionality. A conversation is
// unverified until someone in it sends the exact passphrase.
type Gate struct {
	store      profile.Store
	passphrase string
}

// New creates a gate over the given store.
func New(store profile.Store, passphrase string) *Gate {
	return &Gate{store: store, passphrase: passphrase}
}

// CheckPassphrase reports whether text matches the passphrase exactly.
// Case-sensitive; trimming is the dispatcher's job.
func (g *Gate) CheckPassphrase(text string) bool {
	return text == g.passphrase
}

// Verify marks the conversation verified, preserving any language list it
// already has. Like every profile mutation this is a read-then-write
// sequence on the sheet backend.
func (g *Gate) Verify(ctx context.Context, id string, kind profile.Kind, modifiedBy string) error {
	languages := []string{}
	p, err := g.store.Get(ctx, id, kind)
	switch {
	case err == nil:
		languages = p.Languages
	case errors.Is(err, profile.ErrNotFound):
		// First contact: the profile is created by the upsert below.
	default:
		return fmt.Errorf("loading profile for verification: %w", err)
	}
	return g.store.Upsert(ctx, id, kind, languages, true, modifiedBy)
}

// IsVerified reports the conversation's verified flag, false when no
// profile exists.
func (g *Gate) IsVerified(ctx context.Context, id string, kind profile.Kind) (bool, error) {
	p, err := g.store.Get(ctx, id, kind)
	if errors.Is(err, profile.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.Verified, nil
}
