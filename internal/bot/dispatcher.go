// ABOUTME: Command dispatcher: classifies inbound text and routes it
// ABOUTME: Order is passphrase, verified check (fails closed), /set, then translation

package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/hibiscus-labs/lingo-relay/internal/gate"
	"github.com/hibiscus-labs/lingo-relay/internal/profile"
	"github.com/hibiscus-labs/lingo-relay/internal/translate"
)

// SetCommand is the reserved prefix for the set-languages command.
const SetCommand = "/set"

// Source identifies where a message came from. For group conversations
// ConversationID is the group identity and SenderID the acting member; for
// individual conversations SenderID is empty.
type Source struct {
	ConversationID string
	Kind           profile.Kind
	SenderID       string
}

// Dispatcher routes one inbound text message to the gate, the profile
// store, or the translation orchestrator, and produces the reply text.
type Dispatcher struct {
	store      profile.Store
	gate       *gate.Gate
	translator *translate.Orchestrator
	logger     *slog.Logger
}

// New creates a dispatcher.
func New(store profile.Store, g *gate.Gate, translator *translate.Orchestrator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		store:      store,
		gate:       g,
		translator: translator,
		logger:     logger.With("component", "dispatcher"),
	}
}

// HandleText processes one trimmed text message and returns the reply to
// send. Expected user-facing states (wrong command syntax, not yet
// verified) produce a guidance reply and a nil error; store and
// translation failures produce a generic retry reply plus the error, so
// the event counts as failed without suppressing the reply.
func (d *Dispatcher) HandleText(ctx context.Context, src Source, text string) (string, error) {
	modifiedBy := ""
	if src.Kind == profile.KindGroup {
		modifiedBy = src.SenderID
	}

	if d.gate.CheckPassphrase(text) {
		if err := d.gate.Verify(ctx, src.ConversationID, src.Kind, modifiedBy); err != nil {
			d.logger.Error("verification failed", "error", err, "conversation", src.ConversationID)
			return replyTryAgain, fmt.Errorf("verifying conversation: %w", err)
		}
		d.logger.Info("conversation verified", "conversation", src.ConversationID, "kind", src.Kind)
		return replyVerified, nil
	}

	verified, err := d.gate.IsVerified(ctx, src.ConversationID, src.Kind)
	if err != nil {
		d.logger.Error("verification lookup failed", "error", err, "conversation", src.ConversationID)
		return replyTryAgain, fmt.Errorf("checking verification: %w", err)
	}
	if !verified {
		return replyNeedPassphrase, nil
	}

	if strings.HasPrefix(text, SetCommand) {
		return d.handleSet(ctx, src, modifiedBy, strings.TrimPrefix(text, SetCommand))
	}

	return d.handleTranslation(ctx, src, text)
}

// handleSet replaces the conversation's language list wholesale.
func (d *Dispatcher) handleSet(ctx context.Context, src Source, modifiedBy, args string) (string, error) {
	languages := splitLanguages(args)
	if len(languages) == 0 {
		return replySetUsage, nil
	}

	if err := d.store.Upsert(ctx, src.ConversationID, src.Kind, languages, true, modifiedBy); err != nil {
		d.logger.Error("saving languages failed", "error", err, "conversation", src.ConversationID)
		return replyTryAgain, fmt.Errorf("saving languages: %w", err)
	}
	d.logger.Info("languages updated",
		"conversation", src.ConversationID,
		"languages", languages)
	return fmt.Sprintf("✅ 目標語言已更新：%s", strings.Join(languages, "、")), nil
}

// handleTranslation treats the message as free text to translate.
func (d *Dispatcher) handleTranslation(ctx context.Context, src Source, text string) (string, error) {
	p, err := d.store.Get(ctx, src.ConversationID, src.Kind)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		d.logger.Error("loading profile failed", "error", err, "conversation", src.ConversationID)
		return replyTryAgain, fmt.Errorf("loading profile: %w", err)
	}
	if p == nil || len(p.Languages) == 0 {
		return replyNeedLanguages, nil
	}

	renderings, err := d.translator.Translate(ctx, text, p.Languages)
	if err != nil {
		d.logger.Error("translation failed", "error", err, "conversation", src.ConversationID)
		return replyTryAgain, err
	}
	return renderReply(renderings), nil
}

// splitLanguages tokenizes /set arguments on whitespace and list
// separators, dropping empty tokens. Duplicates are kept as given.
func splitLanguages(args string) []string {
	return strings.FieldsFunc(args, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '，'
	})
}

// renderReply assembles the reply text: one "label:\ntext" block per
// rendering, in mapping order, with trailing whitespace trimmed.
func renderReply(renderings []translate.Rendering) string {
	var b strings.Builder
	for _, r := range renderings {
		fmt.Fprintf(&b, "%s:\n%s\n\n", r.Label, r.Text)
	}
	return strings.TrimRight(b.String(), " \t\n")
}
