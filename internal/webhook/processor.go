// ABOUTME: Event batch processor: every event of a delivery runs concurrently
// ABOUTME: One event's failure never prevents the others, but fails the aggregate status

package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hibiscus-labs/lingo-relay/internal/bot"
)

const redeliveryWindow = 10 * time.Minute

// Processor fans one webhook delivery out to concurrent per-event
// handlers. There is no ordering guarantee between events, even for the
// same conversation; handlers racing on one profile key is an accepted
// property of the profile store.
type Processor struct {
	dispatcher *bot.Dispatcher
	replies    ReplySender
	seen       *deliveryCache
	logger     *slog.Logger
}

// NewProcessor creates a batch processor.
func NewProcessor(dispatcher *bot.Dispatcher, replies ReplySender, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		dispatcher: dispatcher,
		replies:    replies,
		seen:       newDeliveryCache(redeliveryWindow),
		logger:     logger.With("component", "webhook"),
	}
}

// ProcessBatch runs every event's handler concurrently and returns the
// first failure as the aggregate status. Events are always all attempted:
// the group carries no shared cancellation, and replies already sent stay
// sent.
func (p *Processor) ProcessBatch(ctx context.Context, events []Event) error {
	var g errgroup.Group
	for _, ev := range events {
		ev := ev
		g.Go(func() error {
			return p.handleEvent(ctx, ev)
		})
	}
	return g.Wait()
}

// handleEvent processes one event. Non-text events are a no-op. Dispatcher
// failures still send the guidance reply the dispatcher produced; the
// error is returned afterwards so the batch reports failure.
func (p *Processor) handleEvent(ctx context.Context, ev Event) error {
	if ev.Type != EventTypeMessage || ev.Message.Type != MessageTypeText {
		return nil
	}
	if ev.WebhookEventID != "" && p.seen.checkAndMark(ev.WebhookEventID) {
		p.logger.Debug("skipping redelivered event", "webhook_event_id", ev.WebhookEventID)
		return nil
	}

	src := botSource(ev.Source)
	text := strings.TrimSpace(ev.Message.Text)

	reply, handleErr := p.dispatcher.HandleText(ctx, src, text)
	if reply != "" {
		if err := p.replies.Reply(ctx, ev.ReplyToken, reply); err != nil {
			p.logger.Error("reply send failed",
				"error", err,
				"conversation", src.ConversationID)
			if handleErr == nil {
				return fmt.Errorf("sending reply: %w", err)
			}
		}
	}
	return handleErr
}
