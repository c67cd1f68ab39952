// ABOUTME: Tests for the event batch processor
// ABOUTME: Covers concurrent fan-out, partial failure, no-op events, and redelivery skips

package webhook

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hibiscus-labs/lingo-relay/internal/bot"
	"github.com/hibiscus-labs/lingo-relay/internal/gate"
	"github.com/hibiscus-labs/lingo-relay/internal/profile"
	"github.com/hibiscus-labs/lingo-relay/internal/sheet"
	"github.com/hibiscus-labs/lingo-relay/internal/translate"
)

const testPassphrase = "芝麻開門"

// flakyRewriter fails only for inputs containing the trigger word, so one
// event of a batch can fail while its siblings succeed.
type flakyRewriter struct{}

func (flakyRewriter) Rewrite(ctx context.Context, instruction, input string) (string, error) {
	if strings.Contains(input, "boom") {
		return "", assert.AnError
	}
	return "translated:" + input, nil
}

// recordingSender collects sent replies.
type recordingSender struct {
	mu      sync.Mutex
	replies map[string]string // reply token -> text
	err     error
}

func newRecordingSender() *recordingSender {
	return &recordingSender{replies: make(map[string]string)}
}

func (s *recordingSender) Reply(ctx context.Context, replyToken, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.replies[replyToken] = text
	return nil
}

func (s *recordingSender) sent(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.replies[token]
	return text, ok
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replies)
}

func newTestProcessor(t *testing.T) (*Processor, *recordingSender, profile.Store) {
	t.Helper()
	store := profile.NewSheetStore(sheet.NewMemory(), nil)
	dispatcher := bot.New(store, gate.New(store, testPassphrase),
		translate.New(flakyRewriter{}, nil), nil)
	sender := newRecordingSender()
	return NewProcessor(dispatcher, sender, nil), sender, store
}

func textEvent(id, convID, convType, userID, text string) Event {
	src := Source{Type: convType, UserID: userID}
	if convType == SourceTypeGroup {
		src.GroupID = convID
	} else {
		src.UserID = convID
	}
	return Event{
		Type:           EventTypeMessage,
		WebhookEventID: id,
		ReplyToken:     "rt-" + id,
		Source:         src,
		Message:        Message{Type: MessageTypeText, ID: "m-" + id, Text: text},
	}
}

func TestProcessBatch_EmptyBatchSucceeds(t *testing.T) {
	p, sender, _ := newTestProcessor(t)
	require.NoError(t, p.ProcessBatch(context.Background(), nil))
	assert.Zero(t, sender.count())
}

func TestProcessBatch_NonTextEventsAreNoOps(t *testing.T) {
	p, sender, _ := newTestProcessor(t)

	events := []Event{
		{Type: "follow", ReplyToken: "rt-1"},
		{Type: EventTypeMessage, ReplyToken: "rt-2", Message: Message{Type: "sticker"}},
	}
	require.NoError(t, p.ProcessBatch(context.Background(), events))
	assert.Zero(t, sender.count())
}

func TestProcessBatch_AllEventsProcessed(t *testing.T) {
	ctx := context.Background()
	p, sender, _ := newTestProcessor(t)

	events := []Event{
		textEvent("e1", "U1", SourceTypeUser, "", testPassphrase),
		textEvent("e2", "U2", SourceTypeUser, "", testPassphrase),
		textEvent("e3", "G1", SourceTypeGroup, "U3", testPassphrase),
	}
	require.NoError(t, p.ProcessBatch(ctx, events))

	assert.Equal(t, 3, sender.count())
	for _, token := range []string{"rt-e1", "rt-e2", "rt-e3"} {
		_, ok := sender.sent(token)
		assert.True(t, ok, token)
	}
}

func TestProcessBatch_OneFailureDoesNotStopSiblings(t *testing.T) {
	ctx := context.Background()
	p, sender, store := newTestProcessor(t)

	// Two verified users with languages configured.
	for _, id := range []string{"U1", "U2"} {
		require.NoError(t, store.Upsert(ctx, id, profile.KindUser, []string{"日文"}, true, ""))
	}

	events := []Event{
		textEvent("ok", "U1", SourceTypeUser, "", "hello"),
		textEvent("bad", "U2", SourceTypeUser, "", "boom"),
	}
	err := p.ProcessBatch(ctx, events)
	require.Error(t, err, "aggregate status reflects the failed event")

	// The successful event's reply went out, and the failed event got the
	// generic retry reply rather than silence.
	okReply, ok := sender.sent("rt-ok")
	require.True(t, ok)
	assert.Contains(t, okReply, "translated:hello")

	badReply, ok := sender.sent("rt-bad")
	require.True(t, ok)
	assert.Contains(t, badReply, "請稍後再試")
}

func TestProcessBatch_RedeliveredEventSkipped(t *testing.T) {
	ctx := context.Background()
	p, sender, _ := newTestProcessor(t)

	ev := textEvent("e1", "U1", SourceTypeUser, "", testPassphrase)
	require.NoError(t, p.ProcessBatch(ctx, []Event{ev}))
	require.NoError(t, p.ProcessBatch(ctx, []Event{ev}))

	assert.Equal(t, 1, sender.count(), "redelivery within the window is skipped")
}

func TestProcessBatch_ReplyFailureFailsTheBatch(t *testing.T) {
	ctx := context.Background()
	p, sender, _ := newTestProcessor(t)
	sender.err = assert.AnError

	err := p.ProcessBatch(ctx, []Event{
		textEvent("e1", "U1", SourceTypeUser, "", testPassphrase),
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBotSource_GroupThreadsActingMember(t *testing.T) {
	src := botSource(Source{Type: SourceTypeGroup, GroupID: "G1", UserID: "U7"})
	assert.Equal(t, "G1", src.ConversationID)
	assert.Equal(t, profile.KindGroup, src.Kind)
	assert.Equal(t, "U7", src.SenderID)

	src = botSource(Source{Type: SourceTypeUser, UserID: "U1"})
	assert.Equal(t, "U1", src.ConversationID)
	assert.Equal(t, profile.KindUser, src.Kind)
	assert.Empty(t, src.SenderID)
}
