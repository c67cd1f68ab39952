// ABOUTME: Wire types for LINE webhook deliveries
// ABOUTME: One POST carries a batch of events; only text message events are actionable

package webhook

import (
	"github.com/hibiscus-labs/lingo-relay/internal/bot"
	"github.com/hibiscus-labs/lingo-relay/internal/profile"
)

const (
	EventTypeMessage = "message"
	MessageTypeText  = "text"

	SourceTypeUser  = "user"
	SourceTypeGroup = "group"
)

// Payload is the body of one webhook delivery.
type Payload struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is one inbound event within a delivery.
type Event struct {
	Type           string  `json:"type"`
	WebhookEventID string  `json:"webhookEventId"`
	ReplyToken     string  `json:"replyToken"`
	Source         Source  `json:"source"`
	Message        Message `json:"message"`
}

// Source identifies who sent the event. Group events carry both the group
// and the acting member.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
}

// Message is the message body of a message-type event.
type Message struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

// botSource maps the event source to the dispatcher's conversation
// identity: group id for groups (with the member as acting sender),
// user id otherwise.
func botSource(src Source) bot.Source {
	if src.Type == SourceTypeGroup {
		return bot.Source{
			ConversationID: src.GroupID,
			Kind:           profile.KindGroup,
			SenderID:       src.UserID,
		}
	}
	return bot.Source{
		ConversationID: src.UserID,
		Kind:           profile.KindUser,
	}
}
