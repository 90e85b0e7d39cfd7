package types

type ChatEventType string

const (
	ChatEventMessageCreated       ChatEventType = "message-created"
	ChatEventMessageStatusChanged ChatEventType = "message-status-changed"
	ChatEventChatActivated        ChatEventType = "chat-activated"
)

// ChatEvent is the envelope fanned out to a chat's subscribers.
type ChatEvent struct {
	Type    ChatEventType `json:"type"`
	Chat    *Chat         `json:"chat,omitempty"`
	Message *Message      `json:"message,omitempty"`
}
