package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Message is a single chat message of a copilot conversation
type Message struct {
	ID        int        `json:"id"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Conversation is a copilot conversation. Messages may be absent in
// list responses and are sometimes wrapped in a paginated envelope.
type Conversation struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	Messages     []Message `json:"-"`
}

// UnmarshalJSON handles messages as array or page
func (c *Conversation) UnmarshalJSON(data []byte) error {
	type plain Conversation
	var aux struct {
		plain
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Conversation(aux.plain)

	raw := bytes.TrimSpace(aux.Messages)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var msgs List[Message]
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return err
	}
	c.Messages = msgs.Items
	return nil
}

// ChatRequest is the body of a copilot chat call. A nil conversation id
// starts a new conversation.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID *int   `json:"conversation_id"`
}

// ChatResponse is returned by the copilot chat endpoint
type ChatResponse struct {
	ConversationID   int      `json:"conversation_id"`
	UserMessage      *Message `json:"user_message,omitempty"`
	AssistantMessage *Message `json:"assistant_message,omitempty"`
	Error            string   `json:"error,omitempty"`
}
