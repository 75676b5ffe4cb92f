package entities

import "time"

type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatState struct {
	Messages []ChatMessage `json:"messages"`
	Loading  bool          `json:"loading"`
	Error    string        `json:"error,omitempty"`
}
