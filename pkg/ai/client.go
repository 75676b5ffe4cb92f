// pkg/ai/client.go

package ai

import (
	"context"

	"micampo/entities"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client produces the next assistant message for a conversation. The first
// message is the system prompt.
type Client interface {
	Complete(ctx context.Context, msgs []Message) (string, error)
}

// SnapshotSource is what the rule engine and the prompt builder read.
type SnapshotSource interface {
	Snapshot() entities.FarmSnapshot
}
