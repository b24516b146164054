package transport

import "context"

type ChatTarget struct {
	// ChatID is a numeric chat id or an "@channel" username, passed through as is.
	ChatID   string
	ThreadID int // telegram forum topic thread id (0 if none)
}

type MessageRef struct {
	ChatID    string
	ThreadID  int
	MessageID int
}

type SendOptions struct {
	DisablePreview bool
	Silent         bool
}

// Sender delivers plain-text messages to a chat.
type Sender interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
}
