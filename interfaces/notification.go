package interfaces

import (
	"context"
	"time"
)

// PushSender delivers a single push message to a device token.
type PushSender interface {
	SendPush(ctx context.Context, token, title, body string, data map[string]string) error
}

// TaskQueue runs work after the current request has been answered. Enqueued tasks
// carry no delivery guarantee and their outcome is never reported to the caller.
type TaskQueue interface {
	Enqueue(name string, fn func(ctx context.Context) error)
}

// FeedPublisher pushes events to the live sessions of one parent.
type FeedPublisher interface {
	Publish(msg FeedMessage)
}

// Feed message types.
const (
	FeedTypeAlert = "alert"
	FeedTypeSOS   = "sos"
)

// FeedMessage is the frame written to parent WebSocket sessions.
type FeedMessage struct {
	Type      string      `json:"type"`
	ParentID  string      `json:"parent_id"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// MailSender sends a plain-text e-mail.
type MailSender interface {
	Enabled() bool
	SendMail(to []string, subject, body string) error
}
