// Package notify delivers player notifications.
package notify

import (
	"context"
	"log/slog"
	"sync"

	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/middleware"
)

// LogNotifier writes notifications as structured log records. Players read them
// through whatever log shipping the host environment provides.
type LogNotifier struct {
	logger *slog.Logger
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

// NewLogNotifier returns a notifier logging to logger, or to the request logger when nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, actorID string, message string) {
	logger := n.logger
	if logger == nil {
		logger = middleware.GetLoggerFromCtx(ctx)
	}
	logger.Info("Player notification",
		slog.String("component", "notifier"),
		slog.String("recipient_id", actorID),
		slog.String("message", message))
}

// Message is a notification captured by Recorder.
type Message struct {
	RecipientID string
	Text        string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

var _ portssvc.Notifier = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, actorID string, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{RecipientID: actorID, Text: message})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// For returns the messages delivered to recipientID.
func (r *Recorder) For(recipientID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.messages {
		if m.RecipientID == recipientID {
			out = append(out, m.Text)
		}
	}
	return out
}
