package service

import (
	"context"

	"github.com/Skotchmaster/minishop/internal/events"
	"github.com/Skotchmaster/minishop/internal/logging"
)

// publish sends a best-effort event; a failure is logged and never reaches the caller.
func publish(ctx context.Context, p events.Publisher, topic, key string, event events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
