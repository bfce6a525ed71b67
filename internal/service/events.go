package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/case-portal/internal/events"
)

// publish stamps and dispatches an event. The dispatcher is synchronous and
// its subscribers include the audit writer, so errors flow back to the
// calling operation.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) error {
	if dispatcher == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return dispatcher.Publish(ctx, event)
}

func target(id string) *string {
	return &id
}
