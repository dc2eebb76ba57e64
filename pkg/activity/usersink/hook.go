// Package usersink records field events in a go-users activity sink.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-mfdata/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook is an activity.Hook writing to Sink. A nil Sink discards events.
type Hook struct {
	Sink usertypes.ActivitySink
}

var _ activity.Hook = Hook{}

// Notify logs event as an ActivityRecord. Actor IDs that do not parse as
// UUIDs are recorded as uuid.Nil.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil || !event.Valid() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, Record(event.Normalize()))
}

// Record converts event without normalizing it.
func Record(event activity.Event) usertypes.ActivityRecord {
	return usertypes.ActivityRecord{
		ActorID:    actorID(event.Actor.ID),
		UserID:     actorID(event.Actor.User),
		TenantID:   actorID(event.Actor.Tenant),
		Verb:       event.Verb,
		ObjectType: activity.ObjectType,
		ObjectID:   event.Cell.ObjectID(),
		Channel:    event.Channel,
		Data:       event.Data(),
		OccurredAt: event.At,
	}
}

func actorID(s string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return id
}
