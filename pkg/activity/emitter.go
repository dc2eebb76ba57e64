package activity

import (
	"context"
	"strings"
	"time"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "mfdata"

// Config sets up an Emitter. Actor and Channel fill events that leave them
// blank; Now stamps the event time and defaults to time.Now.
type Config struct {
	Enabled bool
	Channel string
	Actor   Actor
	Now     func() time.Time
}

// Emitter forwards events to hooks. The nil Emitter never emits.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

// NewEmitter keeps the non-nil hooks. An emitter without hooks is disabled
// whatever cfg.Enabled says.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{cfg: cfg}
	for _, hook := range hooks {
		if hook != nil {
			e.hooks = append(e.hooks, hook)
		}
	}
	e.cfg.Channel = strings.TrimSpace(cfg.Channel)
	if e.cfg.Channel == "" {
		e.cfg.Channel = DefaultChannel
	}
	if e.cfg.Now == nil {
		e.cfg.Now = time.Now
	}
	e.cfg.Enabled = cfg.Enabled && len(e.hooks) > 0
	return e
}

func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled
}

// Emit reports verb on cell.
func (e *Emitter) Emit(ctx context.Context, verb string, cell Cell, old, value any) error {
	return e.Send(ctx, Event{Verb: verb, Cell: cell, Old: old, New: value})
}

// Send stamps the configured defaults on event and notifies the hooks.
func (e *Emitter) Send(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.cfg.Channel
	}
	if event.Actor.zero() {
		event.Actor = e.cfg.Actor
	}
	if event.At.IsZero() {
		event.At = e.cfg.Now()
	}
	return e.hooks.Notify(ctx, event)
}
