package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCellObjectID(t *testing.T) {
	tests := []struct {
		cell Cell
		want string
	}{
		{Cell{Package: "GWF-GHB", Block: "dimensions", Field: "MAXBOUND"}, "gwf-ghb/dimensions/maxbound"},
		{Cell{Block: "period", Field: "ss", Period: 0, Keyed: true}, "period/ss@1"},
		{Cell{Field: " rate "}, "rate"},
	}
	for _, tt := range tests {
		if got := tt.cell.ObjectID(); got != tt.want {
			t.Errorf("%+v.ObjectID() = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestEventNormalizeAndData(t *testing.T) {
	meta := map[string]any{"source": "load"}
	event := Event{
		Verb:     " data.set ",
		Cell:     Cell{Package: " gwf-sto ", Block: "period", Field: "Steady-State", Period: 3, Keyed: true},
		Actor:    Actor{ID: " modeller "},
		Old:      false,
		New:      true,
		Metadata: meta,
	}

	got := event.Normalize()
	if got.Verb != VerbDataSet || got.Cell.Package != "gwf-sto" || got.Actor.ID != "modeller" {
		t.Fatalf("unexpected normalized event: %+v", got)
	}
	if got.At.IsZero() {
		t.Fatalf("At should be stamped")
	}
	got.Metadata["source"] = "changed"
	if meta["source"] != "load" {
		t.Fatalf("Normalize must copy metadata")
	}

	want := map[string]any{"source": "load", "field": "steady-state", "period": 3, "old_value": false, "new_value": true}
	if diff := cmp.Diff(want, event.Data()); diff != "" {
		t.Fatalf("Data mismatch (-want +got):\n%s", diff)
	}
	if _, ok := (Event{Cell: Cell{Field: "maxbound"}}).Data()["period"]; ok {
		t.Fatalf("unkeyed cells have no period")
	}
}

func TestHooksNotify(t *testing.T) {
	capture := &CaptureHook{}
	boom1, boom2 := errors.New("boom1"), errors.New("boom2")
	var sawContext bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			sawContext = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(context.Context, Event) error { return boom1 }),
		nil,
		HookFunc(func(context.Context, Event) error { return boom2 }),
	}

	if err := hooks.Notify(context.Background(), Event{Verb: VerbDataSet}); err != nil {
		t.Fatalf("invalid events are dropped silently, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("invalid event reached a hook")
	}

	err := hooks.Notify(nil, Event{Verb: VerbDataSet, Cell: Cell{Field: "maxbound"}})
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !sawContext || len(capture.Events) != 1 {
		t.Fatalf("every hook should run once with a context")
	}
}

func TestEmitter(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cell := Cell{Package: "gwf-ghb", Block: "dimensions", Field: "maxbound"}

	var nilEmitter *Emitter
	if nilEmitter.Enabled() || nilEmitter.Emit(context.Background(), VerbDataSet, cell, nil, 1) != nil {
		t.Fatalf("nil emitter should be inert")
	}
	if NewEmitter(Hooks{nil}, Config{Enabled: true}).Enabled() {
		t.Fatalf("emitter with only nil hooks should be disabled")
	}

	capture := &CaptureHook{}
	if disabled := NewEmitter(Hooks{capture}, Config{}); disabled.Enabled() {
		t.Fatalf("emitter should honour Enabled=false")
	}

	emitter := NewEmitter(Hooks{capture}, Config{
		Enabled: true,
		Actor:   Actor{ID: "default"},
		Now:     func() time.Time { return at },
	})
	if err := emitter.Emit(context.Background(), VerbDataIncremented, cell, 1, 2); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := emitter.Send(context.Background(), Event{Verb: VerbDataSet, Cell: cell, Channel: "ui", Actor: Actor{ID: "explicit"}}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	first, second := capture.Events[0], capture.Events[1]
	if first.Channel != DefaultChannel || first.Actor.ID != "default" || !first.At.Equal(at) {
		t.Fatalf("defaults not stamped: %+v", first)
	}
	if first.Old != 1 || first.New != 2 {
		t.Fatalf("values not carried: %+v", first)
	}
	if second.Channel != "ui" || second.Actor.ID != "explicit" {
		t.Fatalf("explicit values should win: %+v", second)
	}
	if diff := cmp.Diff([]string{VerbDataIncremented, VerbDataSet}, capture.Verbs()); diff != "" {
		t.Fatalf("verbs mismatch (-want +got):\n%s", diff)
	}
}
