// Package activity reports changes made to package fields. Scalar and
// transient cells hand events to an Emitter, which stamps defaults and fans
// them out to hooks.
package activity

import (
	"maps"
	"strconv"
	"strings"
	"time"
)

// ObjectType is the object type of every field event.
const ObjectType = "mfdata.field"

const (
	VerbDataSet         = "data.set"
	VerbDataLoaded      = "data.loaded"
	VerbDataIncremented = "data.incremented"
	VerbPeriodAdded     = "period.added"
)

// Cell locates a field value. Period is the zero-based stress period and
// only applies when Keyed is set.
type Cell struct {
	Package string
	Block   string
	Field   string
	Period  int
	Keyed   bool
}

// ObjectID joins the non-empty lowercase names with "/". Keyed cells get
// the one-based period appended after "@", as in "gwf-sto/period/ss@2".
func (c Cell) ObjectID() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{c.Package, c.Block, c.Field} {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			parts = append(parts, part)
		}
	}
	id := strings.Join(parts, "/")
	if c.Keyed {
		id += "@" + strconv.Itoa(c.Period+1)
	}
	return id
}

// Actor identifies who made a change. IDs are kept as strings; sinks decide
// how to parse them.
type Actor struct {
	ID     string
	User   string
	Tenant string
}

func (a Actor) zero() bool {
	return a == Actor{}
}

// Event is one change to a cell.
type Event struct {
	Verb     string
	Cell     Cell
	Actor    Actor
	Channel  string
	Old      any
	New      any
	Metadata map[string]any
	At       time.Time
}

// Valid reports whether the event names a verb and a field.
func (e Event) Valid() bool {
	return strings.TrimSpace(e.Verb) != "" && strings.TrimSpace(e.Cell.Field) != ""
}

// Normalize trims names, copies Metadata and stamps At when unset.
func (e Event) Normalize() Event {
	e.Verb = strings.TrimSpace(e.Verb)
	e.Cell.Package = strings.TrimSpace(e.Cell.Package)
	e.Cell.Block = strings.TrimSpace(e.Cell.Block)
	e.Cell.Field = strings.TrimSpace(e.Cell.Field)
	e.Actor.ID = strings.TrimSpace(e.Actor.ID)
	e.Actor.User = strings.TrimSpace(e.Actor.User)
	e.Actor.Tenant = strings.TrimSpace(e.Actor.Tenant)
	e.Channel = strings.TrimSpace(e.Channel)
	if len(e.Metadata) > 0 {
		e.Metadata = maps.Clone(e.Metadata)
	} else {
		e.Metadata = nil
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	return e
}

// Data flattens the event for sinks that store a single map: Metadata plus
// field, period, old_value and new_value when they are set.
func (e Event) Data() map[string]any {
	data := make(map[string]any, len(e.Metadata)+4)
	maps.Copy(data, e.Metadata)
	if e.Cell.Field != "" {
		data["field"] = strings.ToLower(e.Cell.Field)
	}
	if e.Cell.Keyed {
		data["period"] = e.Cell.Period
	}
	if e.Old != nil {
		data["old_value"] = e.Old
	}
	if e.New != nil {
		data["new_value"] = e.New
	}
	return data
}
