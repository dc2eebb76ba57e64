package mfdata

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-mfdata/pkg/activity"
	"github.com/goliatone/go-mfdata/structure"
)

// PeriodValue pairs a stress period with the value set for it.
type PeriodValue struct {
	Key   int
	Value any
}

// PeriodData is an ordered list of per-period values.
type PeriodData []PeriodValue

// PeriodsFromMap orders m by ascending stress period.
func PeriodsFromMap(m map[int]any) PeriodData {
	keys := make([]int, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	out := make(PeriodData, len(keys))
	for i, key := range keys {
		out[i] = PeriodValue{Key: key, Value: m[key]}
	}
	return out
}

type periodCell struct {
	key  int
	cell *Scalar
}

// periodCells maps stress periods to cells in registration order.
type periodCells struct {
	entries []periodCell
	index   map[int]int
}

func (p *periodCells) put(key int, cell *Scalar) {
	if p.index == nil {
		p.index = make(map[int]int)
	}
	if i, ok := p.index[key]; ok {
		p.entries[i].cell = cell
		return
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, periodCell{key: key, cell: cell})
}

func (p *periodCells) get(key int) (*Scalar, bool) {
	i, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return p.entries[i].cell, true
}

func (p *periodCells) keys() []int {
	keys := make([]int, len(p.entries))
	for i, entry := range p.entries {
		keys[i] = entry.key
	}
	return keys
}

// ScalarTransient holds an independent scalar cell per stress period.
type ScalarTransient struct {
	structure *structure.Structure
	cfg       config
	cells     periodCells
}

// NewScalarTransient constructs a sequence with no registered periods.
func NewScalarTransient(st *structure.Structure, opts ...Option) (*ScalarTransient, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if !st.Transient {
		st = st.AsTransient()
	}
	cfg := applyOptions(opts)
	if cfg.comments == nil {
		cfg.comments = NewComments()
	}
	t := &ScalarTransient{structure: st, cfg: cfg}
	if cfg.hasData {
		if err := t.SetData(0, cfg.data); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Structure returns the schema node of the sequence.
func (t *ScalarTransient) Structure() *structure.Structure {
	return t.structure
}

// Comments returns the sink shared by every period cell.
func (t *ScalarTransient) Comments() CommentSink {
	return t.cfg.comments
}

// AddTransientKey registers key with a new empty cell. Registering a key
// again replaces its cell.
func (t *ScalarTransient) AddTransientKey(key int) {
	cfg := t.cfg
	cfg.data, cfg.hasData = nil, false
	t.cells.put(key, newScalar(t.structure, cfg, CommentRef{Field: t.structure.Name, Key: key, Keyed: true}))
	if t.cfg.emitter.Enabled() {
		_ = t.cfg.emitter.Emit(context.Background(), activity.VerbPeriodAdded, activity.Cell{
			Package: t.cfg.pkg,
			Block:   t.structure.Block,
			Field:   t.structure.Name,
			Period:  key,
			Keyed:   true,
		}, nil, nil)
	}
}

// Keys lists registered periods in registration order.
func (t *ScalarTransient) Keys() []int {
	return t.cells.keys()
}

// Cell returns the cell registered for key.
func (t *ScalarTransient) Cell(key int) (*Scalar, bool) {
	return t.cells.get(key)
}

// cellFor returns the cell for key, registering the key first when needed.
func (t *ScalarTransient) cellFor(key int) *Scalar {
	if cell, ok := t.cells.get(key); ok {
		return cell
	}
	t.AddTransientKey(key)
	cell, _ := t.cells.get(key)
	return cell
}

// HasData reports whether any registered period holds a value.
func (t *ScalarTransient) HasData() bool {
	for _, entry := range t.cells.entries {
		if entry.cell.HasData() {
			return true
		}
	}
	return false
}

// HasDataAt reports whether period key holds a value.
func (t *ScalarTransient) HasDataAt(key int) bool {
	cell, ok := t.cells.get(key)
	return ok && cell.HasData()
}

// Data returns the value of period key, or nil.
func (t *ScalarTransient) Data(key int) any {
	cell, ok := t.cells.get(key)
	if !ok {
		return nil
	}
	return cell.Data(false)
}

// SetData stores value for period key. When value is PeriodData or a
// map[int]any every entry is stored under its own period instead, maps in
// ascending period order.
func (t *ScalarTransient) SetData(key int, value any) error {
	switch data := value.(type) {
	case PeriodData:
		return t.SetPeriodData(data)
	case map[int]any:
		return t.SetPeriodData(PeriodsFromMap(data))
	}
	return t.cellFor(key).SetData(value)
}

// SetPeriodData stores each entry under its period, in order. It stops at
// the first failing entry.
func (t *ScalarTransient) SetPeriodData(data PeriodData) error {
	for _, entry := range data {
		if err := t.cellFor(entry.Key).SetData(entry.Value); err != nil {
			return err
		}
	}
	return nil
}

// AddOne increments the integer value of period key.
func (t *ScalarTransient) AddOne(key int) error {
	return t.cellFor(key).AddOne()
}

// FileEntryAt renders period key.
func (t *ScalarTransient) FileEntryAt(key int, action ExtFileAction) string {
	cell, ok := t.cells.get(key)
	if !ok {
		return ""
	}
	return cell.FileEntry(EntryOptions{Action: action})
}

// FileEntry renders every period holding data, in registration order,
// separated by blank lines.
func (t *ScalarTransient) FileEntry(action ExtFileAction) string {
	var entries []string
	for _, entry := range t.cells.entries {
		if entry.cell.HasData() {
			entries = append(entries, entry.cell.FileEntry(EntryOptions{Action: action}))
		}
	}
	switch len(entries) {
	case 0:
		return ""
	case 1:
		return entries[0]
	default:
		return strings.Join(entries, "\n\n")
	}
}

// Load reads the value for the period named by header into a fresh cell.
// Headers without a key load period 0.
func (t *ScalarTransient) Load(first string, r LineReader, header BlockHeader, pre []string) (LoadResult, error) {
	key := 0
	if header.Keyed {
		key = header.Key
	}
	return t.cellFor(key).Load(first, r, header, pre)
}
