package mfdata

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-mfdata/pkg/activity"
	"github.com/goliatone/go-mfdata/structure"
	"github.com/google/go-cmp/cmp"
)

func mustTransient(t *testing.T, st *structure.Structure, opts ...Option) *ScalarTransient {
	t.Helper()
	ts, err := NewScalarTransient(st, opts...)
	if err != nil {
		t.Fatalf("NewScalarTransient(%s): %v", st.Name, err)
	}
	return ts
}

func rateField() *structure.Structure {
	return structure.NewScalar("period", "rate", structure.ItemDouble).AsTransient()
}

func TestTransientHasData(t *testing.T) {
	ts := mustTransient(t, rateField())
	for _, key := range []int{0, 1, 2} {
		ts.AddTransientKey(key)
	}
	if ts.HasData() {
		t.Fatalf("no period holds data yet")
	}
	if err := ts.SetData(1, 0.5); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	if !ts.HasData() {
		t.Fatalf("HasData should be true when any period holds data")
	}
	if ts.HasDataAt(0) || !ts.HasDataAt(1) || ts.HasDataAt(2) {
		t.Fatalf("unexpected per-period HasData")
	}
	if ts.HasDataAt(9) || ts.Data(9) != nil {
		t.Fatalf("unregistered periods report no data")
	}
}

func TestTransientFileEntryAggregation(t *testing.T) {
	ts := mustTransient(t, rateField())
	ts.AddTransientKey(2)
	ts.AddTransientKey(0)
	ts.AddTransientKey(1)

	if got := ts.FileEntry(CopyRelativePaths); got != "" {
		t.Fatalf("no data should render empty, got %q", got)
	}

	_ = ts.SetData(0, 1.5)
	if got := ts.FileEntry(CopyRelativePaths); got != "  RATE  1.5\n" {
		t.Fatalf("single entry should be returned bare, got %q", got)
	}

	_ = ts.SetData(2, 3.0)
	want := "  RATE  3\n" + "\n\n" + "  RATE  1.5\n"
	if got := ts.FileEntry(CopyRelativePaths); got != want {
		t.Fatalf("FileEntry = %q, want %q", got, want)
	}
	if got := ts.FileEntryAt(2, CopyNone); got != "  RATE  3\n" {
		t.Fatalf("FileEntryAt(2) = %q", got)
	}
	if got := ts.FileEntryAt(7, CopyNone); got != "" {
		t.Fatalf("FileEntryAt(7) = %q", got)
	}
}

func TestTransientKeywordAggregation(t *testing.T) {
	ts := mustTransient(t, structure.NewScalar("period", "print_input", structure.ItemKeyword).AsTransient())
	for key, value := range []bool{true, false, true} {
		ts.AddTransientKey(key)
		if err := ts.SetData(key, value); err != nil {
			t.Fatalf("SetData(%d): %v", key, err)
		}
	}
	if ts.HasDataAt(1) {
		t.Fatalf("period set to false should hold no data")
	}
	want := "  PRINT_INPUT\n" + "\n\n" + "  PRINT_INPUT\n"
	if got := ts.FileEntry(CopyNone); got != want {
		t.Fatalf("FileEntry = %q, want %q", got, want)
	}
}

func TestTransientKeysKeepRegistrationOrder(t *testing.T) {
	ts := mustTransient(t, rateField())
	ts.AddTransientKey(5)
	ts.AddTransientKey(1)
	_ = ts.SetData(3, 1.0)
	ts.AddTransientKey(5)
	if diff := cmp.Diff([]int{5, 1, 3}, ts.Keys()); diff != "" {
		t.Fatalf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestTransientReregisterReplacesCell(t *testing.T) {
	ts := mustTransient(t, rateField())
	_ = ts.SetData(1, 2.0)
	ts.AddTransientKey(1)
	if ts.HasDataAt(1) {
		t.Fatalf("re-registering a key should replace its cell")
	}
}

func TestTransientSetPeriodData(t *testing.T) {
	ts := mustTransient(t, rateField())
	err := ts.SetData(0, map[int]any{3: 0.3, 1: 0.1})
	if err != nil {
		t.Fatalf("SetData(map): %v", err)
	}
	if diff := cmp.Diff([]int{1, 3}, ts.Keys()); diff != "" {
		t.Fatalf("map entries should register in ascending order (-want +got):\n%s", diff)
	}
	if ts.HasDataAt(0) {
		t.Fatalf("map values must not be stored under the key argument")
	}

	err = ts.SetPeriodData(PeriodData{{Key: 4, Value: 1.0}, {Key: 2, Value: "bad"}, {Key: 6, Value: 2.0}})
	if !errors.Is(err, ErrTypeConversion) {
		t.Fatalf("expected conversion error, got %v", err)
	}
	if ts.Data(4) != 1.0 || ts.HasDataAt(6) {
		t.Fatalf("SetPeriodData should stop at the first failure")
	}
}

func TestTransientAddOne(t *testing.T) {
	ts := mustTransient(t, structure.NewScalar("period", "iter", structure.ItemInteger))
	if !ts.Structure().Transient {
		t.Fatalf("structure should be marked transient")
	}
	if err := ts.AddOne(3); err != nil {
		t.Fatalf("AddOne: %v", err)
	}
	_ = ts.AddOne(3)
	if ts.Data(3) != 2 {
		t.Fatalf("Data(3) = %#v, want 2", ts.Data(3))
	}
	if err := mustTransient(t, rateField()).AddOne(0); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestTransientLoadUsesHeaderKey(t *testing.T) {
	ts := mustTransient(t, structure.NewScalar("period", "steady-state", structure.ItemKeyword).AsTransient())
	r := NewReader(strings.NewReader("STEADY-STATE  # first period\n"))
	first, _ := r.ReadLine()
	if _, err := ts.Load(first, r, BlockHeader{Name: "period", Key: 4, Keyed: true}, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ts.HasDataAt(4) || ts.HasDataAt(0) {
		t.Fatalf("load should target period 4")
	}
	cell, ok := ts.Cell(4)
	if !ok || cell.Data(false) != true {
		t.Fatalf("unexpected cell %+v", cell)
	}
	comments := ts.Comments().(*Comments)
	if text, _ := comments.Line(CommentRef{Field: "steady-state", Key: 4, Keyed: true}); text != "# first period" {
		t.Fatalf("line comment = %q", text)
	}
	if got := ts.FileEntry(CopyAll); got != "  STEADY-STATE\n" {
		t.Fatalf("FileEntry = %q", got)
	}
}

func TestTransientEmitsPeriodAdded(t *testing.T) {
	capture := &activity.CaptureHook{}
	ts := mustTransient(t, rateField(), WithActivityHooks(activity.Hooks{capture}))
	_ = ts.SetData(2, 1.0)

	if diff := cmp.Diff([]string{activity.VerbPeriodAdded, activity.VerbDataSet}, capture.Verbs()); diff != "" {
		t.Fatalf("event verbs mismatch (-want +got):\n%s", diff)
	}
	added, set := capture.Events[0], capture.Events[1]
	if added.Verb != activity.VerbPeriodAdded || added.Cell.Period != 2 || !added.Cell.Keyed {
		t.Fatalf("unexpected period event: %+v", added)
	}
	if set.Verb != activity.VerbDataSet || set.Cell.Period != 2 {
		t.Fatalf("unexpected set event: %+v", set)
	}
}
