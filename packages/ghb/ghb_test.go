package ghb

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	mfdata "github.com/goliatone/go-mfdata"
)

func TestBuildAndRender(t *testing.T) {
	pkg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	steps := []error{
		pkg.SetAuxMultName("mult"),
		pkg.SetBoundNames(true),
		pkg.SetSaveFlows(true),
		pkg.SetTimeSeriesFile("ghb.ts"),
		pkg.SetObservationFile("ghb.obs"),
		pkg.SetMaxBound(4),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	want := `BEGIN OPTIONS
  AUXMULTNAME  mult
  BOUNDNAMES
  SAVE_FLOWS
  TS6  FILEIN  ghb.ts
  OBS6  FILEIN  ghb.obs
END OPTIONS

BEGIN DIMENSIONS
  MAXBOUND  4
END DIMENSIONS
`
	if diff := cmp.Diff(want, pkg.String()); diff != "" {
		t.Fatalf("rendered package mismatch (-want +got):\n%s", diff)
	}
	if !pkg.BoundNames() {
		t.Fatalf("boundnames should be on")
	}
}

func TestMaxBound(t *testing.T) {
	pkg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := pkg.MaxBound(); ok {
		t.Fatalf("maxbound should start unset")
	}
	for i := 0; i < 3; i++ {
		if err := pkg.AddBound(); err != nil {
			t.Fatalf("AddBound: %v", err)
		}
	}
	if n, ok := pkg.MaxBound(); !ok || n != 3 {
		t.Fatalf("expected maxbound 3, got %d (%v)", n, ok)
	}
	if err := pkg.SetMaxBound(-1); err == nil {
		t.Fatalf("negative maxbound should be rejected")
	}
}

func TestLoad(t *testing.T) {
	text := "BEGIN OPTIONS\n  PRINT_INPUT\nEND OPTIONS\n\nBEGIN DIMENSIONS\n  MAXBOUND 12\nEND DIMENSIONS\n"
	pkg, err := Load(strings.NewReader(text), mfdata.WithIndent("  "))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n, _ := pkg.MaxBound(); n != 12 {
		t.Fatalf("expected maxbound 12, got %d", n)
	}
	if pkg.BoundNames() {
		t.Fatalf("boundnames was not in the file")
	}
	if _, err := Load(strings.NewReader("BEGIN PERIOD 1\nEND PERIOD\n")); err == nil {
		t.Fatalf("unknown block should fail")
	}
}
