package pcgn

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteDefaults(t *testing.T) {
	var buf bytes.Buffer
	if err := (Settings{}).Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := Heading + "\n" +
		"        50        30     1e-05     1e-05\n" +
		"         1         0         0         0\n" +
		"         0         1     0.001       0.1         0\n" +
		"         0     0.001         2        -1         0\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("written file mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteOverrides(t *testing.T) {
	user := Settings{IterMO: intp(100), CloseR: floatp(1e-7), Relax: floatp(0.99), IFill: intp(1), UnitPC: intp(28)}
	var buf bytes.Buffer
	if err := user.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := bytes.SplitAfter(buf.Bytes(), []byte("\n"))
	if got, want := string(lines[1]), "       100        30     1e-07     1e-05\n"; got != want {
		t.Fatalf("record 1: got %q want %q", got, want)
	}
	if got, want := string(lines[2]), "      0.99         1        28         0\n"; got != want {
		t.Fatalf("record 2: got %q want %q", got, want)
	}
}

func TestResolveLayers(t *testing.T) {
	project := Settings{IterMI: intp(40), Damp: floatp(0.5)}
	run := Settings{IterMI: intp(60)}
	got, err := Resolve(run, project)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if *got.IterMI != 60 || *got.Damp != 0.5 || *got.IterMO != 50 {
		t.Fatalf("unexpected resolution: iter_mi=%d damp=%g iter_mo=%d", *got.IterMI, *got.Damp, *got.IterMO)
	}
	if project.IterMO != nil {
		t.Fatalf("Resolve must not modify its inputs")
	}
}

func TestValidateFill(t *testing.T) {
	for _, fill := range []int{-1, 2} {
		_, err := Resolve(Settings{IFill: intp(fill)})
		if !errors.Is(err, ErrInvalidFill) {
			t.Errorf("ifill=%d: expected ErrInvalidFill, got %v", fill, err)
		}
	}
	if err := (Settings{}).Validate(); err != nil {
		t.Fatalf("unset settings should validate: %v", err)
	}
	if err := (Settings{IFill: intp(3)}).Write(&bytes.Buffer{}); !errors.Is(err, ErrInvalidFill) {
		t.Fatalf("Write should reject ifill=3, got %v", err)
	}
}

func TestUnits(t *testing.T) {
	s := Settings{UnitPC: intp(28), UnitTS: intp(0), IPUnit: intp(30)}
	want := []Unit{{Extension: "pcgni", Number: 28}, {Extension: "pcgno", Number: 30}}
	if diff := cmp.Diff(want, s.Units()); diff != "" {
		t.Fatalf("units mismatch (-want +got):\n%s", diff)
	}
	if units := Defaults().Units(); len(units) != 0 {
		t.Fatalf("defaults should not open extra units, got %v", units)
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode([]byte("ITER_MO: 75\nclose_h: 1.0e-6\nunit_ts: 29\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := Settings{IterMO: intp(75), CloseH: floatp(1e-6), UnitTS: intp(29)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded settings mismatch (-want +got):\n%s", diff)
	}

	if _, err := Decode([]byte("bogus: 1\n")); err == nil {
		t.Fatalf("unknown keys should be rejected")
	}
	if _, err := Decode([]byte("ifill: 4\n")); !errors.Is(err, ErrInvalidFill) {
		t.Fatalf("expected ErrInvalidFill, got %v", err)
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcgn.json")
	if err := os.WriteFile(path, []byte(`{"relax": 0.97, "mcnvg": 3}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if *got.Relax != 0.97 || *got.MCnvg != 3 {
		t.Fatalf("unexpected settings %+v", got)
	}
}
