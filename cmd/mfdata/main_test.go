package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"

	mfdata "github.com/goliatone/go-mfdata"
	"github.com/goliatone/go-mfdata/packages/pcgn"
)

const ghbFile = `# ghb input
begin options
  boundnames
  TS6 FILEIN ghb.ts
end options

BEGIN DIMENSIONS
  MAXBOUND 4
END DIMENSIONS
`

func TestFormatPackage(t *testing.T) {
	var out bytes.Buffer
	values := mfdata.Values{"options": map[string]any{"save_flows": true}}
	if err := formatPackage(&out, "gwf-ghb", strings.NewReader(ghbFile), values); err != nil {
		t.Fatalf("formatPackage: %v", err)
	}
	want := `BEGIN OPTIONS
  BOUNDNAMES
  SAVE_FLOWS
  TS6  FILEIN  ghb.ts
END OPTIONS

BEGIN DIMENSIONS
  MAXBOUND  4
END DIMENSIONS
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("formatted output mismatch (-want +got):\n%s", diff)
	}
}

func TestReadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	data := "DIMENSIONS:\n  MAXBOUND: 9\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	values, err := readValues(path)
	if err != nil {
		t.Fatalf("readValues: %v", err)
	}
	var out bytes.Buffer
	if err := formatPackage(&out, "gwf-ghb", nil, values); err != nil {
		t.Fatalf("formatPackage: %v", err)
	}
	if want := "BEGIN DIMENSIONS\n  MAXBOUND  9\nEND DIMENSIONS\n"; out.String() != want {
		t.Fatalf("got %q want %q", out.String(), want)
	}
}

func TestCheckPackage(t *testing.T) {
	var out bytes.Buffer
	differs, err := checkPackage(&out, "gwf-ghb", strings.NewReader(ghbFile), false)
	if err != nil {
		t.Fatalf("checkPackage: %v", err)
	}
	if differs {
		t.Fatalf("canonical input should not differ:\n%s", out.String())
	}

	out.Reset()
	noisy := strings.Replace(ghbFile, "MAXBOUND 4", "MAXBOUND 04", 1)
	differs, err = checkPackage(&out, "gwf-ghb", strings.NewReader(noisy), false)
	if err != nil {
		t.Fatalf("checkPackage: %v", err)
	}
	if !differs {
		t.Fatalf("a non-canonical number should be reported")
	}
	if !strings.Contains(out.String(), "- MAXBOUND 04\n") || !strings.Contains(out.String(), "+ MAXBOUND 4\n") {
		t.Fatalf("unexpected diff:\n%s", out.String())
	}

	if _, err := checkPackage(&out, "gwf-ghb", strings.NewReader("BEGIN NOPE\n"), false); err == nil {
		t.Fatalf("bad input should fail")
	}
}

func TestNormalize(t *testing.T) {
	got := normalize("# c\n\nbegin options\n   boundnames   # trailing\nEND options\n")
	want := "BEGIN OPTIONS\nBOUNDNAMES # trailing\nEND OPTIONS\n"
	if !strings.HasPrefix(got, "BEGIN OPTIONS\nBOUNDNAMES") || !strings.HasSuffix(got, "END OPTIONS\n") {
		t.Fatalf("got %q, want the shape of %q", got, want)
	}
}

func TestLineDiff(t *testing.T) {
	diff, differs := lineDiff("A\nB\nC\n", "A\nX\nC\n", false)
	if !differs {
		t.Fatalf("expected a difference")
	}
	want := "  A\n- B\n+ X\n  C\n"
	if diff != want {
		t.Fatalf("got %q want %q", diff, want)
	}
	if _, differs := lineDiff("A\n", "A\n", false); differs {
		t.Fatalf("equal text should not differ")
	}
	colored, _ := lineDiff("A\n", "B\n", true)
	if !strings.Contains(colored, "\x1b[") {
		t.Fatalf("colored diff should carry escape codes, got %q", colored)
	}
}

func TestEvalPackage(t *testing.T) {
	cases := []struct {
		engine string
		expr   string
		want   string
	}{
		{"expr", "maxbound * 2", "8"},
		{"cel", "maxbound > 3 && boundnames", "true"},
		{"", "pkg", `"gwf-ghb"`},
	}
	for _, tc := range cases {
		t.Run(tc.engine+" "+tc.expr, func(t *testing.T) {
			var out bytes.Buffer
			err := evalPackage(&out, "gwf-ghb", strings.NewReader(ghbFile), tc.engine, 0, tc.expr, mfdata.WithLogger(mfdata.NewLogrLogger(logr.Discard())))
			if err != nil {
				t.Fatalf("evalPackage: %v", err)
			}
			if got := strings.TrimSpace(out.String()); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}

	if err := evalPackage(&bytes.Buffer{}, "gwf-ghb", strings.NewReader(ghbFile), "lua", 0, "1"); err == nil {
		t.Fatalf("unknown engine should fail")
	}
}

func TestPrintSchema(t *testing.T) {
	var out bytes.Buffer
	if err := printSchema(&out, "gwf-ghb", mfdata.SchemaFormatDescriptors, false); err != nil {
		t.Fatalf("printSchema: %v", err)
	}
	var fields []mfdata.FieldDescriptor
	if err := json.Unmarshal(out.Bytes(), &fields); err != nil {
		t.Fatalf("descriptors should be JSON: %v", err)
	}
	if len(fields) == 0 || fields[0].Path != "options.auxmultname" {
		t.Fatalf("unexpected descriptors %+v", fields)
	}

	out.Reset()
	if err := printSchema(&out, "gwf-ghb", mfdata.SchemaFormatOpenAPI, true); err != nil {
		t.Fatalf("printSchema: %v", err)
	}
	if !strings.Contains(out.String(), "openapi: 3.0.3") {
		t.Fatalf("expected a YAML OpenAPI document, got:\n%s", out.String())
	}

	if err := printSchema(&out, "gwf-ghb", "xml", false); err == nil {
		t.Fatalf("unknown format should fail")
	}
}

func TestWritePCGN(t *testing.T) {
	var out bytes.Buffer
	one := 1
	if err := writePCGN(&out, []pcgn.Settings{{IFill: &one}}, false); err != nil {
		t.Fatalf("writePCGN: %v", err)
	}
	lines := strings.Split(out.String(), "\n")
	if lines[0] != pcgn.Heading || lines[2] != "         1         1         0         0" {
		t.Fatalf("unexpected file:\n%s", out.String())
	}

	out.Reset()
	unit := 31
	if err := writePCGN(&out, []pcgn.Settings{{UnitTS: &unit}}, true); err != nil {
		t.Fatalf("writePCGN: %v", err)
	}
	if out.String() != "pcgnt 31\n" {
		t.Fatalf("unexpected units %q", out.String())
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mfdata.yaml")
	if err := os.WriteFile(path, []byte("indent: \"    \"\nfloat_precision: 4\ncolor: never\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("MFDATA_LOG_LEVEL", "debug")

	got, err := loadSettings(path)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	want := Settings{Indent: "    ", FloatPrecision: 4, Color: "never", LogLevel: "debug"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
	if got.colored(&bytes.Buffer{}) {
		t.Fatalf("color=never should disable color")
	}

	t.Setenv("MFDATA_COLOR", "sometimes")
	if _, err := loadSettings(path); err == nil {
		t.Fatalf("invalid color should be rejected")
	}
	if _, err := loadSettings(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("an explicit missing config should fail")
	}
}

func TestSettingsOptions(t *testing.T) {
	s := Settings{Indent: " ", FloatPrecision: 2, Color: "always", LogLevel: "info"}
	if !s.colored(&bytes.Buffer{}) {
		t.Fatalf("color=always should enable color")
	}
	pkg, err := mfdata.NewEmbeddedPackage("gwf-ghb", s.options(logr.Discard())...)
	if err != nil {
		t.Fatalf("NewEmbeddedPackage: %v", err)
	}
	field, _ := pkg.Scalar("maxbound")
	if err := field.SetData(3); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	if got := field.FileEntry(mfdata.EntryOptions{}); got != " MAXBOUND 3\n" {
		t.Fatalf("indent option not applied, got %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	log, flush, err := newLogger("debug")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer flush()
	if !log.V(1).Enabled() {
		t.Fatalf("debug level should enable V(1)")
	}
	if _, _, err := newLogger("loud"); err == nil {
		t.Fatalf("unknown level should fail")
	}
}
