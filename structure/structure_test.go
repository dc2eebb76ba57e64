package structure

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseItemTypeAliases(t *testing.T) {
	cases := map[string]ItemType{
		"keyword":          ItemKeyword,
		"INTEGER":          ItemInteger,
		"int":              ItemInteger,
		"double precision": ItemDouble,
		"real":             ItemDouble,
		"string":           ItemString,
		" Boolean ":        ItemBoolean,
		"record":           ItemRecord,
	}
	for input, want := range cases {
		got, err := ParseItemType(input)
		if err != nil {
			t.Fatalf("ParseItemType(%q) unexpected error: %v", input, err)
		}
		if got != want {
			t.Errorf("ParseItemType(%q) = %s, want %s", input, got, want)
		}
	}

	if _, err := ParseItemType("complex"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestDataTypeFollowsKindAndTransient(t *testing.T) {
	tests := []struct {
		name string
		st   *Structure
		want DataType
	}{
		{"scalar", NewScalar("dimensions", "maxbound", ItemInteger), DataScalar},
		{"keyword", NewScalar("options", "boundnames", ItemKeyword), DataScalarKeyword},
		{"transient scalar", NewScalar("period", "rate", ItemDouble).AsTransient(), DataScalarTransient},
		{"transient keyword", NewScalar("period", "steady-state", ItemKeyword).AsTransient(), DataScalarKeywordTransient},
		{"record", NewRecord("options", "ts_filerecord",
			DataItem{Name: "ts6", Type: ItemKeyword},
			DataItem{Name: "ts6_filename", Type: ItemString}), DataRecord},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.st.DataType(); got != tc.want {
				t.Fatalf("DataType() = %s, want %s", got, tc.want)
			}
		})
	}
	if !DataScalarKeywordTransient.KeywordOnly() || DataScalarTransient.KeywordOnly() {
		t.Fatalf("KeywordOnly reports wrong values")
	}
}

func TestRecordKeywordAndDatumType(t *testing.T) {
	st := NewRecord("options", "obs_filerecord",
		DataItem{Name: "obs6", Type: ItemKeyword},
		DataItem{Name: "filein", Type: ItemKeyword},
		DataItem{Name: "obs6_filename", Type: ItemString},
	)
	if got := st.Keyword(); got != "OBS6" {
		t.Fatalf("Keyword() = %q, want OBS6", got)
	}
	if got := st.DataIndex(); got != 2 {
		t.Fatalf("DataIndex() = %d, want 2", got)
	}
	if got := st.DatumType(); got != ItemString {
		t.Fatalf("DatumType() = %s, want string", got)
	}
	want := []ItemType{ItemKeyword, ItemKeyword, ItemString}
	if diff := cmp.Diff(want, st.ItemTypes()); diff != "" {
		t.Fatalf("ItemTypes mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRejectsKeywordOnlyRecord(t *testing.T) {
	st := NewRecord("options", "flag_record", DataItem{Name: "flag", Type: ItemKeyword})
	if err := st.Validate(); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestEmbeddedGHBDefinition(t *testing.T) {
	def, err := Embedded("gwf-ghb")
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	if def.Package != "gwf-ghb" {
		t.Fatalf("package = %q", def.Package)
	}
	options, ok := def.Block("OPTIONS")
	if !ok {
		t.Fatalf("options block missing")
	}
	ts := options.Field("ts_filerecord")
	if ts == nil || ts.Kind != KindRecord || len(ts.Items) != 3 {
		t.Fatalf("unexpected ts_filerecord structure: %+v", ts)
	}
	dims, _ := def.Block("dimensions")
	if mb := dims.Field("maxbound"); mb == nil || mb.DatumType() != ItemInteger {
		t.Fatalf("unexpected maxbound structure: %+v", mb)
	}
}

func TestEmbeddedTransientBlock(t *testing.T) {
	def, err := Embedded("gwf-sto")
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	period, ok := def.Block("period")
	if !ok || !period.Transient {
		t.Fatalf("period block should be transient: %+v", period)
	}
	if got := period.Field("steady-state").DataType(); got != DataScalarKeywordTransient {
		t.Fatalf("steady-state datatype = %s", got)
	}
}

func TestEmbeddedNames(t *testing.T) {
	want := []string{"gwf-ghb", "gwf-laktab", "gwf-sto"}
	if diff := cmp.Diff(want, EmbeddedNames()); diff != "" {
		t.Fatalf("EmbeddedNames mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefinitionRejectsUnknownFields(t *testing.T) {
	doc := `
package: demo
blocks:
  - name: options
    fields:
      - name: x
        type: integer
        colour: red
`
	if _, err := LoadDefinition(strings.NewReader(doc)); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestRegistryLookupAndDuplicates(t *testing.T) {
	def, err := Embedded("gwf-laktab")
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	reg, err := RegistryFor(def)
	if err != nil {
		t.Fatalf("RegistryFor: %v", err)
	}
	if _, ok := reg.Lookup("DIMENSIONS", "NROW"); !ok {
		t.Fatalf("expected case-insensitive lookup to succeed")
	}
	if diff := cmp.Diff([]string{"dimensions/ncol", "dimensions/nrow"}, reg.Names()); diff != "" {
		t.Fatalf("Names mismatch (-want +got):\n%s", diff)
	}
	if err := reg.Register(NewScalar("dimensions", "nrow", ItemInteger)); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}
