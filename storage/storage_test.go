package storage

import (
	"errors"
	"testing"

	"github.com/goliatone/go-mfdata/structure"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		typ  structure.ItemType
		want any
	}{
		{"int token", "42", structure.ItemInteger, 42},
		{"int padded", " 7 ", structure.ItemInteger, 7},
		{"int from integral float", 3.0, structure.ItemInteger, 3},
		{"int from int64", int64(9), structure.ItemInteger, 9},
		{"double token", "1.5", structure.ItemDouble, 1.5},
		{"double fortran", "1.0D-5", structure.ItemDouble, 1.0e-5},
		{"double from int", 2, structure.ItemDouble, 2.0},
		{"bool token", "true", structure.ItemBoolean, true},
		{"keyword token", "BOUNDNAMES", structure.ItemKeyword, true},
		{"keyword false", false, structure.ItemKeyword, false},
		{"string", "ghb.ts", structure.ItemString, "ghb.ts"},
		{"string from int", 12, structure.ItemString, "12"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Convert(tc.raw, tc.typ)
			if err != nil {
				t.Fatalf("Convert(%v, %s) unexpected error: %v", tc.raw, tc.typ, err)
			}
			if got != tc.want {
				t.Fatalf("Convert(%v, %s) = %#v, want %#v", tc.raw, tc.typ, got, tc.want)
			}
		})
	}
}

func TestConvertFailures(t *testing.T) {
	tests := []struct {
		raw any
		typ structure.ItemType
	}{
		{"ten", structure.ItemInteger},
		{"1.5", structure.ItemInteger},
		{2.5, structure.ItemInteger},
		{true, structure.ItemInteger},
		{"abc", structure.ItemDouble},
		{nil, structure.ItemString},
		{"a'b\"c", structure.ItemString},
		{"x", structure.ItemRecord},
	}
	for _, tc := range tests {
		_, err := Convert(tc.raw, tc.typ)
		if !errors.Is(err, ErrConversion) {
			t.Errorf("Convert(%v, %s) error = %v, want ErrConversion", tc.raw, tc.typ, err)
			continue
		}
		var convErr *ConversionError
		if !errors.As(err, &convErr) || convErr.Type != tc.typ {
			t.Errorf("expected ConversionError with type %s, got %#v", tc.typ, err)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		typ       structure.ItemType
		upper     bool
		precision int
		want      string
	}{
		{"int", 10, structure.ItemInteger, false, 0, "10"},
		{"double shortest", 1e-5, structure.ItemDouble, false, 0, "1E-05"},
		{"double whole", 100.0, structure.ItemDouble, false, 0, "100"},
		{"double precision", 0.25, structure.ItemDouble, false, 4, "2.5000E-01"},
		{"string plain", "ghb.ts", structure.ItemString, false, 0, "ghb.ts"},
		{"string upper", "cond", structure.ItemString, true, 0, "COND"},
		{"string spaces", "my file", structure.ItemString, false, 0, "'my file'"},
		{"string apostrophe", "it's", structure.ItemString, false, 0, `"it's"`},
		{"bool", true, structure.ItemBoolean, false, 0, "true"},
		{"keyword", true, structure.ItemKeyword, false, 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.value, tc.typ, tc.upper, tc.precision); got != tc.want {
				t.Fatalf("Format = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStorageSlot(t *testing.T) {
	s := New()
	if s.HasData() || s.Get(false) != nil {
		t.Fatalf("new storage should be empty")
	}
	s.Set(0)
	if !s.HasData() {
		t.Fatalf("zero value should count as data")
	}
	s.Clear()
	if s.HasData() {
		t.Fatalf("Clear should empty the slot")
	}
}

func TestStorageMultiplier(t *testing.T) {
	s := New()
	s.Set(4)
	s.SetMultiplier(2)
	if got := s.Get(true); got != 8 {
		t.Fatalf("Get(true) = %#v, want 8", got)
	}
	if got := s.Get(false); got != 4 {
		t.Fatalf("Get(false) = %#v, want 4", got)
	}
	s.SetMultiplier(0.5)
	if got := s.Get(true); got != 2.0 {
		t.Fatalf("Get(true) = %#v, want 2.0", got)
	}
	s.Set("name")
	if got := s.Get(true); got != "name" {
		t.Fatalf("non-numeric values are not scaled, got %#v", got)
	}
}

func TestStorageToStringUsesPrecision(t *testing.T) {
	s := New(WithFloatPrecision(2))
	if got := s.ToString(1234.5, structure.ItemDouble, false); got != "1.23E+03" {
		t.Fatalf("ToString = %q", got)
	}
}
