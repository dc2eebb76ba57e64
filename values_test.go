package mfdata

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPackageApplyValues(t *testing.T) {
	pkg, err := NewEmbeddedPackage("gwf-sto")
	if err != nil {
		t.Fatalf("NewEmbeddedPackage: %v", err)
	}
	values := Values{
		"options": map[string]any{"save_flows": true},
		"period": map[string]any{
			"3": map[string]any{"transient": true},
			"1": map[string]any{"steady_state": "true"},
		},
	}
	if err := pkg.Apply(values); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := `BEGIN OPTIONS
  SAVE_FLOWS
END OPTIONS

BEGIN PERIOD 1
  STEADY-STATE
END PERIOD

BEGIN PERIOD 3
  TRANSIENT
END PERIOD
`
	if got := pkg.String(); got != want {
		t.Fatalf("rendered package mismatch:\n%s", cmp.Diff(want, got))
	}

	exported := pkg.Values()
	wantValues := Values{
		"options": map[string]any{"save_flows": true},
		"period": map[string]any{
			"1": map[string]any{"steady_state": true},
			"3": map[string]any{"transient": true},
		},
	}
	if diff := cmp.Diff(wantValues, exported); diff != "" {
		t.Fatalf("exported values mismatch (-want +got):\n%s", diff)
	}
}

func TestPackageApplyErrors(t *testing.T) {
	cases := []struct {
		name   string
		pkg    string
		values Values
		target error
	}{
		{"unknown block", "gwf-sto", Values{"nope": map[string]any{}}, ErrUnknownBlock},
		{"unknown field", "gwf-sto", Values{"options": map[string]any{"nope": true}}, ErrUnknownField},
		{"bad period", "gwf-sto", Values{"period": map[string]any{"0": map[string]any{"transient": true}}}, nil},
		{"bad value", "gwf-ghb", Values{"dimensions": map[string]any{"maxbound": "many"}}, ErrTypeConversion},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pkg, err := NewEmbeddedPackage(tc.pkg)
			if err != nil {
				t.Fatalf("NewEmbeddedPackage: %v", err)
			}
			err = pkg.Apply(tc.values)
			if err == nil {
				t.Fatalf("Apply should fail")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Fatalf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestPackageValuesRoundTrip(t *testing.T) {
	src := ghbPackage(t)
	dst, err := NewEmbeddedPackage("gwf-ghb")
	if err != nil {
		t.Fatalf("NewEmbeddedPackage: %v", err)
	}
	if err := dst.Apply(src.Values()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff(src.String(), dst.String()); diff != "" {
		t.Fatalf("round trip mismatch (-src +dst):\n%s", diff)
	}
}
