// Package pcgn writes the input file of the PCGN (preconditioned conjugate
// gradient, nonlinear) solver. The file is a heading line followed by four
// fixed-width records.
package pcgn

import (
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-mfdata/internal/fixedfmt"
	"github.com/goliatone/go-mfdata/internal/hydrate"
	"github.com/goliatone/go-mfdata/layering"
)

// Heading is the first line of every written file.
const Heading = "# PCGN for MODFLOW, generated by go-mfdata."

// ErrInvalidFill marks an ifill value other than 0 or 1.
var ErrInvalidFill = errors.New("pcgn: ifill must be 0 or 1")

// Settings holds the solver variables. Nil fields are unset and take their
// value from Defaults when resolved.
type Settings struct {
	IterMO     *int     `json:"iter_mo,omitempty"`
	IterMI     *int     `json:"iter_mi,omitempty"`
	CloseH     *float64 `json:"close_h,omitempty"`
	CloseR     *float64 `json:"close_r,omitempty"`
	Relax      *float64 `json:"relax,omitempty"`
	IFill      *int     `json:"ifill,omitempty"`
	UnitPC     *int     `json:"unit_pc,omitempty"`
	UnitTS     *int     `json:"unit_ts,omitempty"`
	ADamp      *int     `json:"adamp,omitempty"`
	Damp       *float64 `json:"damp,omitempty"`
	DampLB     *float64 `json:"damp_lb,omitempty"`
	RateD      *float64 `json:"rate_d,omitempty"`
	ChgLimit   *float64 `json:"chglimit,omitempty"`
	ACnvg      *int     `json:"acnvg,omitempty"`
	CnvgLB     *float64 `json:"cnvg_lb,omitempty"`
	MCnvg      *int     `json:"mcnvg,omitempty"`
	RateC      *float64 `json:"rate_c,omitempty"`
	IPUnit     *int     `json:"ipunit,omitempty"`
	UnitNumber *int     `json:"unit_number,omitempty"`
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

// Defaults returns a fully populated settings value.
func Defaults() Settings {
	return Settings{
		IterMO:     intp(50),
		IterMI:     intp(30),
		CloseH:     floatp(1e-5),
		CloseR:     floatp(1e-5),
		Relax:      floatp(1.0),
		IFill:      intp(0),
		UnitPC:     intp(0),
		UnitTS:     intp(0),
		ADamp:      intp(0),
		Damp:       floatp(1.0),
		DampLB:     floatp(0.001),
		RateD:      floatp(0.1),
		ChgLimit:   floatp(0),
		ACnvg:      intp(0),
		CnvgLB:     floatp(0.001),
		MCnvg:      intp(2),
		RateC:      floatp(-1.0),
		IPUnit:     intp(0),
		UnitNumber: intp(27),
	}
}

// Resolve overlays the given layers, strongest first, onto Defaults and
// validates the result.
func Resolve(layers ...Settings) (Settings, error) {
	merged := layering.MergeLayers(append(append([]Settings(nil), layers...), Defaults())...)
	if err := merged.Validate(); err != nil {
		return Settings{}, err
	}
	return merged, nil
}

// Validate checks the settings. Unset fields are not checked.
func (s Settings) Validate() error {
	if s.IFill != nil && *s.IFill != 0 && *s.IFill != 1 {
		return fmt.Errorf("%w, found %d", ErrInvalidFill, *s.IFill)
	}
	return nil
}

// Unit is an extra file written alongside the solver input.
type Unit struct {
	Extension string
	Number    int
}

// Units lists the optional output files switched on by a positive unit
// number, in pcgni, pcgnt, pcgno order.
func (s Settings) Units() []Unit {
	candidates := []struct {
		ext string
		n   *int
	}{
		{"pcgni", s.UnitPC},
		{"pcgnt", s.UnitTS},
		{"pcgno", s.IPUnit},
	}
	var units []Unit
	for _, c := range candidates {
		if c.n != nil && *c.n > 0 {
			units = append(units, Unit{Extension: c.ext, Number: *c.n})
		}
	}
	return units
}

// Write renders the solver file. The settings are resolved against
// Defaults first, so partially filled values are accepted.
func (s Settings) Write(w io.Writer) error {
	r, err := Resolve(s)
	if err != nil {
		return err
	}
	records := []*fixedfmt.Line{
		fixedfmt.NewLine().Int(*r.IterMO).Int(*r.IterMI).Float(*r.CloseR).Float(*r.CloseH),
		fixedfmt.NewLine().Float(*r.Relax).Int(*r.IFill).Int(*r.UnitPC).Int(*r.UnitTS),
		fixedfmt.NewLine().Int(*r.ADamp).Float(*r.Damp).Float(*r.DampLB).Float(*r.RateD).Float(*r.ChgLimit),
		fixedfmt.NewLine().Int(*r.ACnvg).Float(*r.CnvgLB).Int(*r.MCnvg).Float(*r.RateC).Int(*r.IPUnit),
	}
	if _, err := io.WriteString(w, Heading+"\n"); err != nil {
		return err
	}
	for _, record := range records {
		if _, err := record.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads settings from a YAML or JSON document. Keys are matched
// case-insensitively and unknown keys are rejected.
func Decode(data []byte) (Settings, error) {
	return decoder().DecodeBytes(hydrate.Context{Package: "pcgn"}, data)
}

// DecodeFile reads settings from path.
func DecodeFile(path string) (Settings, error) {
	return decoder().DecodeFile(hydrate.Context{Package: "pcgn"}, path)
}

func decoder() *hydrate.Decoder[Settings] {
	return hydrate.NewDecoder(
		hydrate.WithPreHook[Settings](hydrate.LowerKeys),
		hydrate.WithDisallowUnknownFields[Settings](),
		hydrate.WithPostHook[Settings](func(_ hydrate.Context, s *Settings) error {
			return s.Validate()
		}),
	)
}
