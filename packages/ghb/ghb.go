// Package ghb builds the options and dimensions blocks of a MODFLOW 6
// general-head boundary package.
package ghb

import (
	"fmt"
	"io"

	mfdata "github.com/goliatone/go-mfdata"
)

// Name is the package type of the bundled definition.
const Name = "gwf-ghb"

// Package wraps a generic package with typed accessors.
type Package struct {
	*mfdata.Package
}

// New builds an empty GHB package. Options are passed to every field.
func New(opts ...mfdata.Option) (*Package, error) {
	pkg, err := mfdata.NewEmbeddedPackage(Name, opts...)
	if err != nil {
		return nil, err
	}
	return &Package{Package: pkg}, nil
}

// Load builds a GHB package and reads it from r.
func Load(r io.Reader, opts ...mfdata.Option) (*Package, error) {
	pkg, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := pkg.Package.Load(r); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (p *Package) scalar(name string) (*mfdata.Scalar, error) {
	s, ok := p.Scalar(name)
	if !ok {
		return nil, fmt.Errorf("ghb: field %q missing from definition", name)
	}
	return s, nil
}

func (p *Package) set(name string, value any) error {
	s, err := p.scalar(name)
	if err != nil {
		return err
	}
	return s.SetData(value)
}

// SetAuxMultName names the auxiliary variable scaling conductance.
func (p *Package) SetAuxMultName(name string) error { return p.set("auxmultname", name) }

// SetBoundNames switches boundary names on or off.
func (p *Package) SetBoundNames(on bool) error { return p.set("boundnames", on) }

// SetPrintInput switches echoing of the boundary list.
func (p *Package) SetPrintInput(on bool) error { return p.set("print_input", on) }

// SetPrintFlows switches printing of boundary flow rates.
func (p *Package) SetPrintFlows(on bool) error { return p.set("print_flows", on) }

// SetSaveFlows switches saving of boundary flows to the budget file.
func (p *Package) SetSaveFlows(on bool) error { return p.set("save_flows", on) }

// SetMover allows the package to be used with the water mover.
func (p *Package) SetMover(on bool) error { return p.set("mover", on) }

// SetTimeSeriesFile sets the TS6 FILEIN record.
func (p *Package) SetTimeSeriesFile(path string) error { return p.set("ts_filerecord", path) }

// SetObservationFile sets the OBS6 FILEIN record.
func (p *Package) SetObservationFile(path string) error { return p.set("obs_filerecord", path) }

// SetMaxBound sets the maximum number of boundary cells.
func (p *Package) SetMaxBound(n int) error {
	if n < 0 {
		return fmt.Errorf("ghb: maxbound must not be negative, found %d", n)
	}
	return p.set("maxbound", n)
}

// MaxBound returns the maximum number of boundary cells, or false when it
// was never set.
func (p *Package) MaxBound() (int, bool) {
	s, err := p.scalar("maxbound")
	if err != nil || !s.HasData() {
		return 0, false
	}
	n, ok := s.Data(false).(int)
	return n, ok
}

// AddBound raises maxbound by one, starting from one when unset.
func (p *Package) AddBound() error {
	s, err := p.scalar("maxbound")
	if err != nil {
		return err
	}
	return s.AddOne()
}

// BoundNames reports whether boundary names are enabled.
func (p *Package) BoundNames() bool {
	s, err := p.scalar("boundnames")
	if err != nil {
		return false
	}
	on, _ := s.Data(false).(bool)
	return on
}
