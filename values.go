package mfdata

import (
	"fmt"
	"sort"

	"github.com/spf13/cast"
)

// Values holds field values by block name. A plain block maps field names
// to values. A transient block maps one-based period numbers to such a
// field map.
type Values map[string]any

// Apply stores every value in values. Blocks are applied in name order and
// periods in ascending order. The first failure stops the walk.
func (p *Package) Apply(values Values) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		block, ok := p.Block(name)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownBlock, name)
		}
		raw, err := cast.ToStringMapE(values[name])
		if err != nil {
			return fmt.Errorf("mfdata: block %q: %w", name, err)
		}
		if !block.transient {
			if err := block.apply(0, raw); err != nil {
				return err
			}
			continue
		}
		periods := make(map[int]map[string]any, len(raw))
		for text, fields := range raw {
			n, err := cast.ToIntE(text)
			if err != nil || n < 1 {
				return fmt.Errorf("mfdata: block %q: invalid period %q", name, text)
			}
			m, err := cast.ToStringMapE(fields)
			if err != nil {
				return fmt.Errorf("mfdata: block %q period %d: %w", name, n, err)
			}
			periods[n-1] = m
		}
		keys := make([]int, 0, len(periods))
		for key := range periods {
			keys = append(keys, key)
		}
		sort.Ints(keys)
		for _, key := range keys {
			if err := block.apply(key, periods[key]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Block) apply(key int, fields map[string]any) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		field, ok := b.Field(name)
		if !ok {
			return fmt.Errorf("%w %q in block %q", ErrUnknownField, name, b.name)
		}
		var err error
		switch cell := field.(type) {
		case *Scalar:
			err = cell.SetData(fields[name])
		case *ScalarTransient:
			err = cell.SetData(key, fields[name])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Values exports the package as Values, the inverse of Apply. Fields
// without data are left out.
func (p *Package) Values() Values {
	out := Values{}
	for _, b := range p.blocks {
		if !b.transient {
			fields := map[string]any{}
			for _, field := range b.fields {
				if s, ok := field.(*Scalar); ok && s.HasData() {
					fields[SnapshotName(s.Structure().Name)] = s.Data(false)
				}
			}
			if len(fields) > 0 {
				out[b.name] = fields
			}
			continue
		}
		periods := map[string]any{}
		for _, key := range b.Keys() {
			fields := map[string]any{}
			for _, field := range b.fields {
				if ts, ok := field.(*ScalarTransient); ok && ts.HasDataAt(key) {
					fields[SnapshotName(ts.Structure().Name)] = ts.Data(key)
				}
			}
			if len(fields) > 0 {
				periods[fmt.Sprint(key+1)] = fields
			}
		}
		if len(periods) > 0 {
			out[b.name] = periods
		}
	}
	return out
}
