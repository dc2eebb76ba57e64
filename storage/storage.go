package storage

import (
	"math"

	"github.com/goliatone/go-mfdata/structure"
)

// Option configures a Storage.
type Option func(*Storage)

// WithFloatPrecision sets the number of mantissa digits used when rendering
// doubles. Zero keeps the shortest round-trip form.
func WithFloatPrecision(digits int) Option {
	return func(s *Storage) {
		s.precision = digits
	}
}

// Storage is a single typed value slot.
type Storage struct {
	value     any
	hasData   bool
	factor    float64
	precision int
}

// New constructs an empty slot.
func New(opts ...Option) *Storage {
	s := &Storage{factor: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// HasData reports whether a value has been stored.
func (s *Storage) HasData() bool {
	return s != nil && s.hasData
}

// Get returns the stored value, or nil when the slot is empty. When applyMult
// is set numeric values are scaled by the multiplier.
func (s *Storage) Get(applyMult bool) any {
	if !s.HasData() {
		return nil
	}
	if !applyMult || s.factor == 1 {
		return s.value
	}
	switch v := s.value.(type) {
	case int:
		if s.factor == math.Trunc(s.factor) {
			return v * int(s.factor)
		}
		return float64(v) * s.factor
	case float64:
		return v * s.factor
	default:
		return v
	}
}

// Set replaces the stored value.
func (s *Storage) Set(value any) {
	s.value = value
	s.hasData = value != nil
}

// Clear empties the slot.
func (s *Storage) Clear() {
	s.value = nil
	s.hasData = false
}

// Multiplier returns the factor applied by Get.
func (s *Storage) Multiplier() float64 {
	return s.factor
}

// SetMultiplier sets the factor applied by Get(true).
func (s *Storage) SetMultiplier(factor float64) {
	s.factor = factor
}

// Convert converts raw to typ.
func (s *Storage) Convert(raw any, typ structure.ItemType) (any, error) {
	return Convert(raw, typ)
}

// ToString renders v with the slot's float precision.
func (s *Storage) ToString(v any, typ structure.ItemType, upper bool) string {
	precision := 0
	if s != nil {
		precision = s.precision
	}
	return Format(v, typ, upper, precision)
}
