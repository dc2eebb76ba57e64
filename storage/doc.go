// Package storage holds the single value slot behind a scalar cell and the
// conversion rules between input tokens, Go values and rendered text.
//
// Conversion is driven by the structure item type:
//
//	integer  -> int
//	double   -> float64 (Fortran D exponents accepted)
//	boolean  -> bool
//	keyword  -> bool (presence)
//	string   -> string
//
// The slot distinguishes "no data" from zero values; Get returns nil when
// nothing has been stored.
package storage
