package storage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/goliatone/go-mfdata/internal/token"
	"github.com/goliatone/go-mfdata/structure"
)

// ErrConversion is the sentinel wrapped by every ConversionError.
var ErrConversion = errors.New("storage: conversion failed")

// The file grammar has no escape, so a string holding both quote
// characters cannot be written back.
var errMixedQuotes = errors.New("string contains both quote characters")

// ConversionError reports a raw value that cannot be held as Type.
type ConversionError struct {
	Raw  any
	Type structure.ItemType
	Err  error
}

func (e *ConversionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("storage: cannot convert %q to %s", describeRaw(e.Raw), e.Type)
	}
	return fmt.Sprintf("storage: cannot convert %q to %s: %v", describeRaw(e.Raw), e.Type, e.Err)
}

func (e *ConversionError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Err}
}

func describeRaw(raw any) string {
	if raw == nil {
		return "<none>"
	}
	return fmt.Sprint(raw)
}

var fortranExponent = strings.NewReplacer("d", "e", "D", "E")

// Convert turns raw into the Go representation of typ.
func Convert(raw any, typ structure.ItemType) (any, error) {
	if raw == nil {
		return nil, &ConversionError{Raw: raw, Type: typ, Err: errors.New("no value")}
	}
	var (
		out any
		err error
	)
	switch typ {
	case structure.ItemInteger:
		out, err = toInt(raw)
	case structure.ItemDouble:
		if s, ok := raw.(string); ok {
			raw = fortranExponent.Replace(strings.TrimSpace(s))
		}
		out, err = cast.ToFloat64E(raw)
	case structure.ItemBoolean:
		out, err = cast.ToBoolE(raw)
	case structure.ItemKeyword:
		out, err = toKeyword(raw)
	case structure.ItemString:
		var text string
		text, err = cast.ToStringE(raw)
		if err == nil && strings.ContainsRune(text, '\'') && strings.ContainsRune(text, '"') {
			err = errMixedQuotes
		}
		out = text
	default:
		err = fmt.Errorf("unsupported type %s", typ)
	}
	if err != nil {
		return nil, &ConversionError{Raw: raw, Type: typ, Err: err}
	}
	return out, nil
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not integral", v)
		}
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, fmt.Errorf("%v is not integral", v)
		}
	case bool:
		return 0, fmt.Errorf("boolean is not an integer")
	}
	return cast.ToIntE(raw)
}

// A keyword token, or any boolean, is accepted. Presence is the datum.
func toKeyword(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return true, nil
	default:
		return cast.ToBoolE(raw)
	}
}

// Format renders v as typ. precision <= 0 selects the shortest representation
// that parses back to the same float64.
func Format(v any, typ structure.ItemType, upper bool, precision int) string {
	var text string
	switch typ {
	case structure.ItemInteger:
		text = strconv.Itoa(cast.ToInt(v))
	case structure.ItemDouble:
		f := cast.ToFloat64(v)
		if precision > 0 {
			text = strconv.FormatFloat(f, 'E', precision, 64)
		} else {
			text = strconv.FormatFloat(f, 'G', -1, 64)
		}
	case structure.ItemBoolean:
		text = strconv.FormatBool(cast.ToBool(v))
	case structure.ItemKeyword:
		return ""
	default:
		text = quote(cast.ToString(v))
	}
	if upper {
		return strings.ToUpper(text)
	}
	return text
}

func quote(s string) string {
	if !token.NeedsQuotes(s) {
		return s
	}
	if strings.Contains(s, "'") {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}
