package structure

import (
	"fmt"
	"strings"
)

// ItemType is the primitive type tag carried by a data item.
type ItemType int

const (
	ItemUnknown ItemType = iota
	ItemKeyword
	ItemInteger
	ItemDouble
	ItemString
	ItemBoolean
	ItemRecord
)

func (t ItemType) String() string {
	switch t {
	case ItemKeyword:
		return "keyword"
	case ItemInteger:
		return "integer"
	case ItemDouble:
		return "double"
	case ItemString:
		return "string"
	case ItemBoolean:
		return "boolean"
	case ItemRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Numeric reports whether values of t are numbers.
func (t ItemType) Numeric() bool {
	return t == ItemInteger || t == ItemDouble
}

// ParseItemType converts a definition type name into an ItemType. Names are
// matched case-insensitively and the aliases used by MODFLOW definition files
// (int, real, double precision) are accepted.
func ParseItemType(value string) (ItemType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "keyword":
		return ItemKeyword, nil
	case "integer", "int":
		return ItemInteger, nil
	case "double", "double precision", "real", "float":
		return ItemDouble, nil
	case "string":
		return ItemString, nil
	case "boolean", "bool":
		return ItemBoolean, nil
	case "record":
		return ItemRecord, nil
	default:
		return ItemUnknown, fmt.Errorf("%w: %q", ErrUnknownType, value)
	}
}

// Kind is the closed set of field shapes a structure can describe.
type Kind int

const (
	KindScalar Kind = iota
	KindKeyword
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindRecord:
		return "record"
	default:
		return "scalar"
	}
}

// DataType is the overall datatype of a field, combining its kind with
// whether it is indexed by stress period.
type DataType int

const (
	DataScalar DataType = iota
	DataScalarKeyword
	DataScalarTransient
	DataScalarKeywordTransient
	DataRecord
)

func (d DataType) String() string {
	switch d {
	case DataScalarKeyword:
		return "scalar_keyword"
	case DataScalarTransient:
		return "scalar_transient"
	case DataScalarKeywordTransient:
		return "scalar_keyword_transient"
	case DataRecord:
		return "record"
	default:
		return "scalar"
	}
}

// KeywordOnly reports whether the presence of the keyword is the whole datum.
func (d DataType) KeywordOnly() bool {
	return d == DataScalarKeyword || d == DataScalarKeywordTransient
}
