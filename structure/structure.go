package structure

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownType indicates a definition used a type name that is not recognised.
	ErrUnknownType = errors.New("structure: unknown item type")
	// ErrInvalidDefinition indicates a structurally invalid field definition.
	ErrInvalidDefinition = errors.New("structure: invalid definition")
)

// DataItem describes one sub-item of a field.
type DataItem struct {
	Name     string
	Type     ItemType
	Optional bool
	// UCase forces the item to be rendered in upper case.
	UCase bool
}

// Structure is the read-only schema node describing a single field.
type Structure struct {
	Name        string
	Block       string
	Kind        Kind
	Items       []DataItem
	Transient   bool
	Description string
}

// NewScalar builds a single-item structure for a scalar field.
func NewScalar(block, name string, typ ItemType) *Structure {
	kind := KindScalar
	if typ == ItemKeyword {
		kind = KindKeyword
	}
	return &Structure{
		Name:  name,
		Block: block,
		Kind:  kind,
		Items: []DataItem{{Name: name, Type: typ}},
	}
}

// NewRecord builds a record structure from its ordered sub-items.
func NewRecord(block, name string, items ...DataItem) *Structure {
	return &Structure{
		Name:  name,
		Block: block,
		Kind:  KindRecord,
		Items: append([]DataItem(nil), items...),
	}
}

// AsTransient returns a copy of s indexed by stress period.
func (s *Structure) AsTransient() *Structure {
	clone := s.Clone()
	clone.Transient = true
	return clone
}

// Clone returns a deep copy of s.
func (s *Structure) Clone() *Structure {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Items = append([]DataItem(nil), s.Items...)
	return &clone
}

// Path returns the block qualified name used for registry lookups.
func (s *Structure) Path() string {
	return strings.ToLower(s.Block + "/" + s.Name)
}

// DataType combines the structure kind and transient flag.
func (s *Structure) DataType() DataType {
	switch s.Kind {
	case KindRecord:
		return DataRecord
	case KindKeyword:
		if s.Transient {
			return DataScalarKeywordTransient
		}
		return DataScalarKeyword
	default:
		if s.Transient {
			return DataScalarTransient
		}
		return DataScalar
	}
}

// DatumType is the type of the value a scalar cell holds. Records report the
// type of their first non-keyword item.
func (s *Structure) DatumType() ItemType {
	if len(s.Items) == 0 {
		return ItemUnknown
	}
	if s.Kind == KindRecord {
		if idx := s.DataIndex(); idx >= 0 {
			return s.Items[idx].Type
		}
		return ItemKeyword
	}
	return s.Items[0].Type
}

// DataIndex returns the index of the first item that is not a mandatory
// keyword, or -1 when every item is one.
func (s *Structure) DataIndex() int {
	for i, item := range s.Items {
		if item.Type != ItemKeyword || (i > 0 && item.Optional) {
			return i
		}
	}
	return -1
}

// ItemTypes lists the item types in schema order.
func (s *Structure) ItemTypes() []ItemType {
	types := make([]ItemType, len(s.Items))
	for i, item := range s.Items {
		types[i] = item.Type
	}
	return types
}

// Keyword is the token that must lead a line holding this field.
func (s *Structure) Keyword() string {
	if s.Kind == KindRecord && len(s.Items) > 0 && s.Items[0].Type == ItemKeyword {
		return strings.ToUpper(s.Items[0].Name)
	}
	return strings.ToUpper(s.Name)
}

// Validate checks the structure is usable by a scalar cell.
func (s *Structure) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil structure", ErrInvalidDefinition)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: field name is required", ErrInvalidDefinition)
	}
	if len(s.Items) == 0 {
		return fmt.Errorf("%w: %s has no data items", ErrInvalidDefinition, s.Name)
	}
	for _, item := range s.Items {
		if item.Type == ItemUnknown || item.Type == ItemRecord {
			return fmt.Errorf("%w: %s item %q has type %s", ErrInvalidDefinition, s.Name, item.Name, item.Type)
		}
	}
	if s.Kind == KindRecord && s.DataIndex() < 0 {
		return fmt.Errorf("%w: record %s has no data item", ErrInvalidDefinition, s.Name)
	}
	return nil
}
