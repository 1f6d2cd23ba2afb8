// Package model defines the part records read from a Horizon pool and the
// fully resolved form produced by the inheritance pass.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Field names an inheritable part attribute. The string value is the key used
// in part files.
type Field string

const (
	FieldMPN          Field = "MPN"
	FieldDatasheet    Field = "datasheet"
	FieldDescription  Field = "description"
	FieldManufacturer Field = "manufacturer"
	FieldValue        Field = "value"
	FieldEntity       Field = "entity"
	FieldPackage      Field = "package"
	FieldPadMap       Field = "pad_map"
	FieldModel        Field = "model"
	FieldPrefix       Field = "prefix"
	FieldTags         Field = "tags"
	FieldFlags        Field = "flags"
)

// OverridePrefix controls where a part's prefix comes from.
type OverridePrefix string

const (
	PrefixOwn     OverridePrefix = "yes"
	PrefixInherit OverridePrefix = "inherit"
	PrefixNone    OverridePrefix = "no"
)

// FlagState is the value of a single entry in a part's flags map.
type FlagState string

const (
	FlagSet     FlagState = "set"
	FlagClear   FlagState = "clear"
	FlagInherit FlagState = "inherit"
)

// Well-known flag keys.
const (
	FlagBasePart   = "base_part"
	FlagExcludeBOM = "exclude_bom"
	FlagExcludePnP = "exclude_pnp"
)

// Flags maps a flag key to its state.
type Flags map[string]FlagState

// ErrMalformedOverride is returned when an override field is not a
// two element [bool, string] array.
var ErrMalformedOverride = errors.New("override field must be a [bool, string] pair")

// Override is a locally stored value together with the leading flag of the
// pair. When Inherit is true the value comes from the base part and Value is
// ignored.
type Override struct {
	Inherit bool
	Value   string
}

// UnmarshalJSON decodes the [inherit, value] pair stored in part files.
func (o *Override) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOverride, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: got %d elements", ErrMalformedOverride, len(pair))
	}
	if err := json.Unmarshal(pair[0], &o.Inherit); err != nil {
		return fmt.Errorf("%w: flag: %v", ErrMalformedOverride, err)
	}
	if err := json.Unmarshal(pair[1], &o.Value); err != nil {
		return fmt.Errorf("%w: value: %v", ErrMalformedOverride, err)
	}
	return nil
}

// MarshalJSON writes the pair back in file form.
func (o Override) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.Inherit, o.Value})
}

// MarshalYAML writes the pair as a two element sequence.
func (o Override) MarshalYAML() (any, error) {
	return []any{o.Inherit, o.Value}, nil
}

// PadMapEntry connects a package pad to a gate pin of the entity.
type PadMapEntry struct {
	Gate string `json:"gate" yaml:"gate"`
	Pin  string `json:"pin" yaml:"pin"`
}

// PadMap is keyed by pad uuid.
type PadMap map[string]PadMapEntry

// Part is a record as read from a part file. Pointer, map and slice fields
// are nil when the file does not carry them.
type Part struct {
	UUID string  `json:"uuid" yaml:"uuid"`
	Type string  `json:"type,omitempty" yaml:"type,omitempty"`
	Base *string `json:"base" yaml:"base"`

	MPN          *Override `json:"MPN" yaml:"MPN"`
	Manufacturer *Override `json:"manufacturer" yaml:"manufacturer"`
	Description  *Override `json:"description" yaml:"description"`
	Value        *Override `json:"value" yaml:"value"`
	Datasheet    *Override `json:"datasheet" yaml:"datasheet"`

	Entity  *string `json:"entity" yaml:"entity"`
	Package *string `json:"package" yaml:"package"`
	PadMap  PadMap  `json:"pad_map" yaml:"pad_map"`
	Model   *string `json:"model" yaml:"model"`
	Prefix  *string `json:"prefix" yaml:"prefix"`

	Tags  []string `json:"tags" yaml:"tags"`
	Flags Flags    `json:"flags" yaml:"flags"`

	Parametric    map[string]string `json:"parametric" yaml:"parametric"`
	OrderableMPNs map[string]string `json:"orderable_MPNs" yaml:"orderable_MPNs"`

	OverridePrefix OverridePrefix `json:"override_prefix,omitempty" yaml:"override_prefix,omitempty"`
	InheritTags    *bool          `json:"inherit_tags" yaml:"inherit_tags"`
	InheritModel   *bool          `json:"inherit_model" yaml:"inherit_model"`
	Version        *float64       `json:"version" yaml:"version"`
}

// Override returns the override pair stored for one of the override fields,
// or nil for any other field.
func (p *Part) Override(f Field) *Override {
	switch f {
	case FieldMPN:
		return p.MPN
	case FieldManufacturer:
		return p.Manufacturer
	case FieldDescription:
		return p.Description
	case FieldValue:
		return p.Value
	case FieldDatasheet:
		return p.Datasheet
	}
	return nil
}

// Local returns the value stored in the part for f, in the shape the
// resolved field takes: *string for scalar fields, PadMap, []string, Flags.
// Override fields return the pair itself.
func (p *Part) Local(f Field) any {
	switch f {
	case FieldMPN, FieldManufacturer, FieldDescription, FieldValue, FieldDatasheet:
		return p.Override(f)
	case FieldEntity:
		return p.Entity
	case FieldPackage:
		return p.Package
	case FieldPadMap:
		return p.PadMap
	case FieldModel:
		return p.Model
	case FieldPrefix:
		return p.Prefix
	case FieldTags:
		return p.Tags
	case FieldFlags:
		return p.Flags
	}
	return nil
}

// Has reports whether the part file carries a value for f.
func (p *Part) Has(f Field) bool {
	switch f {
	case FieldMPN, FieldManufacturer, FieldDescription, FieldValue, FieldDatasheet:
		return p.Override(f) != nil
	case FieldEntity:
		return p.Entity != nil
	case FieldPackage:
		return p.Package != nil
	case FieldPadMap:
		return p.PadMap != nil
	case FieldModel:
		return p.Model != nil
	case FieldPrefix:
		return p.Prefix != nil
	case FieldTags:
		return p.Tags != nil
	case FieldFlags:
		return p.Flags != nil
	}
	return false
}

// Pool maps part uuid to the part read from disk.
type Pool map[string]*Part

// Keys returns the pool's uuids in sorted order.
func (p Pool) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
