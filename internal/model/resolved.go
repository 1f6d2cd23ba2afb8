package model

import "sort"

// ResolvedPart carries the effective value of every field once inheritance
// has been applied. Override fields collapse to their final string.
type ResolvedPart struct {
	UUID string  `json:"uuid" yaml:"uuid"`
	Type string  `json:"type,omitempty" yaml:"type,omitempty"`
	Base *string `json:"base" yaml:"base"`

	MPN          *string `json:"MPN" yaml:"MPN"`
	Manufacturer *string `json:"manufacturer" yaml:"manufacturer"`
	Description  *string `json:"description" yaml:"description"`
	Value        *string `json:"value" yaml:"value"`
	Datasheet    *string `json:"datasheet" yaml:"datasheet"`

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

// NewResolvedPart copies the fields that are never inherited from p.
// Inheritable fields are left for the caller to fill in.
func NewResolvedPart(p *Part) *ResolvedPart {
	return &ResolvedPart{
		UUID:           p.UUID,
		Type:           p.Type,
		Base:           p.Base,
		Parametric:     p.Parametric,
		OrderableMPNs:  p.OrderableMPNs,
		OverridePrefix: p.OverridePrefix,
		InheritTags:    p.InheritTags,
		InheritModel:   p.InheritModel,
		Version:        p.Version,
	}
}

// ResolvedPool maps part uuid to its resolved record.
type ResolvedPool map[string]*ResolvedPart

// Keys returns the pool's uuids in sorted order.
func (p ResolvedPool) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
