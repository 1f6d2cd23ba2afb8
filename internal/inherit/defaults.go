package inherit

import (
	"github.com/StinkyLord/horizon-pool/internal/clone"
	"github.com/StinkyLord/horizon-pool/internal/model"
)

// Defaults holds the value assigned to each covered field when a part file
// omits it. Fields with no entry here stay absent.
type Defaults struct {
	Parametric     map[string]string
	Tags           []string
	Flags          model.Flags
	OrderableMPNs  map[string]string
	OverridePrefix model.OverridePrefix
	Version        float64
}

// DefaultValues returns the defaults Horizon assumes for a part.
func DefaultValues() Defaults {
	return Defaults{
		Parametric: map[string]string{},
		Tags:       []string{},
		Flags: model.Flags{
			model.FlagBasePart:   model.FlagClear,
			model.FlagExcludeBOM: model.FlagClear,
			model.FlagExcludePnP: model.FlagClear,
		},
		OrderableMPNs:  map[string]string{},
		OverridePrefix: model.PrefixNone,
		Version:        0.0,
	}
}

// FillDefaults assigns a private copy of each default to every part where
// the corresponding field is absent.
func FillDefaults(pool model.Pool, d Defaults) {
	for _, p := range pool {
		if p.Parametric == nil {
			p.Parametric = clone.Of(d.Parametric)
		}
		if p.Tags == nil {
			p.Tags = clone.Of(d.Tags)
		}
		if p.Flags == nil {
			p.Flags = clone.Of(d.Flags)
		}
		if p.OrderableMPNs == nil {
			p.OrderableMPNs = clone.Of(d.OrderableMPNs)
		}
		if p.OverridePrefix == "" {
			p.OverridePrefix = d.OverridePrefix
		}
		if p.Version == nil {
			v := d.Version
			p.Version = &v
		}
	}
}
