package inherit

import (
	"fmt"

	"github.com/StinkyLord/horizon-pool/internal/model"
)

// PolicyKind selects how a field group merges a part's local value with the
// value of its base.
type PolicyKind uint8

const (
	// OverridePolicy uses the local half of an override pair unless its
	// flag asks for the base value.
	OverridePolicy PolicyKind = iota + 1
	// BasePresencePolicy always inherits when the part has a base.
	BasePresencePolicy
	// InheritModelPolicy inherits unless inherit_model is false.
	InheritModelPolicy
	// PrefixPolicy follows override_prefix: yes keeps the local prefix,
	// inherit takes the base prefix, anything else clears it on parts that
	// have a base.
	PrefixPolicy
	// AdditivePolicy appends the local tags to the base tags unless
	// inherit_tags is false.
	AdditivePolicy
	// PerKeyPolicy replaces each "inherit" entry with the base entry.
	PerKeyPolicy
)

func (k PolicyKind) String() string {
	switch k {
	case OverridePolicy:
		return "override"
	case BasePresencePolicy:
		return "base-presence"
	case InheritModelPolicy:
		return "inherit-model"
	case PrefixPolicy:
		return "prefix"
	case AdditivePolicy:
		return "additive"
	case PerKeyPolicy:
		return "per-key"
	default:
		return fmt.Sprintf("policy(%d)", uint8(k))
	}
}

// Policy binds a merge rule to the fields that share it.
type Policy struct {
	Kind   PolicyKind
	Fields []model.Field
	// SkipAbsent leaves a field alone when the part does not carry it.
	SkipAbsent bool
}

// Policies is the fixed resolution table, in the order fields are resolved.
var Policies = []Policy{
	{
		Kind: OverridePolicy,
		Fields: []model.Field{
			model.FieldMPN,
			model.FieldDatasheet,
			model.FieldDescription,
			model.FieldManufacturer,
			model.FieldValue,
		},
		SkipAbsent: true,
	},
	{
		Kind:   BasePresencePolicy,
		Fields: []model.Field{model.FieldEntity, model.FieldPackage, model.FieldPadMap},
	},
	{Kind: InheritModelPolicy, Fields: []model.Field{model.FieldModel}},
	{Kind: PrefixPolicy, Fields: []model.Field{model.FieldPrefix}},
	{Kind: AdditivePolicy, Fields: []model.Field{model.FieldTags}},
	{Kind: PerKeyPolicy, Fields: []model.Field{model.FieldFlags}, SkipAbsent: true},
}

// lookupFunc fetches the resolved value of field from part's base, or
// returns fallback when the base cannot be used.
type lookupFunc func(part *model.Part, field model.Field, fallback any) (any, error)

func (p Policy) apply(field model.Field, part *model.Part, base lookupFunc) (any, error) {
	switch p.Kind {
	case OverridePolicy:
		o := part.Override(field)
		if o == nil {
			return nil, nil
		}
		if !o.Inherit {
			v := o.Value
			return &v, nil
		}
		return base(part, field, nil)

	case BasePresencePolicy:
		if part.Base == nil {
			return part.Local(field), nil
		}
		return base(part, field, nil)

	case InheritModelPolicy:
		if part.InheritModel != nil && !*part.InheritModel {
			return part.Local(field), nil
		}
		return base(part, field, nil)

	case PrefixPolicy:
		switch part.OverridePrefix {
		case model.PrefixOwn:
			return part.Prefix, nil
		case model.PrefixInherit:
			return base(part, field, nil)
		}
		// A root part has nothing to override, so its stored prefix stands.
		if part.Base == nil {
			return part.Prefix, nil
		}
		return nil, nil

	case AdditivePolicy:
		return additive(field, part, base)

	case PerKeyPolicy:
		return perKey(field, part, base)
	}
	return nil, fmt.Errorf("inherit: no rule for %s on field %s", p.Kind, field)
}

func additive(field model.Field, part *model.Part, base lookupFunc) (any, error) {
	local, err := as[[]string](field, part.Local(field))
	if err != nil {
		return nil, err
	}
	if part.InheritTags != nil && !*part.InheritTags {
		if local == nil {
			local = []string{}
		}
		return local, nil
	}

	v, err := base(part, field, []string{})
	if err != nil {
		return nil, err
	}
	inherited, err := as[[]string](field, v)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(inherited)+len(local))
	out = append(out, inherited...)
	out = append(out, local...)
	return out, nil
}

func perKey(field model.Field, part *model.Part, base lookupFunc) (any, error) {
	local, err := as[model.Flags](field, part.Local(field))
	if err != nil {
		return nil, err
	}
	if local == nil {
		return nil, nil
	}

	var (
		inherited model.Flags
		looked    bool
	)
	out := make(model.Flags, len(local))
	for key, state := range local {
		if state != model.FlagInherit {
			out[key] = state
			continue
		}
		if !looked {
			v, err := base(part, field, nil)
			if err != nil {
				return nil, err
			}
			if inherited, err = as[model.Flags](field, v); err != nil {
				return nil, err
			}
			looked = true
		}
		if s, ok := inherited[key]; ok {
			out[key] = s
		} else {
			out[key] = model.FlagClear
		}
	}
	return out, nil
}

func as[T any](field model.Field, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, &ShapeError{Field: field, Got: fmt.Sprintf("%T", v)}
	}
	return t, nil
}
