// Package inherit resolves base-part inheritance across a pool so that every
// part carries the effective value of each field.
//
// A pass fills defaults, binds one Lazy per (part, field) pair covered by
// Policies, then forces every Lazy in uuid order. Forcing a field pulls in
// only the base fields it actually needs; each is computed once.
package inherit

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/StinkyLord/horizon-pool/internal/clone"
	"github.com/StinkyLord/horizon-pool/internal/model"
)

// Resolver runs inheritance passes. It keeps no state between calls and is
// safe for concurrent use.
type Resolver struct {
	logger       zerolog.Logger
	defaults     Defaults
	fillDefaults bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger that receives base reference warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithDefaults replaces the default value table.
func WithDefaults(d Defaults) Option {
	return func(r *Resolver) {
		r.defaults = d
	}
}

// WithoutDefaults skips default filling; absent fields are resolved as they are.
func WithoutDefaults() Option {
	return func(r *Resolver) {
		r.fillDefaults = false
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		logger:       zerolog.Nop(),
		defaults:     DefaultValues(),
		fillDefaults: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Result is the outcome of one pass.
type Result struct {
	Parts       model.ResolvedPool
	Diagnostics []Diagnostic
}

// Resolve resolves pool with a default Resolver.
func Resolve(pool model.Pool) (*Result, error) {
	return New().Resolve(pool)
}

// Prepare returns a private copy of pool with defaults applied (unless
// disabled). Parts without a UUID take their pool key.
func (r *Resolver) Prepare(pool model.Pool) model.Pool {
	prepared := clone.Of(pool)
	if prepared == nil {
		prepared = model.Pool{}
	}
	for id, p := range prepared {
		if p == nil {
			delete(prepared, id)
			continue
		}
		if p.UUID == "" {
			p.UUID = id
		}
	}
	if r.fillDefaults {
		FillDefaults(prepared, r.defaults)
	}
	return prepared
}

// Resolve returns the fully materialised form of pool. pool itself is not
// modified. Missing or unknown base references are reported as diagnostics;
// cycles and malformed values abort the pass.
func (r *Resolver) Resolve(pool model.Pool) (*Result, error) {
	ps := &pass{
		logger: r.logger,
		pool:   r.Prepare(pool),
		cells:  map[slot]*Lazy[any]{},
	}
	ps.bind()

	parts, err := ps.materialize()
	if err != nil {
		return nil, err
	}
	return &Result{Parts: parts, Diagnostics: ps.diags}, nil
}

// slot addresses one field of one part.
type slot struct {
	uuid  string
	field model.Field
}

type pass struct {
	logger zerolog.Logger
	pool   model.Pool
	cells  map[slot]*Lazy[any]
	stack  []slot
	diags  []Diagnostic
}

func (ps *pass) bind() {
	for _, id := range ps.pool.Keys() {
		part := ps.pool[id]
		for _, policy := range Policies {
			policy := policy
			for _, field := range policy.Fields {
				field := field
				if policy.SkipAbsent && !part.Has(field) {
					continue
				}
				ps.cells[slot{uuid: id, field: field}] = NewLazy(func(p *model.Part) (any, error) {
					return policy.apply(field, p, ps.lookup)
				}, part)
			}
		}
	}
}

// force returns the resolved value at s. Slots without a cell hold an absent
// value.
func (ps *pass) force(s slot) (any, error) {
	cell, ok := ps.cells[s]
	if !ok {
		return nil, nil
	}
	if cell.State() == Resolving {
		return nil, ps.cycle(s)
	}

	ps.stack = append(ps.stack, s)
	v, err := cell.Value()
	ps.stack = ps.stack[:len(ps.stack)-1]
	return v, err
}

func (ps *pass) cycle(s slot) error {
	start := 0
	for i, e := range ps.stack {
		if e == s {
			start = i
			break
		}
	}
	chain := make([]string, 0, len(ps.stack)-start+1)
	for _, e := range ps.stack[start:] {
		chain = append(chain, e.uuid)
	}
	chain = append(chain, s.uuid)
	return &CycleError{Field: s.field, Chain: chain}
}

// lookup is the only path by which a value crosses from one part to another.
func (ps *pass) lookup(part *model.Part, field model.Field, fallback any) (any, error) {
	if part.Base == nil {
		ps.warn(part, field, ReasonMissingBase)
		return fallback, nil
	}
	base := *part.Base
	if _, ok := ps.pool[base]; !ok {
		ps.warn(part, field, ReasonUnknownBase)
		return fallback, nil
	}
	return ps.force(slot{uuid: base, field: field})
}

func (ps *pass) warn(part *model.Part, field model.Field, reason Reason) {
	d := Diagnostic{UUID: part.UUID, Field: field, Reason: reason}
	if part.Base != nil {
		d.Base = *part.Base
	}
	ps.diags = append(ps.diags, d)
	ps.logger.Warn().
		Str("uuid", d.UUID).
		Str("base", d.Base).
		Str("field", string(field)).
		Str("reason", string(reason)).
		Msg("part has invalid base attribute, or referenced base part does not exist in the pool")
}

func (ps *pass) materialize() (model.ResolvedPool, error) {
	out := make(model.ResolvedPool, len(ps.pool))
	for _, id := range ps.pool.Keys() {
		rp := model.NewResolvedPart(ps.pool[id])
		for _, policy := range Policies {
			for _, field := range policy.Fields {
				v, err := ps.force(slot{uuid: id, field: field})
				if err != nil {
					return nil, fmt.Errorf("resolve %s %s: %w", id, field, err)
				}
				if err := assign(rp, field, v); err != nil {
					return nil, fmt.Errorf("resolve %s: %w", id, err)
				}
			}
		}
		out[id] = rp
	}
	return out, nil
}

func assign(rp *model.ResolvedPart, field model.Field, v any) error {
	var err error
	switch field {
	case model.FieldMPN:
		rp.MPN, err = as[*string](field, v)
	case model.FieldManufacturer:
		rp.Manufacturer, err = as[*string](field, v)
	case model.FieldDescription:
		rp.Description, err = as[*string](field, v)
	case model.FieldValue:
		rp.Value, err = as[*string](field, v)
	case model.FieldDatasheet:
		rp.Datasheet, err = as[*string](field, v)
	case model.FieldEntity:
		rp.Entity, err = as[*string](field, v)
	case model.FieldPackage:
		rp.Package, err = as[*string](field, v)
	case model.FieldPadMap:
		rp.PadMap, err = as[model.PadMap](field, v)
	case model.FieldModel:
		rp.Model, err = as[*string](field, v)
	case model.FieldPrefix:
		rp.Prefix, err = as[*string](field, v)
	case model.FieldTags:
		rp.Tags, err = as[[]string](field, v)
	case model.FieldFlags:
		rp.Flags, err = as[model.Flags](field, v)
	default:
		err = fmt.Errorf("inherit: no resolved slot for field %s", field)
	}
	return err
}
