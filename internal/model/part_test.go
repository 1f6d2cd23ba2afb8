package model

import (
	"encoding/json"
	"errors"
	"testing"
)

const resistorJSON = `{
  "type": "part",
  "uuid": "4f6a1c54-2a8b-4d36-9f0e-9a1f3e3c5b10",
  "base": "0a3d5e3c-77b2-4c0e-8d43-2f2b9f3c4d11",
  "MPN": [true, ""],
  "manufacturer": [false, "Yageo"],
  "pad_map": {"p1": {"gate": "g1", "pin": "pin1"}},
  "tags": ["resistor", "0603"],
  "inherit_tags": true,
  "flags": {"exclude_bom": "inherit"},
  "override_prefix": "inherit",
  "version": 1
}`

func TestPartUnmarshal(t *testing.T) {
	var p Part
	if err := json.Unmarshal([]byte(resistorJSON), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if p.Base == nil || *p.Base != "0a3d5e3c-77b2-4c0e-8d43-2f2b9f3c4d11" {
		t.Errorf("base = %v", p.Base)
	}
	if p.MPN == nil || !p.MPN.Inherit {
		t.Errorf("MPN = %+v, want inherit flag", p.MPN)
	}
	if p.Manufacturer == nil || p.Manufacturer.Inherit || p.Manufacturer.Value != "Yageo" {
		t.Errorf("manufacturer = %+v", p.Manufacturer)
	}
	if p.PadMap["p1"].Pin != "pin1" {
		t.Errorf("pad_map = %v", p.PadMap)
	}
	if p.Flags[FlagExcludeBOM] != FlagInherit {
		t.Errorf("flags = %v", p.Flags)
	}
	if p.OverridePrefix != PrefixInherit {
		t.Errorf("override_prefix = %q", p.OverridePrefix)
	}
	if p.Version == nil || *p.Version != 1 {
		t.Errorf("version = %v", p.Version)
	}

	for _, f := range []Field{FieldDescription, FieldValue, FieldDatasheet, FieldEntity, FieldPackage, FieldModel, FieldPrefix} {
		if p.Has(f) {
			t.Errorf("Has(%s) = true for a field the file omits", f)
		}
	}
	for _, f := range []Field{FieldMPN, FieldManufacturer, FieldPadMap, FieldTags, FieldFlags} {
		if !p.Has(f) {
			t.Errorf("Has(%s) = false", f)
		}
	}
	if p.Parametric != nil || p.InheritModel != nil {
		t.Error("absent fields should stay nil")
	}
}

func TestOverrideMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not an array", raw: `"RC0603"`},
		{name: "one element", raw: `[false]`},
		{name: "three elements", raw: `[false, "a", "b"]`},
		{name: "flag not bool", raw: `["no", "a"]`},
		{name: "value not string", raw: `[false, 3]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var o Override
			err := json.Unmarshal([]byte(tc.raw), &o)
			if !errors.Is(err, ErrMalformedOverride) {
				t.Errorf("err = %v, want ErrMalformedOverride", err)
			}
		})
	}
}

func TestOverrideMarshal(t *testing.T) {
	data, err := json.Marshal(Override{Inherit: false, Value: "10k"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `[false,"10k"]` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestPoolKeysSorted(t *testing.T) {
	pool := Pool{"c": {}, "a": {}, "b": {}}
	keys := pool.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Keys = %v", keys)
	}
}
