package inherit

import (
	"testing"

	"github.com/StinkyLord/horizon-pool/internal/model"
)

func TestFillDefaultsCopiesPerPart(t *testing.T) {
	pool := model.Pool{"a": {}, "b": {}}

	FillDefaults(pool, DefaultValues())

	pool["a"].Flags[model.FlagBasePart] = model.FlagSet
	pool["a"].Parametric["table"] = "resistors"

	if got := pool["b"].Flags[model.FlagBasePart]; got != model.FlagClear {
		t.Errorf("b.flags[base_part] = %s, defaults are shared between parts", got)
	}
	if _, ok := pool["b"].Parametric["table"]; ok {
		t.Error("b.parametric shares storage with a.parametric")
	}
	if DefaultValues().Flags[model.FlagBasePart] != model.FlagClear {
		t.Error("default table was modified")
	}
}

func TestFillDefaultsKeepsPresentValues(t *testing.T) {
	version := 3.0
	pool := model.Pool{
		"a": {
			Tags:           []string{"t"},
			Flags:          model.Flags{model.FlagExcludeBOM: model.FlagSet},
			OverridePrefix: model.PrefixOwn,
			Version:        &version,
		},
	}

	FillDefaults(pool, DefaultValues())
	a := pool["a"]

	if len(a.Tags) != 1 || a.Tags[0] != "t" {
		t.Errorf("tags = %v", a.Tags)
	}
	if len(a.Flags) != 1 {
		t.Errorf("flags = %v, present map should not be merged with defaults", a.Flags)
	}
	if a.OverridePrefix != model.PrefixOwn {
		t.Errorf("override_prefix = %s", a.OverridePrefix)
	}
	if *a.Version != 3 {
		t.Errorf("version = %v", *a.Version)
	}
}

func TestFillDefaultsLeavesUncoveredFieldsAbsent(t *testing.T) {
	pool := model.Pool{"a": {}}

	FillDefaults(pool, DefaultValues())
	a := pool["a"]

	if a.Base != nil || a.Entity != nil || a.Prefix != nil || a.MPN != nil || a.PadMap != nil || a.InheritTags != nil {
		t.Errorf("uncovered fields were filled: %+v", a)
	}
}
