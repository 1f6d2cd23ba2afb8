package clone

import (
	"reflect"
	"testing"
)

type sample struct {
	Name   *string
	Tags   []string
	Labels map[string][]string
	Nested *sample
	hidden int
}

func TestOfDoesNotShareStorage(t *testing.T) {
	name := "R1"
	src := sample{
		Name:   &name,
		Tags:   []string{"a", "b"},
		Labels: map[string][]string{"k": {"v"}},
		Nested: &sample{Tags: []string{"n"}},
		hidden: 7,
	}

	got := Of(src)

	*src.Name = "changed"
	src.Tags[0] = "x"
	src.Labels["k"][0] = "x"
	src.Nested.Tags[0] = "x"

	if *got.Name != "R1" {
		t.Errorf("Name = %q, want R1", *got.Name)
	}
	if !reflect.DeepEqual(got.Tags, []string{"a", "b"}) {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.Labels["k"][0] != "v" {
		t.Errorf("Labels = %v", got.Labels)
	}
	if got.Nested.Tags[0] != "n" {
		t.Errorf("Nested.Tags = %v", got.Nested.Tags)
	}
	if got.hidden != 0 {
		t.Errorf("unexported field copied: %d", got.hidden)
	}
}

func TestOfKeepsNilAndEmptyDistinct(t *testing.T) {
	got := Of(sample{Tags: []string{}})
	if got.Tags == nil {
		t.Error("empty slice became nil")
	}
	if got.Labels != nil {
		t.Error("nil map became non-nil")
	}
	if got.Name != nil {
		t.Error("nil pointer became non-nil")
	}
}

func TestAny(t *testing.T) {
	if Any(nil) != nil {
		t.Fatal("Any(nil) should be nil")
	}

	src := map[string]string{"a": "1"}
	got, ok := Any(src).(map[string]string)
	if !ok {
		t.Fatalf("dynamic type lost: %T", Any(src))
	}
	src["a"] = "2"
	if got["a"] != "1" {
		t.Errorf("copy shares storage with source: %v", got)
	}

	var empty any
	if Of(empty) != nil {
		t.Error("Of on nil interface should return nil")
	}
}
