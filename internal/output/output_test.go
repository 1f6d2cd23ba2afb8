package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/StinkyLord/horizon-pool/internal/model"
)

func makeTestPool() model.ResolvedPool {
	prefix := "R"
	mpn := "RC0603FR-0710KL"
	version := 1.0
	return model.ResolvedPool{
		"p2": {
			UUID:   "p2",
			Base:   &[]string{"p1"}[0],
			MPN:    &mpn,
			Prefix: &prefix,
			Tags:   []string{"resistor", "0603"},
			Flags: model.Flags{
				model.FlagBasePart:   model.FlagClear,
				model.FlagExcludeBOM: model.FlagSet,
			},
			Version: &version,
		},
		"p1": {UUID: "p1", Tags: []string{}},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, makeTestPool(), FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	p2 := decoded["p2"]
	if p2["MPN"] != "RC0603FR-0710KL" || p2["prefix"] != "R" {
		t.Errorf("p2 = %v", p2)
	}
	if v, ok := decoded["p1"]["prefix"]; !ok || v != nil {
		t.Errorf("absent prefix should be written as null, got %v (present=%v)", v, ok)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Error("output should end with a newline")
	}
	if strings.Index(buf.String(), `"p1"`) > strings.Index(buf.String(), `"p2"`) {
		t.Error("keys should be written in sorted order")
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, makeTestPool(), FormatYAML); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded map[string]map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}
	tags, _ := decoded["p2"]["tags"].([]any)
	if len(tags) != 2 || tags[0] != "resistor" {
		t.Errorf("p2.tags = %v", decoded["p2"]["tags"])
	}
	flags, _ := decoded["p2"]["flags"].(map[string]any)
	if flags["exclude_bom"] != "set" {
		t.Errorf("p2.flags = %v", decoded["p2"]["flags"])
	}
}

func TestWriteYAMLOverridePair(t *testing.T) {
	pool := model.Pool{"p": {UUID: "p", MPN: &model.Override{Inherit: true, Value: "x"}}}

	var buf bytes.Buffer
	if err := Write(&buf, pool, FormatYAML); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded map[string]map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	pair, _ := decoded["p"]["MPN"].([]any)
	if len(pair) != 2 || pair[0] != true || pair[1] != "x" {
		t.Errorf("MPN = %v, want [true x]", decoded["p"]["MPN"])
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolved.json")
	if err := WriteFile(path, makeTestPool(), FormatJSON); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("file is not valid JSON: %s", data)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("cyclonedx"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}
