package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID      string   `json:"id"`
	Granted bool     `json:"granted"`
	Tags    []string `json:"tags,omitempty"`
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "item-1", Granted: true}, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), "{\"id\":\"item-1\",\"granted\":true}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrite_YAMLUsesJSONTags(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "item-1", Tags: []string{"a"}}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"id: item-1", "granted: false", "tags:", "- a"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDefault_FromEnv(t *testing.T) {
	t.Setenv("GTD_FORMAT", "yaml")
	if got := Default(); got != "yaml" {
		t.Fatalf("Default() = %q", got)
	}
	t.Setenv("GTD_FORMAT", "")
	if got := Default(); got != "json" {
		t.Fatalf("Default() = %q", got)
	}
}
