package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadBundled(t *testing.T) {
	set, err := Load("")
	if err != nil {
		t.Fatalf("load bundled: %v", err)
	}
	if len(set.Categories()) == 0 {
		t.Fatalf("expected bundled categories")
	}
	cat, ok := set.Find(1)
	if !ok || cat.Title == "" || len(cat.Phrases) == 0 {
		t.Fatalf("unexpected category 1: %+v", cat)
	}
}

func TestPhrasesReturnsCopy(t *testing.T) {
	set, err := Parse([]byte(`[{"id":7,"category":"c","array":[{"id":1,"text":"a","count":2,"subtext":"n"}]}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	phrases := set.Phrases(7)
	if len(phrases) != 1 || phrases[0].Count != 2 || phrases[0].SubText != "n" {
		t.Fatalf("unexpected phrases %+v", phrases)
	}
	phrases[0].Text = "changed"
	if set.Phrases(7)[0].Text != "a" {
		t.Fatalf("Phrases must return a copy")
	}
	if set.Phrases(99) != nil {
		t.Fatalf("unknown category must yield nil")
	}
}

func TestParseRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"not json":     `{`,
		"zero count":   `[{"id":1,"category":"c","array":[{"id":1,"text":"a","count":0}]}]`,
		"duplicate id": `[{"id":1,"category":"a","array":[]},{"id":1,"category":"b","array":[]}]`,
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "azkar.json")
	if err := os.WriteFile(path, []byte(`[{"id":3,"category":"x","array":[]}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	set, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat, ok := set.Find(3); !ok || len(cat.Phrases) != 0 {
		t.Fatalf("unexpected category %+v", cat)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil || !strings.Contains(err.Error(), "failed to read dataset") {
		t.Fatalf("expected read error, got %v", err)
	}
}
