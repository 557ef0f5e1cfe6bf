package report

import (
	"strings"
	"testing"

	"github.com/verte-zerg/azkar/internal/dataset"
	"github.com/verte-zerg/azkar/internal/storage"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"ID", "Title", "Taps"}
	rows := [][]string{
		{"1", "Morning", "102"},
		{"12", "Evening", "4"},
	}
	lines := FormatTable(headers, rows, map[int]bool{0: true, 2: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "ID  Title    Taps" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != " 1  Morning   102" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "12  Evening     4" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := FormatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %q", lines)
	}
}

func TestCategories(t *testing.T) {
	cats := []dataset.Category{{
		ID:    1,
		Title: "Morning",
		Phrases: []dataset.Phrase{
			{ID: 1, Count: 1},
			{ID: 2, Count: 100},
		},
	}}
	lines := Categories(cats)
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", lines)
	}
	fields := strings.Fields(lines[1])
	if len(fields) != 4 || fields[2] != "2" || fields[3] != "101" {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestStorage(t *testing.T) {
	lines := Storage("local", storage.Stats{Available: true, PersistentKeyCount: 2, PersistentByteEstimate: 30, FallbackKeyCount: 1, FallbackKeys: []string{"theme"}})
	out := strings.Join(lines, "\n")
	for _, want := range []string{"local", "available         true", "persistent bytes  30", "theme"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}
