package report

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/azkar/internal/dataset"
	"github.com/verte-zerg/azkar/internal/storage"
)

// Categories lists every category with its phrase count and the taps needed
// to complete it.
func Categories(cats []dataset.Category) []string {
	rows := make([][]string, 0, len(cats))
	for _, cat := range cats {
		taps := 0
		for _, ph := range cat.Phrases {
			taps += ph.Count
		}
		rows = append(rows, []string{
			strconv.Itoa(cat.ID),
			cat.Title,
			strconv.Itoa(len(cat.Phrases)),
			strconv.Itoa(taps),
		})
	}
	return FormatTable([]string{"ID", "Title", "Phrases", "Taps"}, rows, map[int]bool{0: true, 2: true, 3: true})
}

// Storage describes a storage snapshot as key/value lines.
func Storage(name string, st storage.Stats) []string {
	fallback := "-"
	if len(st.FallbackKeys) > 0 {
		fallback = strings.Join(st.FallbackKeys, ", ")
	}
	rows := [][]string{
		{"store", name},
		{"available", strconv.FormatBool(st.Available)},
		{"persistent keys", strconv.Itoa(st.PersistentKeyCount)},
		{"persistent bytes", strconv.Itoa(st.PersistentByteEstimate)},
		{"fallback keys", strconv.Itoa(st.FallbackKeyCount)},
		{"fallback", fallback},
	}
	return FormatTable(nil, rows, nil)
}
