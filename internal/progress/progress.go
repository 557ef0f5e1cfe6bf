// Package progress remembers the last viewed phrase of each category for the
// current terminal session.
package progress

import (
	"strconv"

	"github.com/verte-zerg/azkar/internal/storage"
)

// KeyPrefix prefixes every progress key.
const KeyPrefix = "azkar-index-"

// Tracker stores per-category phrase indexes in session-scoped storage.
type Tracker struct {
	st *storage.Storage
}

// New returns a Tracker over session-scoped storage.
func New(st *storage.Storage) *Tracker {
	return &Tracker{st: st}
}

// Key returns the storage key of a category.
func Key(categoryID int) string {
	return KeyPrefix + strconv.Itoa(categoryID)
}

// Load returns the saved index of a category. Missing or malformed entries
// report false.
func (t *Tracker) Load(categoryID int) (int, bool) {
	raw, ok := t.st.Lookup(Key(categoryID))
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// Save records the current index of a category.
func (t *Tracker) Save(categoryID, index int) {
	t.st.Set(Key(categoryID), strconv.Itoa(index))
}

// PhraseKey returns the storage key holding the id of the phrase shown at
// the saved index. It shares the index key prefix so prefix clears drop both.
func PhraseKey(categoryID int) string {
	return Key(categoryID) + "-phrase"
}

// SavePhrase records the id of the phrase shown at the saved index.
func (t *Tracker) SavePhrase(categoryID, phraseID int) {
	t.st.Set(PhraseKey(categoryID), strconv.Itoa(phraseID))
}

// LoadPhrase returns the saved phrase id of a category.
func (t *Tracker) LoadPhrase(categoryID int) (int, bool) {
	raw, ok := t.st.Lookup(PhraseKey(categoryID))
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Clear deletes the entries of a category.
func (t *Tracker) Clear(categoryID int) {
	t.st.Remove(Key(categoryID))
	t.st.Remove(PhraseKey(categoryID))
}
