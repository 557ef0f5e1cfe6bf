// Package playback drives the phrase-by-phrase tap counting of one category visit.
package playback

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/azkar/internal/dataset"
	"github.com/verte-zerg/azkar/internal/prefs"
	"github.com/verte-zerg/azkar/internal/progress"
)

// Source provides the phrases of a category. Unknown ids yield no phrases.
type Source interface {
	Phrases(categoryID int) []dataset.Phrase
}

// Advance is a scheduled move to the next phrase, issued when a phrase
// reaches its target count. It only applies while the visit, phrase and
// generation it captured are still current.
type Advance struct {
	Category int
	Index    int
	Gen      uint64
}

// Playback is the transient state of one category visit. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Playback struct {
	src     Source
	shuffle *prefs.Shuffle
	total   *prefs.TotalCount
	tracker *progress.Tracker
	rnd     *rand.Rand

	active   bool
	category int
	phrases  []dataset.Phrase
	counts   []int
	index    int
	gen      uint64
}

// New returns an idle Playback. A nil rnd is seeded with the current time.
func New(src Source, shuffle *prefs.Shuffle, total *prefs.TotalCount, tracker *progress.Tracker, rnd *rand.Rand) *Playback {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Playback{src: src, shuffle: shuffle, total: total, tracker: tracker, rnd: rnd}
}

// Open starts a visit of a category. Opening the category that is already
// active keeps its order and counts, only shuffling if shuffle was enabled
// since and the set has not been shuffled yet.
func (p *Playback) Open(categoryID int) {
	if p.active && p.category == categoryID {
		if p.shuffle.Enabled() && !p.shuffle.WasShuffled() {
			p.permute()
		}
		return
	}

	p.shuffle.ResetShuffled()
	p.gen++
	p.active = true
	p.category = categoryID
	p.phrases = p.src.Phrases(categoryID)
	p.counts = make([]int, len(p.phrases))
	p.index = 0
	if p.shuffle.Enabled() {
		p.permute()
	}
	p.index = p.restoreIndex(categoryID)
}

// restoreIndex finds the saved phrase in the current order, falling back to
// the saved position when the phrase is unknown.
func (p *Playback) restoreIndex(categoryID int) int {
	if id, ok := p.tracker.LoadPhrase(categoryID); ok {
		for i, ph := range p.phrases {
			if ph.ID == id {
				return i
			}
		}
	}
	if idx, ok := p.tracker.Load(categoryID); ok {
		return p.clamp(idx)
	}
	return 0
}

// permute applies one Fisher-Yates shuffle to phrases and their counts.
// Pending advances refer to the old order and are invalidated.
func (p *Playback) permute() {
	p.gen++
	for i := len(p.phrases) - 1; i > 0; i-- {
		j := p.rnd.Intn(i + 1)
		p.phrases[i], p.phrases[j] = p.phrases[j], p.phrases[i]
		p.counts[i], p.counts[j] = p.counts[j], p.counts[i]
	}
	p.shuffle.MarkShuffled()
}

// Tap counts one repetition of the current phrase. When the phrase reaches
// its target it returns the Advance to fire after the completion delay.
// Taps beyond the target are ignored.
func (p *Playback) Tap() (Advance, bool) {
	if len(p.phrases) == 0 {
		return Advance{}, false
	}
	i := p.index
	if p.counts[i] >= p.phrases[i].Count {
		return Advance{}, false
	}
	p.counts[i]++
	p.total.Increment()
	if p.counts[i] < p.phrases[i].Count {
		return Advance{}, false
	}
	return Advance{Category: p.category, Index: i, Gen: p.gen}, true
}

// Advance applies a scheduled advance. Stale advances, and advances from the
// last phrase, are dropped.
func (p *Playback) Advance(a Advance) bool {
	if !p.active || a.Gen != p.gen || a.Category != p.category || a.Index != p.index {
		return false
	}
	if p.IsLast() {
		return false
	}
	p.move(p.index + 1)
	return true
}

// Next moves to the following phrase.
func (p *Playback) Next() {
	p.move(p.index + 1)
}

// Previous moves to the preceding phrase.
func (p *Playback) Previous() {
	p.move(p.index - 1)
}

func (p *Playback) move(idx int) {
	if !p.active {
		return
	}
	idx = p.clamp(idx)
	if idx == p.index {
		return
	}
	p.index = idx
	p.gen++
	p.tracker.Save(p.category, p.index)
	p.tracker.SavePhrase(p.category, p.phrases[p.index].ID)
}

// Back ends the visit: the saved progress is deleted, pending advances are
// cancelled and the state is emptied.
func (p *Playback) Back() {
	if p.active {
		p.tracker.Clear(p.category)
	}
	p.shuffle.ResetShuffled()
	p.gen++
	p.active = false
	p.category = 0
	p.phrases = nil
	p.counts = nil
	p.index = 0
}

func (p *Playback) clamp(idx int) int {
	if idx >= len(p.phrases) {
		idx = len(p.phrases) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Active reports whether a category is open.
func (p *Playback) Active() bool { return p.active }

// CategoryID returns the open category.
func (p *Playback) CategoryID() int { return p.category }

// Phrases returns the phrases of the visit in display order.
func (p *Playback) Phrases() []dataset.Phrase { return p.phrases }

// Len returns the number of phrases.
func (p *Playback) Len() int { return len(p.phrases) }

// Index returns the current phrase index.
func (p *Playback) Index() int { return p.index }

// Current returns the current phrase.
func (p *Playback) Current() (dataset.Phrase, bool) {
	if len(p.phrases) == 0 {
		return dataset.Phrase{}, false
	}
	return p.phrases[p.index], true
}

// Count returns the taps recorded for phrase i.
func (p *Playback) Count(i int) int {
	if i < 0 || i >= len(p.counts) {
		return 0
	}
	return p.counts[i]
}

// Done reports whether the current phrase reached its target.
func (p *Playback) Done() bool {
	ph, ok := p.Current()
	return ok && p.counts[p.index] >= ph.Count
}

// IsLast reports whether the current phrase is the last one. It is true for
// an empty visit.
func (p *Playback) IsLast() bool {
	return p.index >= len(p.phrases)-1
}
