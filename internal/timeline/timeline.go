// Package timeline merges entries and moments into one feed and applies the
// timeline filters.
package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vonshlovens/moodlog/internal/diary"
)

// Kind tells entries and moments apart in the merged feed
type Kind string

const (
	KindEntry  Kind = "entry"
	KindMoment Kind = "moment"
)

// ParseKind accepts "", "entry" or "moment"
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindEntry, KindMoment:
		return k, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// Item is one row of the feed. Exactly one of Entry and Moment is set.
type Item struct {
	Kind   Kind
	Entry  *diary.Entry
	Moment *diary.Moment
}

func (it Item) Timestamp() int64 {
	if it.Kind == KindEntry {
		return it.Entry.Timestamp
	}
	return it.Moment.Timestamp
}

func (it Item) Mood() diary.Mood {
	if it.Kind == KindEntry {
		return it.Entry.Mood
	}
	return it.Moment.Mood
}

func (it Item) Date() string {
	if it.Kind == KindEntry {
		return it.Entry.Date
	}
	return it.Moment.Date
}

// searchable lists the text fields the free-text filter looks at
func (it Item) searchable() []string {
	if it.Kind == KindEntry {
		e := it.Entry
		return []string{e.Content, e.Achievements, e.Stress, e.Highlight, e.Gratitude1, e.Gratitude2, e.Gratitude3}
	}
	return []string{it.Moment.Name, it.Moment.Description}
}

// Filter is a conjunction of predicates. A zero field matches everything.
type Filter struct {
	Search string
	Mood   diary.Mood
	Kind   Kind
}

// Active reports whether any predicate is set
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || f.Mood != "" || f.Kind != ""
}

// Match reports whether it passes every set predicate
func (f Filter) Match(it Item) bool {
	if f.Kind != "" && it.Kind != f.Kind {
		return false
	}
	if f.Mood != "" && it.Mood() != f.Mood {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	for _, field := range it.searchable() {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Build merges entries then moments, sorts newest first keeping insertion
// order on equal timestamps, and keeps the items that match f.
func Build(entries []diary.Entry, moments []diary.Moment, f Filter) []Item {
	items := make([]Item, 0, len(entries)+len(moments))
	for i := range entries {
		items = append(items, Item{Kind: KindEntry, Entry: &entries[i]})
	}
	for i := range moments {
		items = append(items, Item{Kind: KindMoment, Moment: &moments[i]})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp() > items[j].Timestamp()
	})

	out := items[:0]
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
