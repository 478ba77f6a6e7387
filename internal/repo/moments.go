package repo

import (
	"sort"

	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/kv"
)

// Moments is the moment collection. Manual moments are keyed by
// (date, name); highlight moments by (date, type), so an entry re-saved on
// the same day updates its highlight moment instead of adding another.
type Moments struct {
	store *kv.Store
}

// Stored returns moments in storage order
func (r *Moments) Stored() []diary.Moment {
	return kv.Get(r.store, KeyMoments, []diary.Moment{})
}

// List returns moments newest first by timestamp, stable on ties
func (r *Moments) List() []diary.Moment {
	moments := r.Stored()
	sort.SliceStable(moments, func(i, j int) bool {
		return moments[i].Timestamp > moments[j].Timestamp
	})
	return moments
}

func sameMoment(a, b diary.Moment) bool {
	if a.Type == diary.MomentHighlight || b.Type == diary.MomentHighlight {
		return a.Type == b.Type && a.Date == b.Date
	}
	return a.Date == b.Date && a.Name == b.Name
}

// Upsert replaces the moment sharing m's natural key, or prepends m
func (r *Moments) Upsert(m diary.Moment) (bool, error) {
	moments := r.Stored()

	replaced := false
	for i := range moments {
		if sameMoment(moments[i], m) {
			moments[i] = m
			replaced = true
			break
		}
	}
	if !replaced {
		moments = append([]diary.Moment{m}, moments...)
	}

	if err := write(r.store, KeyMoments, moments); err != nil {
		return false, err
	}
	return replaced, nil
}

// GetByKey finds a manual moment by its (date, name) key
func (r *Moments) GetByKey(date, name string) (diary.Moment, bool) {
	for _, m := range r.Stored() {
		if m.Type != diary.MomentHighlight && m.Date == date && m.Name == name {
			return m, true
		}
	}
	return diary.Moment{}, false
}

// DeleteByID removes the first moment with id
func (r *Moments) DeleteByID(id string) error {
	moments := r.Stored()
	for i := range moments {
		if moments[i].ID == id {
			moments = append(moments[:i], moments[i+1:]...)
			return write(r.store, KeyMoments, moments)
		}
	}
	return ErrNotFound
}

// ReplaceAll overwrites the collection wholesale
func (r *Moments) ReplaceAll(moments []diary.Moment) error {
	if moments == nil {
		moments = []diary.Moment{}
	}
	return write(r.store, KeyMoments, moments)
}
