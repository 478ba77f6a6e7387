package sync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vonshlovens/moodlog/internal/timeline"
)

// ErrUnknownView is returned by SwitchView for names outside the view set
var ErrUnknownView = errors.New("unknown view")

// View is one screen of the application
type View string

const (
	ViewDiary      View = "diary"
	ViewTimeline   View = "timeline"
	ViewReport     View = "report"
	ViewReflection View = "reflection"
)

// Views lists every view, initial first
var Views = []View{ViewDiary, ViewTimeline, ViewReport, ViewReflection}

// ParseView maps a name onto a View
func ParseView(name string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// SaveStatus is the text of the auto-save indicator
type SaveStatus string

const (
	StatusIdle   SaveStatus = ""
	StatusSaving SaveStatus = "saving"
	StatusSaved  SaveStatus = "saved"
	StatusReady  SaveStatus = "ready for a new day"
)

// AppState is everything the coordinator tracks besides storage. It is owned
// by the Coordinator and only changes through its methods; State returns a
// copy.
type AppState struct {
	View       View
	Theme      string
	Filter     timeline.Filter
	Streak     int
	SaveStatus SaveStatus
}

func initialState(theme string) AppState {
	return AppState{
		View:  ViewDiary,
		Theme: theme,
	}
}
