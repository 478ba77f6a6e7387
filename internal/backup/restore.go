package backup

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/vonshlovens/moodlog/internal/diary"
	"github.com/vonshlovens/moodlog/internal/repo"
)

// Collect snapshots every collection into a Document stamped with at
func Collect(r *repo.Repositories, at time.Time) Document {
	doc := Document{
		DiaryEntries: r.Entries.Stored(),
		Moments:      r.Moments.Stored(),
		Settings:     r.Settings.Get(),
		ExportDate:   at.UTC(),
	}

	for _, rec := range r.Reflections.List() {
		if doc.MonthlyReflections == nil {
			doc.MonthlyReflections = make(map[string]diary.Reflection)
		}
		doc.MonthlyReflections[repo.ReflectionKey(rec.Year, rec.Month)] = rec
	}
	return doc
}

// RestoreOptions tunes Restore
type RestoreOptions struct {
	// Progress receives the progress bar; nil hides it
	Progress io.Writer
}

// reflections returns the document's reflections addressed by their map
// keys, oldest month first. The key decides the month a record lands in.
func (d Document) reflections() ([]diary.Reflection, error) {
	out := make([]diary.Reflection, 0, len(d.MonthlyReflections))
	for key, rec := range d.MonthlyReflections {
		year, month, ok := repo.ParseReflectionKey(key)
		if !ok {
			return nil, fmt.Errorf("invalid reflection key %q", key)
		}
		if rec.Year != year || rec.Month != month {
			slog.Warn("reflection month differs from its key, using the key",
				"key", key, "year", rec.Year, "month", rec.Month)
		}
		rec.Year, rec.Month = year, month
		rec.ID = diary.ReflectionID(year, month)
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

// Restore replaces every collection of r with the contents of doc, including
// reflections: months absent from doc are removed. The document is checked
// before anything is written. The first failed write stops the restore;
// collections written before it stay written.
func Restore(r *repo.Repositories, doc Document, opts RestoreOptions) error {
	reflections, err := doc.reflections()
	if err != nil {
		return err
	}

	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	bar := progressbar.NewOptions(4,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Restoring backup"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)

	if err := r.Entries.ReplaceAll(doc.DiaryEntries); err != nil {
		return fmt.Errorf("failed to restore entries: %w", err)
	}
	bar.Add(1)

	if err := r.Moments.ReplaceAll(doc.Moments); err != nil {
		return fmt.Errorf("failed to restore moments: %w", err)
	}
	bar.Add(1)

	settings := doc.Settings
	if !diary.ValidTheme(settings.Theme) {
		slog.Warn("backup has unknown theme, keeping default", "theme", settings.Theme)
		settings.Theme = diary.DefaultTheme
	}
	if err := r.Settings.Set(settings); err != nil {
		return fmt.Errorf("failed to restore settings: %w", err)
	}
	bar.Add(1)

	if err := r.Reflections.ReplaceAll(reflections); err != nil {
		return fmt.Errorf("failed to restore reflections: %w", err)
	}
	bar.Add(1)

	bar.Finish()
	slog.Info("backup restored",
		"entries", len(doc.DiaryEntries),
		"moments", len(doc.Moments),
		"reflections", len(reflections))
	return nil
}
