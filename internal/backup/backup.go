// Package backup reads and writes the combined backup document holding every
// collection of the store.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vonshlovens/moodlog/internal/diary"
)

// Document is the on-disk backup format
type Document struct {
	DiaryEntries       []diary.Entry               `json:"diaryEntries" yaml:"diaryEntries"`
	Moments            []diary.Moment              `json:"moments" yaml:"moments"`
	Settings           diary.Settings              `json:"settings" yaml:"settings"`
	ExportDate         time.Time                   `json:"exportDate" yaml:"exportDate"`
	MonthlyReflections map[string]diary.Reflection `json:"monthlyReflections,omitempty" yaml:"monthlyReflections,omitempty"`
}

// Format selects the encoding of a Document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, JSON by default
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileName is the default export file name for an export instant
func FileName(at time.Time, f Format) string {
	return fmt.Sprintf("diary-backup-%s.%s", at.Format("2006-01-02"), f)
}

// Encode writes doc to w
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode backup: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode backup: %w", err)
		}
		return nil
	}
}

// Decode reads a Document from r
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	var err error
	switch f {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		err = json.NewDecoder(r).Decode(&doc)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	return doc, nil
}

// WriteFile encodes doc into path using the format implied by its extension
func WriteFile(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	if err := Encode(f, doc, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile decodes the backup stored at path
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}
