// Package parser turns a markdown draft into the input of a diary entry.
// YAML frontmatter sets the structured fields, checked task items in the body
// become self-care items and the remaining body is the entry content.
package parser

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vonshlovens/moodlog/internal/diary"
)

var (
	// taskRegex matches "- [x] label" and "* [ ] label" lines
	taskRegex = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+\[([ xX])\][ \t]+(.+?)[ \t]*$\r?\n?`)

	// ErrInvalidEncoding is returned for drafts that are not UTF-8
	ErrInvalidEncoding = errors.New("draft is not valid UTF-8")
)

// ParsedDraft represents a fully parsed markdown draft
type ParsedDraft struct {
	Frontmatter *Frontmatter
	Body        string
	RawContent  string
	Checked     []string
}

// Parser handles parsing of markdown drafts
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads and parses a markdown draft
func (p *Parser) ParseFile(path string) (*ParsedDraft, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	return p.ParseContent(string(content))
}

// ParseContent parses markdown content
func (p *Parser) ParseContent(content string) (*ParsedDraft, error) {
	if !utf8.ValidString(content) {
		return nil, ErrInvalidEncoding
	}

	draft := &ParsedDraft{
		RawContent: content,
	}

	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		return nil, err
	}
	draft.Frontmatter = fm

	draft.Checked = extractCheckedTasks(body)
	draft.Body = strings.TrimSpace(taskRegex.ReplaceAllString(body, ""))

	return draft, nil
}

// Input assembles the entry input. Validation is left to diary.NewEntry.
func (d *ParsedDraft) Input() diary.EntryInput {
	fm := d.Frontmatter
	in := diary.EntryInput{
		Mood:         fm.Mood,
		Achievements: fm.Achievements,
		Stress:       fm.Stress,
		SelfCare:     mergeLabels(fm.SelfCare, d.Checked),
		Highlight:    fm.Highlight,
		Photos:       fm.Photos,
		Content:      d.Body,
	}
	for i := 0; i < len(in.Gratitude) && i < len(fm.Gratitude); i++ {
		in.Gratitude[i] = fm.Gratitude[i]
	}
	return in
}

// extractCheckedTasks returns the labels of checked task items in order
func extractCheckedTasks(content string) []string {
	matches := taskRegex.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool)
	var labels []string

	for _, match := range matches {
		if len(match) < 3 || match[1] == " " {
			continue
		}
		label := strings.TrimSpace(match[2])
		if label != "" && !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}

	return labels
}

// mergeLabels combines frontmatter and body labels, removing duplicates
func mergeLabels(first, second []string) []string {
	seen := make(map[string]bool)
	var merged []string

	for _, list := range [][]string{first, second} {
		for _, label := range list {
			label = strings.TrimSpace(label)
			if label != "" && !seen[label] {
				seen[label] = true
				merged = append(merged, label)
			}
		}
	}

	return merged
}
