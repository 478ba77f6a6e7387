package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vonshlovens/moodlog/internal/diary"
)

// frontmatterRegex matches YAML frontmatter between --- delimiters
var frontmatterRegex = regexp.MustCompile(`(?s)^---\r?\n(.+?)\r?\n---\r?\n?`)

// Frontmatter holds the entry fields a draft can set ahead of its body
type Frontmatter struct {
	Mood         diary.Mood
	Achievements string
	Stress       string
	Gratitude    []string
	SelfCare     []string
	Highlight    string
	Photos       []string
	Extra        map[string]interface{}
}

// rawFrontmatter accepts a single string wherever a list is allowed
type rawFrontmatter struct {
	Mood         string      `yaml:"mood"`
	Achievements string      `yaml:"achievements"`
	Stress       string      `yaml:"stress"`
	Gratitude    interface{} `yaml:"gratitude"`
	SelfCare     interface{} `yaml:"selfCare"`
	Highlight    string      `yaml:"highlight"`
	Photos       interface{} `yaml:"photos"`
}

var knownFields = map[string]bool{
	"mood": true, "achievements": true, "stress": true, "gratitude": true,
	"selfCare": true, "highlight": true, "photos": true,
}

// ParseFrontmatter splits content into frontmatter and body. Content without
// frontmatter, or with frontmatter that is not valid YAML, is all body.
func ParseFrontmatter(content string) (*Frontmatter, string, error) {
	fm := &Frontmatter{
		Extra: make(map[string]interface{}),
	}

	match := frontmatterRegex.FindStringSubmatch(content)
	if match == nil {
		return fm, content, nil
	}

	yamlContent := match[1]
	body := content[len(match[0]):]

	var raw rawFrontmatter
	if err := yaml.Unmarshal([]byte(yamlContent), &raw); err != nil {
		slog.Warn("ignoring invalid draft frontmatter", "error", err)
		return fm, content, nil
	}

	fm.Mood = diary.Mood(strings.TrimSpace(raw.Mood))
	fm.Achievements = strings.TrimSpace(raw.Achievements)
	fm.Stress = strings.TrimSpace(raw.Stress)
	fm.Highlight = strings.TrimSpace(raw.Highlight)
	fm.Gratitude = normalizeStringArray(raw.Gratitude)
	fm.SelfCare = normalizeStringArray(raw.SelfCare)
	fm.Photos = normalizeStringArray(raw.Photos)

	var allFields map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlContent), &allFields); err == nil {
		for k, v := range allFields {
			if !knownFields[k] {
				fm.Extra[k] = v
			}
		}
	}
	if len(fm.Extra) > 0 {
		slog.Debug("draft frontmatter has unused fields", "count", len(fm.Extra))
	}

	return fm, body, nil
}

// normalizeStringArray converts string or []string or []interface{} to []string
func normalizeStringArray(v interface{}) []string {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{strings.TrimSpace(val)}
	case []string:
		return val
	case []interface{}:
		result := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				result = append(result, strings.TrimSpace(s))
			}
		}
		return result
	default:
		return nil
	}
}

// HasFrontmatter checks if content has YAML frontmatter
func HasFrontmatter(content string) bool {
	return frontmatterRegex.MatchString(content)
}
