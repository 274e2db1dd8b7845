package models

import "strings"

// CategoryUncategorized is the sentinel name for transactions no strategy
// could place.
const CategoryUncategorized = "Uncategorized"

// Category is a spending category. Keywords is stored as the comma-separated
// string the repository interface exposes.
type Category struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Keywords string `yaml:"keywords,omitempty"`
}

// KeywordList splits the comma-separated keyword field into trimmed,
// lowercased tokens.
func (c *Category) KeywordList() []string {
	if c.Keywords == "" {
		return nil
	}
	parts := strings.Split(c.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
