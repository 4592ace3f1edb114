// Package classify maps source files to debug categories and scores log
// messages as debug-leaning or informational. Both functions are pure; all
// tables are injected at construction so classifiers are safe to share.
package classify

import (
	"path/filepath"
	"strings"
)

// Category identifies a logical subsystem of the target codebase
type Category string

// DefaultCategory is the catch-all category for unmatched files
const DefaultCategory Category = "DEVELOPMENT"

// TableEntry is one path-component to category mapping. Declaration order
// matters: the substring pass returns the first entry whose key matches.
type TableEntry struct {
	Key      string
	Category Category
}

// Rules is the immutable configuration for a Classifier
type Rules struct {
	Table         []TableEntry
	DebugKeywords []string
	InfoKeywords  []string
	Default       Category
}

// Classifier resolves categories from paths and scores message debugness
type Classifier struct {
	exact         map[string]Category
	ordered       []TableEntry
	debugKeywords []string
	infoKeywords  []string
	fallback      Category
}

// New creates a Classifier from the given rules. Empty rule fields fall
// back to the built-in defaults.
func New(rules Rules) *Classifier {
	if len(rules.Table) == 0 {
		rules.Table = DefaultRules().Table
	}
	if len(rules.DebugKeywords) == 0 {
		rules.DebugKeywords = DefaultRules().DebugKeywords
	}
	if len(rules.InfoKeywords) == 0 {
		rules.InfoKeywords = DefaultRules().InfoKeywords
	}
	if rules.Default == "" {
		rules.Default = DefaultCategory
	}

	exact := make(map[string]Category, len(rules.Table))
	for _, e := range rules.Table {
		if _, ok := exact[e.Key]; !ok {
			exact[e.Key] = e.Category
		}
	}

	return &Classifier{
		exact:         exact,
		ordered:       rules.Table,
		debugKeywords: lowerAll(rules.DebugKeywords),
		infoKeywords:  lowerAll(rules.InfoKeywords),
		fallback:      rules.Default,
	}
}

// ResolveCategory derives the category for a file path.
// Lookup order: exact match on the base name without extension, then a
// case-insensitive substring pass in table declaration order, then the
// default category. Deterministic for a given rule set.
func (c *Classifier) ResolveCategory(path string) Category {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if cat, ok := c.exact[stem]; ok {
		return cat
	}

	stemLower := strings.ToLower(stem)
	for _, e := range c.ordered {
		if strings.Contains(stemLower, strings.ToLower(e.Key)) {
			return e.Category
		}
	}

	return c.fallback
}

// ScoreDebugness reports whether a log message reads like debug output.
// Each keyword present in the lower-cased message counts once for its set;
// the message is debug iff the debug count strictly exceeds the info count.
// Ties resolve to false: demoting an informational line is the riskier change.
func (c *Classifier) ScoreDebugness(message string) bool {
	messageLower := strings.ToLower(message)

	debugScore := 0
	for _, kw := range c.debugKeywords {
		if strings.Contains(messageLower, kw) {
			debugScore++
		}
	}

	infoScore := 0
	for _, kw := range c.infoKeywords {
		if strings.Contains(messageLower, kw) {
			infoScore++
		}
	}

	return debugScore > infoScore
}

func lowerAll(keywords []string) []string {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return lowered
}
