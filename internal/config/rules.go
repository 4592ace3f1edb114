package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"relog/internal/classify"
	"relog/internal/paths"
)

// RulesFile is the on-disk shape of .relog/rules.toml, the user-curated
// category table and keyword sets. Absent file means built-in defaults.
type RulesFile struct {
	// DefaultCategory is the catch-all for unmatched files
	DefaultCategory string `toml:"default_category,omitempty"`

	// Categories map path components to category tags; order defines
	// substring-match precedence (first declared wins)
	Categories []RuleEntry `toml:"category,omitempty"`

	// DebugKeywords indicate a message is debug output
	DebugKeywords []string `toml:"debug_keywords,omitempty"`

	// InfoKeywords indicate a message is informational
	InfoKeywords []string `toml:"info_keywords,omitempty"`
}

// RuleEntry is one path-component to category mapping
type RuleEntry struct {
	Key      string `toml:"key"`
	Category string `toml:"category"`
}

// LoadRules reads .relog/rules.toml and converts it to classifier rules.
// A missing file yields the built-in defaults; a malformed file is an error.
func LoadRules(root string) (classify.Rules, error) {
	data, err := os.ReadFile(paths.RulesPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return classify.DefaultRules(), nil
		}
		return classify.Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	var rf RulesFile
	if err := toml.Unmarshal(data, &rf); err != nil {
		return classify.Rules{}, fmt.Errorf("parsing rules file: %w", err)
	}

	return rf.toRules(), nil
}

// WriteDefaultRules writes a starter rules.toml populated with the built-in
// tables so users have something concrete to edit
func WriteDefaultRules(root string) error {
	if _, err := paths.EnsureStateDir(root); err != nil {
		return err
	}

	defaults := classify.DefaultRules()
	rf := RulesFile{
		DefaultCategory: string(defaults.Default),
		DebugKeywords:   defaults.DebugKeywords,
		InfoKeywords:    defaults.InfoKeywords,
	}
	for _, e := range defaults.Table {
		rf.Categories = append(rf.Categories, RuleEntry{Key: e.Key, Category: string(e.Category)})
	}

	data, err := toml.Marshal(rf)
	if err != nil {
		return fmt.Errorf("encoding rules file: %w", err)
	}

	return os.WriteFile(paths.RulesPath(root), data, 0644)
}

func (rf *RulesFile) toRules() classify.Rules {
	rules := classify.Rules{
		Default:       classify.Category(rf.DefaultCategory),
		DebugKeywords: rf.DebugKeywords,
		InfoKeywords:  rf.InfoKeywords,
	}
	for _, e := range rf.Categories {
		rules.Table = append(rules.Table, classify.TableEntry{
			Key:      e.Key,
			Category: classify.Category(e.Category),
		})
	}
	return rules
}
