// Package rewrite performs the textual call-site transformation. It works on
// line patterns, not an AST: the message heuristic (first quoted literal
// after the call token) is documented, best-effort, and deliberately isolated
// here so it can be replaced by a real tokenizer without touching the
// transaction or journal logic.
package rewrite

import (
	"regexp"
	"strings"

	"relog/internal/classify"
	"relog/internal/journal"
)

// Config holds the textual tokens the rewriter targets and emits.
// Defaults match the spdlog to CURA_DEBUG migration.
type Config struct {
	// Namespace is the logging call namespace, e.g. "spdlog" for spdlog::debug(...)
	Namespace string
	// Macro is the categorized-debug macro emitted in place of debug calls
	Macro string
	// HeaderInclude is the full include directive for the macro's header
	HeaderInclude string
}

// DefaultConfig returns the rewrite tokens for the reference migration
func DefaultConfig() Config {
	return Config{
		Namespace:     "spdlog",
		Macro:         "CURA_DEBUG",
		HeaderInclude: `#include "utils/DebugManager.h"`,
	}
}

// Rewriter matches logging call patterns on single lines and produces
// rewritten lines plus structured modification records. Pure text transform.
type Rewriter struct {
	cfg    Config
	callRe *regexp.Regexp
	msgRe  *regexp.Regexp
}

// New creates a Rewriter for the given tokens. Empty fields take defaults.
func New(cfg Config) *Rewriter {
	def := DefaultConfig()
	if cfg.Namespace == "" {
		cfg.Namespace = def.Namespace
	}
	if cfg.Macro == "" {
		cfg.Macro = def.Macro
	}
	if cfg.HeaderInclude == "" {
		cfg.HeaderInclude = def.HeaderInclude
	}

	return &Rewriter{
		cfg:    cfg,
		callRe: regexp.MustCompile(regexp.QuoteMeta(cfg.Namespace) + `::(debug|info|warn|error|critical)\s*\(`),
		msgRe:  regexp.MustCompile(`"([^"]*)"`),
	}
}

// ContainsCandidate reports whether content has any call worth scanning.
// Used as a cheap pre-filter before a file transaction starts.
func (r *Rewriter) ContainsCandidate(content string) bool {
	return strings.Contains(content, r.cfg.Namespace+"::")
}

// RewriteLine rewrites a single line. Only debug-level calls are touched:
// the level test alone is authoritative, and info/warn/error/critical call
// sites pass through unchanged. Returns the (possibly identical) line and a
// modification record when a rewrite happened.
func (r *Rewriter) RewriteLine(line string, category classify.Category) (string, *journal.Modification) {
	loc := r.callRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return line, nil
	}

	level := line[loc[2]:loc[3]]
	if level != "debug" {
		return line, nil
	}

	// Best-effort message extraction: first quoted literal after the call
	// parenthesis. Can mis-extract messages split across lines or containing
	// escaped quotes.
	message := ""
	if m := r.msgRe.FindStringSubmatch(line[loc[1]:]); m != nil {
		message = m[1]
	}

	newLine := line[:loc[0]] + r.cfg.Macro + "(" + string(category) + ", " + line[loc[1]:]

	return newLine, &journal.Modification{
		Kind:     journal.KindCallRewrite,
		Original: strings.TrimSpace(line),
		New:      strings.TrimSpace(newLine),
		Level:    level,
		Category: string(category),
		Message:  message,
	}
}

// EnsureHeader idempotently ensures a single inclusion of the support header,
// inserted immediately after the last pre-existing include directive. Content
// without any include directive is left unchanged. Returns the new content
// and a record when an insertion happened.
func (r *Rewriter) EnsureHeader(content string) (string, *journal.Modification) {
	if strings.Contains(content, r.cfg.HeaderInclude) {
		return content, nil
	}

	lines := strings.Split(content, "\n")
	lastInclude := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#include") {
			lastInclude = i
		}
	}
	if lastInclude < 0 {
		return content, nil
	}

	inserted := make([]string, 0, len(lines)+1)
	inserted = append(inserted, lines[:lastInclude+1]...)
	inserted = append(inserted, r.cfg.HeaderInclude)
	inserted = append(inserted, lines[lastInclude+1:]...)

	return strings.Join(inserted, "\n"), &journal.Modification{
		Kind:       journal.KindHeaderInsertion,
		New:        r.cfg.HeaderInclude,
		LineNumber: lastInclude + 2,
	}
}
