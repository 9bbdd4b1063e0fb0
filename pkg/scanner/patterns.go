package scanner

import (
	"fmt"
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// Patterns holds the compiled expressions used to recognize factory imports,
// factory bindings, and createElement-style aliases. One value is built at
// startup from config and shared by reference; the scan functions themselves
// stay pure.
type Patterns struct {
	factoryModule string
	callName      string
	eventNS       string

	// require*(**.React) where * is whitespace and ** is any module path
	requireRe *regexp.Regexp
	// [local] <name> = require(**.React)
	bindingRe *regexp.Regexp
	// [local] <alias> = <binding>.createElement
	aliasRe *regexp.Regexp
	// any quoted or long-bracket string literal, shortest match
	quoteRe *regexp.Regexp
}

// NewPatterns compiles the scan expressions for the given factory naming.
// factoryModule is the trailing segment of the require path ("React"),
// callName the element constructor ("createElement"), and eventNS the
// namespace used in computed event keys ("Event").
func NewPatterns(factoryModule, callName, eventNS string) (*Patterns, error) {
	module := regexp.QuoteMeta(factoryModule)
	call := regexp.QuoteMeta(callName)

	requireRe, err := regexp.Compile(`require\s*\(\s*[^)]*\.` + module + `\s*\)`)
	if err != nil {
		return nil, errors.Errorf("compiling require pattern: %w", err)
	}
	bindingRe, err := regexp.Compile(`(?i)\b(?:local\s+)?(\w+)\s*=\s*require\s*\(.*\.` + module + `\s*\)`)
	if err != nil {
		return nil, errors.Errorf("compiling binding pattern: %w", err)
	}
	aliasRe, err := regexp.Compile(`(?i)\b(?:local\s+)?(\w+)\s*=\s*(\w+)\.` + call + `\b`)
	if err != nil {
		return nil, errors.Errorf("compiling alias pattern: %w", err)
	}
	quoteRe := regexp.MustCompile("(?s)(?:\"([^\"]*?)\"|'([^']*?)'|`([^`]*?)`|\\[\\[([^\\]]*?)\\]\\])")

	return &Patterns{
		factoryModule: factoryModule,
		callName:      callName,
		eventNS:       eventNS,
		requireRe:     requireRe,
		bindingRe:     bindingRe,
		aliasRe:       aliasRe,
		quoteRe:       quoteRe,
	}, nil
}

// CallName returns the configured constructor name.
func (p *Patterns) CallName() string {
	return p.callName
}

// EventNeedle returns the text introducing a computed event key for the
// given factory binding, e.g. "React.Event.".
func (p *Patterns) EventNeedle(binding string) string {
	return fmt.Sprintf("%s.%s.", binding, p.eventNS)
}
