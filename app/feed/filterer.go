package feed

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternError reports an include or exclude expression that does not compile.
type PatternError struct {
	Field   string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Field, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Filterer is the include/exclude gate applied to a post before it is rendered.
// A nil pattern means the corresponding gate is open.
type Filterer struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

// NewFilterer compiles both expressions once. Empty strings leave the gate unset.
func NewFilterer(include, exclude string) (*Filterer, error) {
	f := &Filterer{}

	var err error
	if f.include, err = compilePattern("include", include); err != nil {
		return nil, err
	}
	if f.exclude, err = compilePattern("exclude", exclude); err != nil {
		return nil, err
	}

	return f, nil
}

func compilePattern(field, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, &PatternError{Field: field, Pattern: pattern, Err: err}
	}
	return re, nil
}

// Allows reports whether a post with the given fragments is retained.
func (f *Filterer) Allows(fragments []string) bool {
	if f.include == nil && f.exclude == nil {
		return true
	}

	subject := strings.Join(fragments, "\n")

	if f.include != nil && !f.include.MatchString(subject) {
		return false
	}
	if f.exclude != nil && f.exclude.MatchString(subject) {
		return false
	}

	return true
}
