package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

const (
	MatcherRegexp = "regexp"
	MatcherFuzzy  = "fuzzy"
)

// Matcher decides whether a line of text satisfies one filter term.
type Matcher interface {
	// Match reports whether text satisfies the filter.
	Match(text string) bool

	// Term returns the filter as the user wrote it.
	Term() string

	// Kind returns the matcher type identifier.
	Kind() string
}

// RegexpMatcher matches text against a regular expression.
type RegexpMatcher struct {
	term string
	re   *regexp.Regexp
}

// NewRegexpMatcher compiles term as a regular expression.
func NewRegexpMatcher(term string) (*RegexpMatcher, error) {
	re, err := regexp.Compile(term)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", term, err)
	}
	return &RegexpMatcher{term: term, re: re}, nil
}

// Match reports whether the regular expression matches anywhere in text.
func (m *RegexpMatcher) Match(text string) bool {
	return m.re.MatchString(text)
}

// Term returns the source pattern.
func (m *RegexpMatcher) Term() string { return m.term }

// Kind returns MatcherRegexp.
func (m *RegexpMatcher) Kind() string { return MatcherRegexp }

// FuzzyMatcher matches text with the fzf fuzzy algorithm, case-insensitively.
type FuzzyMatcher struct {
	term    string
	pattern []rune
	slab    *util.Slab
}

// NewFuzzyMatcher creates a fuzzy matcher for term.
func NewFuzzyMatcher(term string) (*FuzzyMatcher, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("empty fuzzy pattern")
	}
	return &FuzzyMatcher{
		term:    term,
		pattern: []rune(strings.ToLower(term)),
		slab:    util.MakeSlab(64, 4096),
	}, nil
}

// Match reports whether every rune of the term appears in text, in order.
func (m *FuzzyMatcher) Match(text string) bool {
	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, m.pattern, false, m.slab)
	return result.Score > 0
}

// Term returns the fuzzy pattern.
func (m *FuzzyMatcher) Term() string { return m.term }

// Kind returns MatcherFuzzy.
func (m *FuzzyMatcher) Kind() string { return MatcherFuzzy }

// NewMatcher builds a matcher of the given kind.
func NewMatcher(kind, term string) (Matcher, error) {
	switch kind {
	case MatcherFuzzy:
		return NewFuzzyMatcher(term)
	case MatcherRegexp, "":
		return NewRegexpMatcher(term)
	default:
		return nil, fmt.Errorf("unknown matcher %q (use regexp or fuzzy)", kind)
	}
}
