package transform

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	QuestionTagPrefix = "q_"
	AnswerTagPrefix   = "a_"
)

var tokenPattern = regexp.MustCompile(`<\w+>`)

// ScopeTag places a tag in the namespace of a pathway. Global tags are
// shared across pathways and returned unchanged.
func ScopeTag(tag, pathway string, global bool, prefix string) string {
	if global {
		return tag
	}
	return prefix + pathway + "_" + tag
}

// IsScoped reports whether value is already in its final namespace.
func IsScoped(value, pathway, prefix string, global bool) bool {
	if global {
		return value != ""
	}
	return strings.Contains(value, prefix+pathway+"_")
}

func TransformQuestionTag(tag, pathway string, global bool) string {
	if IsScoped(tag, pathway, QuestionTagPrefix, global) {
		return tag
	}
	return ScopeTag(tag, pathway, global, QuestionTagPrefix)
}

func TransformAnswerTag(tag, pathway string, global bool) string {
	if IsScoped(tag, pathway, AnswerTagPrefix, global) {
		return tag
	}
	return ScopeTag(tag, pathway, global, AnswerTagPrefix)
}

// strippedTagChars are removed from text before it becomes a tag. Quotes,
// brackets, @, + and | are kept.
const strippedTagChars = ".,-/#!$%^&*;:{}=`~()<>?"

// tagText lowercases text, turns spaces into underscores and drops
// strippedTagChars.
func tagText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case strings.ContainsRune(strippedTagChars, r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tagSet derives tags from text for a single transformation run. Repeated
// text gets a numeric suffix starting at 2 and a suffix is never handed out
// twice even when it collides with text that derives to the same value.
type tagSet struct {
	counts map[string]int
	used   map[string]bool
}

func newTagSet() *tagSet {
	return &tagSet{
		counts: make(map[string]int),
		used:   make(map[string]bool),
	}
}

func (ts *tagSet) fromText(text string) string {
	base := tagText(text)
	n := ts.counts[base] + 1
	tag := base
	if n > 1 || ts.used[base] {
		if n < 2 {
			n = 2
		}
		for tag = base + "_" + strconv.Itoa(n); ts.used[tag]; tag = base + "_" + strconv.Itoa(n) {
			n++
		}
	}
	ts.counts[base] = n
	ts.used[tag] = true
	return tag
}
