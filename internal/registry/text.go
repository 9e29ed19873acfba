package registry

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultArticles are the words dropped from blank answers when a payload
// sets ignore_articles.
var DefaultArticles = []string{"a", "an", "the"}

// Matcher compares candidate text against answer keys.
type Matcher struct {
	articles map[string]struct{}
}

func newMatcher(articles []string) *Matcher {
	m := &Matcher{articles: make(map[string]struct{}, len(articles))}
	for _, a := range articles {
		if a = NormalizeText(a); a != "" {
			m.articles[a] = struct{}{}
		}
	}
	return m
}

// NormalizeText folds case, applies NFKC, trims and collapses internal whitespace.
// cases.Caser is stateful, so a fresh one is built per call.
func NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// tokens returns the normalized words of s, minus articles when asked.
func (m *Matcher) tokens(s string, ignoreArticles bool) []string {
	words := strings.Fields(NormalizeText(s))
	if !ignoreArticles {
		return words
	}
	out := words[:0]
	for _, w := range words {
		if _, ok := m.articles[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}

// WordCount counts whitespace separated words without any normalization.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Alternatives splits a "six|6" style key into its accepted forms.
func Alternatives(key string) []string {
	parts := strings.Split(key, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MatchBlank reports whether answer fills a blank whose key is key. Answers
// over maxWords (when maxWords > 0) never match.
func (m *Matcher) MatchBlank(key, answer string, maxWords int, ignoreArticles bool) bool {
	got := m.tokens(answer, ignoreArticles)
	if len(got) == 0 {
		return false
	}
	if maxWords > 0 && len(got) > maxWords {
		return false
	}
	want := strings.Join(got, " ")
	for _, alt := range Alternatives(key) {
		if strings.Join(m.tokens(alt, ignoreArticles), " ") == want {
			return true
		}
	}
	return false
}

// keyWords is the word count of the longest alternative of key.
func (m *Matcher) keyWords(key string, ignoreArticles bool) int {
	longest := 0
	for _, alt := range Alternatives(key) {
		if n := len(m.tokens(alt, ignoreArticles)); n > longest {
			longest = n
		}
	}
	return longest
}

// sameID compares option, item or position identifiers.
func sameID(a, b string) bool {
	return NormalizeText(a) == NormalizeText(b)
}

var (
	placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_\-]+)\s*\}\}`)
	blankMarkerRe = regexp.MustCompile(`_{3,}|…{2,}|\.{4,}|\{\{\s*[A-Za-z0-9_\-]*\s*\}\}|\[\s*(?i:blank|gap)\s*\d*\s*\]`)
)

// Placeholders returns the distinct {{id}} markers of a template in order.
func Placeholders(template string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		if id := m[1]; !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// CountBlanks counts gap markers ("___", "{{n}}", "[blank]", "....") in text.
func CountBlanks(text string) int {
	return len(blankMarkerRe.FindAllStringIndex(text, -1))
}

// TFNG answer values.
const (
	TFNGTrue     = "True"
	TFNGFalse    = "False"
	TFNGNotGiven = "Not Given"
)

// CanonicalTFNG maps loose spellings ("T", "ng", "not_given", "yes") onto the
// three canonical values.
func CanonicalTFNG(s string) (string, bool) {
	n := strings.NewReplacer("_", " ", "-", " ").Replace(NormalizeText(s))
	n = strings.Join(strings.Fields(n), " ")
	switch n {
	case "true", "t", "yes", "y":
		return TFNGTrue, true
	case "false", "f", "no", "n":
		return TFNGFalse, true
	case "not given", "ng", "notgiven", "not":
		return TFNGNotGiven, true
	}
	return "", false
}
