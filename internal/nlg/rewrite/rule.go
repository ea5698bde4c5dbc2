// Package rewrite applies ordered find/replace rules to generated text.
package rewrite

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule replaces every match of Pattern with Replace ($1-style expansion allowed).
// With KeepCase set, a match that starts upper-case yields a replacement that
// starts upper-case too. A match whose preceding text matches Unless is left as is.
type Rule struct {
	Pattern  *regexp.Regexp
	Replace  string
	KeepCase bool
	Unless   *regexp.Regexp
}

// Word builds a case-insensitive whole-word rule that keeps the leading case.
func Word(word, replace string) Rule {
	return Rule{
		Pattern:  regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`),
		Replace:  replace,
		KeepCase: true,
	}
}

// Compile builds a rule from a user-supplied expression.
func Compile(expr, replace string, keepCase bool) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("rewrite: bad pattern %q: %w", expr, err)
	}
	return Rule{Pattern: re, Replace: replace, KeepCase: keepCase}, nil
}

func MustCompile(expr, replace string) Rule {
	return Rule{Pattern: regexp.MustCompile(expr), Replace: replace}
}

// UnlessAfter returns r guarded so that matches directly preceded by one of the
// given modifiers stay unchanged.
func (r Rule) UnlessAfter(modifiers ...string) Rule {
	if len(modifiers) == 0 {
		return r
	}
	alts := make([]string, len(modifiers))
	for i, m := range modifiers {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(m), " ", `\s+`)
	}
	r.Unless = regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\s+$`)
	return r
}

func (r Rule) Apply(s string) string {
	if r.Pattern == nil {
		return s
	}
	if !r.KeepCase && r.Unless == nil {
		return r.Pattern.ReplaceAllString(s, r.Replace)
	}
	var (
		b    strings.Builder
		last int
	)
	for _, m := range r.Pattern.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:m[0]])
		last = m[1]
		match := s[m[0]:m[1]]
		if r.Unless != nil && r.Unless.MatchString(s[:m[0]]) {
			b.WriteString(match)
			continue
		}
		out := string(r.Pattern.ExpandString(nil, r.Replace, s, m))
		if first, _ := utf8.DecodeRuneInString(match); r.KeepCase && unicode.IsUpper(first) {
			out = upperFirst(out)
		}
		b.WriteString(out)
	}
	b.WriteString(s[last:])
	return b.String()
}

// Chain is an ordered rule list applied as a left fold.
type Chain []Rule

func (c Chain) Apply(s string) string {
	for _, r := range c {
		s = r.Apply(s)
	}
	return s
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst lower-cases the first letter unless the text opens with the pronoun I.
func LowerFirst(s string) string {
	if s == "I" || len(s) > 1 && s[0] == 'I' && (s[1] == ' ' || s[1] == '\'') {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// UpperFirst upper-cases the first letter.
func UpperFirst(s string) string { return upperFirst(s) }
