package rewrite

import (
	"regexp"
	"strings"
)

var (
	reSpaces       = regexp.MustCompile(`\s+`)
	reSpaceBefore  = regexp.MustCompile(`\s+([.,!?;:])`)
	reCommaStop    = regexp.MustCompile(`,([.!?])`)
	reRepeatedStop = regexp.MustCompile(`([.!?])[.!?]+`)
	reSentenceHead = regexp.MustCompile(`([.!?]\s+)([a-z])`)
	reArticle      = regexp.MustCompile(`\b([Aa]) ([A-Za-z][A-Za-z'-]*)`)
)

// consonant-sounding vowel openings and vowel-sounding consonant openings
var (
	consonantVowelPrefixes = []string{"uni", "use", "usu", "uti", "eu", "one", "once"}
	silentHPrefixes        = []string{"hour", "honest", "honor", "honour", "heir"}
)

// Polish normalizes spacing and punctuation, capitalizes sentence starts and fixes
// "a" before vowel sounds. Paragraph breaks are preserved.
func Polish(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	paras := strings.Split(text, "\n\n")
	out := make([]string, 0, len(paras))
	for _, p := range paras {
		p = strings.TrimSpace(reSpaces.ReplaceAllString(p, " "))
		if p == "" {
			continue
		}
		p = reSpaceBefore.ReplaceAllString(p, "$1")
		p = reCommaStop.ReplaceAllString(p, "$1")
		p = reRepeatedStop.ReplaceAllString(p, "$1")
		p = reSentenceHead.ReplaceAllStringFunc(p, func(m string) string {
			return m[:len(m)-1] + strings.ToUpper(m[len(m)-1:])
		})
		p = reArticle.ReplaceAllStringFunc(p, fixArticle)
		out = append(out, upperFirst(p))
	}
	return strings.Join(out, "\n\n")
}

func fixArticle(m string) string {
	sub := reArticle.FindStringSubmatch(m)
	if len(sub) != 3 {
		return m
	}
	if !startsWithVowelSound(sub[2]) {
		return m
	}
	return sub[1] + "n " + sub[2]
}

func startsWithVowelSound(word string) bool {
	w := strings.ToLower(word)
	for _, p := range silentHPrefixes {
		if strings.HasPrefix(w, p) {
			return true
		}
	}
	if !strings.ContainsRune("aeiou", rune(w[0])) {
		return false
	}
	for _, p := range consonantVowelPrefixes {
		if strings.HasPrefix(w, p) {
			return false
		}
	}
	return true
}
