package rewrite

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/pagesmith"
)

// Quality thresholds for humanizer output. Output failing any of them is
// discarded and the generated candidate is kept.
const (
	MaxNonASCIIRatio = 0.05
	MaxSymbolRatio   = 0.25
	MinLengthRatio   = 0.5
	MaxLengthRatio   = 2.5
)

// Length flagging applies to originals at least this long.
const minFlagChars = 60

// Humanization eligibility thresholds.
const (
	minProseChars   = 40
	minGenericChars = 120
)

var (
	// humanizeProseHintPattern matches running prose elements.
	humanizeProseHintPattern = regexp.MustCompile(`^<(p|li|blockquote)[#.>]`)

	// chromeHintPattern matches short interface copy that is never humanized.
	chromeHintPattern = regexp.MustCompile(`^<(h[1-6]|button|nav|a|label|title|meta|option|summary)[#.> ]`)
)

// IsHumanizable reports whether text generated for g may be sent to the
// humanizer.
func IsHumanizable(g *pagesmith.RewriteGroup, text string) bool {
	if g.Kind != pagesmith.TargetText || g.Attr != "" {
		return false
	}
	if chromeHintPattern.MatchString(g.Hint) {
		return false
	}
	n := utf8.RuneCountInString(text)
	if humanizeProseHintPattern.MatchString(g.Hint) {
		return n >= minProseChars
	}
	return n >= minGenericChars
}

// LooksBad reports whether humanizer output should be rejected in favor of
// its input.
func LooksBad(in, out string) bool {
	outLen := utf8.RuneCountInString(out)
	if outLen == 0 {
		return true
	}
	if inLen := utf8.RuneCountInString(in); inLen > 0 {
		ratio := float64(outLen) / float64(inLen)
		if ratio < MinLengthRatio || ratio > MaxLengthRatio {
			return true
		}
	}
	if isASCII(in) && nonASCIIRatio(out) > MaxNonASCIIRatio {
		return true
	}
	return symbolRatio(out) > MaxSymbolRatio
}

// IsLengthOutlier reports whether candidate strays too far from the length
// of original. Short originals are never outliers.
func IsLengthOutlier(original, candidate string) bool {
	origLen := utf8.RuneCountInString(original)
	if origLen < minFlagChars {
		return false
	}
	ratio := float64(utf8.RuneCountInString(candidate)) / float64(origLen)
	return ratio < MinLengthRatio || ratio > MaxLengthRatio
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func nonASCIIRatio(s string) float64 {
	var total, other int
	for _, r := range s {
		total++
		if r >= utf8.RuneSelf {
			other++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(other) / float64(total)
}

// symbolRatio is the number of symbol runes per letter. Ordinary sentence
// punctuation does not count as a symbol.
func symbolRatio(s string) float64 {
	var letters, symbols int
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r), unicode.IsSpace(r):
		case isSentencePunct(r):
		default:
			symbols++
		}
	}
	if letters == 0 {
		if symbols == 0 {
			return 0
		}
		return 1
	}
	return float64(symbols) / float64(letters)
}

func isSentencePunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', '\'', '"', '-', '(', ')', '’', '‘', '“', '”', '–', '—':
		return true
	}
	return false
}
