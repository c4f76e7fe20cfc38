package text

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Zero-width and bidi controls commonly seen in chat apps.
var invisibleRunes = map[rune]bool{
	'\u200b': true, '\u200c': true, '\u200d': true, '\ufeff': true,
	'\u200e': true, '\u200f': true,
	'\u202a': true, '\u202b': true, '\u202c': true, '\u202d': true, '\u202e': true,
	'\u2066': true, '\u2067': true, '\u2068': true, '\u2069': true,
}

// Hebrew niqqud (combining marks) range.
const niqqudStart, niqqudEnd = 0x0591, 0x05C7

// Dash and quote variants, including Hebrew maqaf/geresh/gershayim.
const dashRunes = "‐‑‒–—―−־"
const quoteRunes = "‘’‚‛“”„‟׳״"

var caseFolder = cases.Fold()

func isHebrew(r rune) bool {
	return r >= 0x0590 && r <= 0x05FF
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// ContainsHebrew reports whether the string has any Hebrew-block rune.
func ContainsHebrew(s string) bool {
	for _, r := range s {
		if isHebrew(r) {
			return true
		}
	}
	return false
}

// DetectLocale guesses 'he' or 'en' from script alone. Numeric-only input
// gives no signal and callers must not let it flip a stored locale.
func DetectLocale(s string) string {
	if ContainsHebrew(s) {
		return "he"
	}
	return "en"
}

// NormalizeLocale reduces a locale tag to 'he' or 'en', defaulting to 'en'.
func NormalizeLocale(locale string) string {
	s := strings.ToLower(strings.TrimSpace(locale))
	if strings.HasPrefix(s, "he") || s == "hebrew" || s == "עברית" {
		return "he"
	}
	return "en"
}

// Normalize prepares free-form user text for keyword and fuzzy matching.
// Not for numeric parsing. Pure; operates on Unicode ranges, not locale tags.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case invisibleRunes[r]:
		case r >= niqqudStart && r <= niqqudEnd:
		case strings.ContainsRune(quoteRunes, r):
			b.WriteByte('\'')
		case strings.ContainsRune(dashRunes, r):
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	s = caseFolder.String(b.String())
	s = collapseRepeats(s)

	b.Reset()
	for _, r := range s {
		if isLatinLetter(r) || isHebrew(r) || (r >= '0' && r <= '9') || r == ' ' || r == '-' || r == '\t' || r == '\n' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// collapseRepeats shortens any run of 3+ identical Hebrew/Latin letters to 2,
// defeating emphasis spam like "כןןןן". Other runes pass through untouched.
func collapseRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev && (isLatinLetter(r) || isHebrew(r)) {
			run++
			if run > 2 {
				continue
			}
		} else {
			prev = r
			run = 1
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Token strips everything but Latin/Hebrew letters and digits and lowercases,
// producing the comparison key used by the unit catalog and store search
// terms.
func Token(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isLatinLetter(r) || isHebrew(r) || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
