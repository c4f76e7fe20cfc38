package text

import "regexp"

// Category names a semantic keyword group recognized across the flows.
type Category string

const (
	CategoryCancel     Category = "cancel"
	CategoryYes        Category = "yes"
	CategoryNo         Category = "no"
	CategorySkip       Category = "skip"
	CategoryCityChange Category = "cityChange"
)

type keywordSet struct {
	words    map[string]bool
	patterns []*regexp.Regexp
}

func words(ws ...string) map[string]bool {
	m := make(map[string]bool, len(ws))
	for _, w := range ws {
		m[w] = true
	}
	return m
}

var reHebrewSkip = regexp.MustCompile(`^דלג(ו)?$`)

// keywords is static configuration, built once and never mutated.
var keywords = map[Category]map[string]keywordSet{
	CategoryCancel: {
		"en": {words: words("cancel", "stop", "end", "quit")},
		"he": {words: words("בטל", "ביטול", "סיים", "סיום")},
	},
	CategoryYes: {
		"en": {words: words("yes", "y", "yeah", "yep", "si")},
		"he": {words: words("כן")},
	},
	CategoryNo: {
		"en": {words: words("no", "n", "nope", "not")},
		"he": {words: words("לא", "אין")},
	},
	CategorySkip: {
		"en": {words: words(
			"skip", "n/a", "na", "none", "unknown",
			"dont know", "don't know", "generic",
			"no brand", "no branch",
		)},
		"he": {
			words: words(
				"דלג", "דלגו", "אין", "בלי",
				"אין מותג", "בלי מותג", "אין סניף", "בלי סניף",
				"לא יודע", "לא ידוע",
			),
			patterns: []*regexp.Regexp{reHebrewSkip},
		},
	},
	CategoryCityChange: {
		"en": {words: words("change city", "change", "other city")},
		"he": {words: words("שנה עיר", "שנו עיר", "עיר אחרת", "שינוי עיר")},
	},
}

// IsKeywordNorm matches already-normalized text against a keyword category.
// Use when the caller has applied Normalize.
func IsKeywordNorm(normText string, category Category, locale string) bool {
	if normText == "" {
		return false
	}
	byLang, ok := keywords[category]
	if !ok {
		return false
	}
	ks, ok := byLang[NormalizeLocale(locale)]
	if !ok {
		ks = byLang["en"]
	}
	if ks.words[normText] {
		return true
	}
	for _, p := range ks.patterns {
		if p.MatchString(normText) {
			return true
		}
	}
	return false
}

// IsKeyword normalizes the given text and matches it to a keyword category.
func IsKeyword(s string, category Category, locale string) bool {
	return IsKeywordNorm(Normalize(s), category, locale)
}
