package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("lowercases and trims", func(t *testing.T) {
		assert.Equal(t, "shufersal deal", Normalize("  Shufersal   DEAL  "))
	})

	t.Run("strips zero-width and bidi controls", func(t *testing.T) {
		assert.Equal(t, "shufersal", Normalize("shu\u200bfer\u200fsal"))
		assert.Equal(t, "shufersal", Normalize("\ufeffshufersal"))
		assert.Equal(t, "abc", Normalize("\u202ea\u200db\u2066c\u2069"))
	})

	t.Run("strips niqqud", func(t *testing.T) {
		assert.Equal(t, "שלום", Normalize("שָׁלוֹם"))
	})

	t.Run("canonicalizes quotes and dashes", func(t *testing.T) {
		// Curly quote becomes apostrophe, then is stripped by the charset filter.
		assert.Equal(t, "dont -", Normalize("don’t –"))
	})

	t.Run("collapses repeated letters to two", func(t *testing.T) {
		assert.Equal(t, "כןן", Normalize("כןןןןן"))
		assert.Equal(t, "yess", Normalize("yessssss"))
	})

	t.Run("keeps double letters untouched", func(t *testing.T) {
		assert.Equal(t, "coffee", Normalize("coffee"))
	})

	t.Run("does not collapse repeated digits", func(t *testing.T) {
		assert.Equal(t, "1000", Normalize("1000"))
	})

	t.Run("strips punctuation outside the allowed set", func(t *testing.T) {
		assert.Equal(t, "milk 3 1l", Normalize("Milk 3% (1L)!"))
	})

	t.Run("keeps hyphens", func(t *testing.T) {
		assert.Equal(t, "coca-cola", Normalize("Coca-Cola"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
		assert.Equal(t, "", Normalize("   "))
	})
}

func TestToken(t *testing.T) {
	t.Run("strips everything but letters and digits", func(t *testing.T) {
		assert.Equal(t, "קג", Token("ק\"ג"))
		assert.Equal(t, "1l", Token(" 1L "))
		assert.Equal(t, "shufersal", Token("Shufersal"))
	})

	t.Run("empty for symbol-only input", func(t *testing.T) {
		assert.Equal(t, "", Token("!?"))
	})
}

func TestContainsHebrew(t *testing.T) {
	assert.True(t, ContainsHebrew("שופרסל"))
	assert.True(t, ContainsHebrew("milk חלב"))
	assert.False(t, ContainsHebrew("milk"))
}

func TestDetectLocale(t *testing.T) {
	assert.Equal(t, "he", DetectLocale("חלב תנובה"))
	assert.Equal(t, "en", DetectLocale("Tnuva milk"))
	assert.Equal(t, "en", DetectLocale("490"))
}

func TestNormalizeLocale(t *testing.T) {
	assert.Equal(t, "he", NormalizeLocale("he-IL"))
	assert.Equal(t, "he", NormalizeLocale("HE"))
	assert.Equal(t, "en", NormalizeLocale("en-US"))
	assert.Equal(t, "en", NormalizeLocale(""))
	assert.Equal(t, "en", NormalizeLocale("fr"))
}

func TestIsKeyword(t *testing.T) {
	t.Run("cancel keywords per locale", func(t *testing.T) {
		assert.True(t, IsKeyword("Cancel", CategoryCancel, "en"))
		assert.True(t, IsKeyword("ביטול", CategoryCancel, "he"))
		assert.False(t, IsKeyword("continue", CategoryCancel, "en"))
	})

	t.Run("hebrew skip pattern matches", func(t *testing.T) {
		assert.True(t, IsKeyword("דלג", CategorySkip, "he"))
		assert.True(t, IsKeyword("דלגו", CategorySkip, "he"))
		assert.True(t, IsKeyword("אין מותג", CategorySkip, "he"))
	})

	t.Run("unknown locale falls back to english", func(t *testing.T) {
		assert.True(t, IsKeyword("skip", CategorySkip, "fr"))
		assert.True(t, IsKeyword("yes", CategoryYes, ""))
	})

	t.Run("normalization is applied before matching", func(t *testing.T) {
		assert.True(t, IsKeyword("  YES  ", CategoryYes, "en"))
		assert.True(t, IsKeyword("לָא", CategoryNo, "he"))
	})

	t.Run("empty text never matches", func(t *testing.T) {
		assert.False(t, IsKeyword("", CategoryYes, "en"))
	})

	t.Run("city change keywords", func(t *testing.T) {
		assert.True(t, IsKeyword("change city", CategoryCityChange, "en"))
		assert.True(t, IsKeyword("עיר אחרת", CategoryCityChange, "he"))
	})
}
