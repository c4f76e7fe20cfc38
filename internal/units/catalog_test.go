package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	c := NewCatalog()

	t.Run("resolves english aliases", func(t *testing.T) {
		for _, alias := range []string{"kg", "Kilo", "KILOGRAM"} {
			res := c.Resolve(alias)
			assert.Equal(t, "kilogram", res.Slug, "alias %q", alias)
			assert.Equal(t, "Kilogram", res.En)
			assert.Equal(t, "קילוגרם", res.He)
		}
	})

	t.Run("resolves hebrew aliases including abbreviations", func(t *testing.T) {
		for _, alias := range []string{"ק\"ג", "קג", "קילו"} {
			res := c.Resolve(alias)
			assert.Equal(t, "kilogram", res.Slug, "alias %q", alias)
		}
	})

	t.Run("resolves canonical labels directly", func(t *testing.T) {
		assert.Equal(t, "liter", c.Resolve("Liter").Slug)
		assert.Equal(t, "liter", c.Resolve("ליטר").Slug)
	})

	t.Run("alias punctuation is ignored", func(t *testing.T) {
		assert.Equal(t, "unit", c.Resolve("יח'").Slug)
		assert.Equal(t, "gram", c.Resolve("ג'").Slug)
	})

	t.Run("unmatched latin input passes through title-cased", func(t *testing.T) {
		res := c.Resolve("six pack carton")
		assert.Empty(t, res.Slug)
		assert.Equal(t, "Six Pack Carton", res.En)
		assert.Equal(t, "Six Pack Carton", res.He)
	})

	t.Run("unmatched hebrew input passes through verbatim", func(t *testing.T) {
		res := c.Resolve("ארגז גדול")
		assert.Empty(t, res.Slug)
		assert.Equal(t, "ארגז גדול", res.He)
		assert.Equal(t, "ארגז גדול", res.En)
	})

	t.Run("empty input resolves to zero value", func(t *testing.T) {
		assert.Equal(t, Resolution{}, c.Resolve("   "))
	})
}

func TestLabelForLocale(t *testing.T) {
	c := NewCatalog()

	t.Run("returns locale label for canonical slug", func(t *testing.T) {
		assert.Equal(t, "Liter", c.LabelForLocale("liter", "en"))
		assert.Equal(t, "ליטר", c.LabelForLocale("liter", "he-IL"))
	})

	t.Run("empty for unknown slug", func(t *testing.T) {
		assert.Empty(t, c.LabelForLocale("parsec", "en"))
	})
}

func TestBySlug(t *testing.T) {
	c := NewCatalog()
	u := c.BySlug("bottle")
	if assert.NotNil(t, u) {
		assert.Equal(t, "Bottle", u.En)
		assert.Equal(t, "בקבוק", u.He)
	}
	assert.Nil(t, c.BySlug("nope"))
}
