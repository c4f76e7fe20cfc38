package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	c := NewCatalog()

	t.Run("resolves english by default", func(t *testing.T) {
		assert.Equal(t, "Which city is the store in?", c.Translate("prompt.city", "en", nil))
	})

	t.Run("resolves hebrew", func(t *testing.T) {
		assert.Equal(t, "באיזו עיר נמצאת החנות?", c.Translate("prompt.city", "he", nil))
	})

	t.Run("unknown locale falls back to english", func(t *testing.T) {
		assert.Equal(t, "Which city is the store in?", c.Translate("prompt.city", "fr", nil))
		assert.Equal(t, "Which city is the store in?", c.Translate("prompt.city", "", nil))
	})

	t.Run("locale region tags are accepted", func(t *testing.T) {
		assert.Equal(t, "באיזו עיר נמצאת החנות?", c.Translate("prompt.city", "he-IL", nil))
	})

	t.Run("substitutes parameters", func(t *testing.T) {
		got := c.Translate("summary.store", "en", map[string]string{"value": "Shufersal"})
		assert.Equal(t, "Store: Shufersal", got)
	})

	t.Run("substitutes multiple parameters", func(t *testing.T) {
		got := c.Translate("summary.price", "en", map[string]string{"price": "4.90", "units": "2"})
		assert.Equal(t, "Price: 4.90 (2 unit(s))", got)
	})

	t.Run("unknown key is returned verbatim", func(t *testing.T) {
		assert.Equal(t, "no.such.key", c.Translate("no.such.key", "en", nil))
	})
}

func TestCatalogCoverage(t *testing.T) {
	t.Run("every key has english text", func(t *testing.T) {
		for key, byLocale := range messages {
			assert.NotEmpty(t, byLocale["en"], "key %s missing english", key)
		}
	})

	t.Run("every key has hebrew text", func(t *testing.T) {
		for key, byLocale := range messages {
			assert.NotEmpty(t, byLocale["he"], "key %s missing hebrew", key)
		}
	})
}
