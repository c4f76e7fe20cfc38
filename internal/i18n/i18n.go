package i18n

import (
	"strings"

	"github.com/altonotch/dilli/internal/text"
)

// Catalog is an in-process message table for the two supported locales.
// All user-facing prompts and errors are keyed strings; parameters use
// {name} placeholders.
type Catalog struct {
	messages map[string]map[string]string
}

func NewCatalog() *Catalog {
	return &Catalog{messages: messages}
}

// Translate resolves a message key for a locale and substitutes parameters.
// Unknown locales fall back to English; an unknown key is returned as-is so
// missing translations are visible rather than silent.
func (c *Catalog) Translate(key, locale string, params map[string]string) string {
	byLocale, ok := c.messages[key]
	if !ok {
		return key
	}
	msg, ok := byLocale[text.NormalizeLocale(locale)]
	if !ok || msg == "" {
		msg = byLocale["en"]
	}
	for name, value := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", value)
	}
	return msg
}
