package units

import (
	"strings"

	"github.com/altonotch/dilli/internal/text"
)

// Unit is one canonical unit-of-measure entry with bilingual labels and the
// alias spellings users actually type.
type Unit struct {
	Slug    string
	En      string
	He      string
	Aliases []string
}

// Resolution is the outcome of resolving free text to a unit. An empty Slug
// with non-empty labels means the input did not match the canon and is
// carried through as free text.
type Resolution struct {
	Slug string
	En   string
	He   string
}

// canon is static configuration, loaded once. Aliases cover both scripts and
// common abbreviations.
var canon = []Unit{
	{Slug: "liter", En: "Liter", He: "ליטר", Aliases: []string{"liter", "litre", "ltr", "l", "ליטר", "ליט'", "ל'"}},
	{Slug: "milliliter", En: "Milliliter", He: "מיליליטר", Aliases: []string{"milliliter", "millilitre", "ml", "מיליליטר", "מ״ל", "מל"}},
	{Slug: "kilogram", En: "Kilogram", He: "קילוגרם", Aliases: []string{"kilogram", "kg", "kilo", "ק\"ג", "קג", "קילו", "קילוגרם"}},
	{Slug: "gram", En: "Gram", He: "גרם", Aliases: []string{"gram", "gr", "g", "גרם", "ג'", "גר"}},
	{Slug: "unit", En: "Unit", He: "יחידה", Aliases: []string{"unit", "piece", "pcs", "יחידה", "יח'", "יחידות"}},
	{Slug: "pack", En: "Pack", He: "חבילה", Aliases: []string{"pack", "package", "pkg", "חבילה", "חב'", "חב"}},
	{Slug: "bottle", En: "Bottle", He: "בקבוק", Aliases: []string{"bottle", "btl", "בקבוק"}},
	{Slug: "can", En: "Can", He: "פחית", Aliases: []string{"can", "פחית"}},
	{Slug: "bag", En: "Bag", He: "שקית", Aliases: []string{"bag", "sack", "שקית", "שק"}},
	{Slug: "tray", En: "Tray", He: "מגש", Aliases: []string{"tray", "מגש"}},
	{Slug: "box", En: "Box", He: "קופסה", Aliases: []string{"box", "קופסה", "קופסא"}},
	{Slug: "jar", En: "Jar", He: "צנצנת", Aliases: []string{"jar", "צנצנת"}},
	{Slug: "tub", En: "Tub", He: "מיכל", Aliases: []string{"tub", "מיכל"}},
}

// Catalog resolves free-text unit labels to the canonical set. The alias
// index is built once at construction from the static canon.
type Catalog struct {
	bySlug  map[string]*Unit
	byAlias map[string]*Unit
}

func NewCatalog() *Catalog {
	c := &Catalog{
		bySlug:  make(map[string]*Unit, len(canon)),
		byAlias: make(map[string]*Unit),
	}
	for i := range canon {
		u := &canon[i]
		c.bySlug[u.Slug] = u
		for _, alias := range u.Aliases {
			c.byAlias[text.Token(alias)] = u
		}
		c.byAlias[text.Token(u.En)] = u
		c.byAlias[text.Token(u.He)] = u
	}
	return c
}

// Resolve maps raw unit text to canonical bilingual labels. Unmatched input
// degrades to free text: both labels carry the input (title-cased for
// non-Hebrew script) and the slug is the normalized token.
func (c *Catalog) Resolve(raw string) Resolution {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return Resolution{}
	}
	if u, ok := c.byAlias[text.Token(cleaned)]; ok {
		return Resolution{Slug: u.Slug, En: u.En, He: u.He}
	}
	if text.ContainsHebrew(cleaned) {
		return Resolution{He: cleaned, En: cleaned, Slug: ""}
	}
	capitalized := title(cleaned)
	return Resolution{He: capitalized, En: capitalized, Slug: ""}
}

// BySlug returns the canonical entry for a slug, or nil.
func (c *Catalog) BySlug(slug string) *Unit {
	return c.bySlug[text.Token(slug)]
}

// LabelForLocale converts a previously tapped unit button id back into
// display text. Empty when the slug is not canonical.
func (c *Catalog) LabelForLocale(slug, locale string) string {
	u := c.BySlug(slug)
	if u == nil {
		return ""
	}
	if text.NormalizeLocale(locale) == "he" {
		return u.He
	}
	return u.En
}

func title(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		r := []rune(f)
		fields[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(fields, " ")
}
