package flow

import (
	"strconv"
	"strings"

	"github.com/altonotch/dilli/internal/model"
)

// renderSummary builds the human-readable recap of a completed report.
// Only fields the user actually supplied appear.
func (e *Engine) renderSummary(data *model.SessionData, locale string) string {
	t := func(key string, params map[string]string) string {
		return e.tr.Translate(key, locale, params)
	}

	var lines []string
	if data.StoreName != "" {
		lines = append(lines, t("summary.store", map[string]string{"value": data.StoreName}))
	}
	if data.Branch != "" {
		lines = append(lines, t("summary.branch", map[string]string{"value": data.Branch}))
	}
	if city := summaryCity(data, locale); city != "" {
		lines = append(lines, t("summary.city", map[string]string{"value": city}))
	}
	if data.ProductName != "" {
		lines = append(lines, t("summary.product", map[string]string{"value": data.ProductName}))
	}
	if data.Brand != "" {
		lines = append(lines, t("summary.brand", map[string]string{"value": data.Brand}))
	}
	if unit := e.summaryUnit(data, locale); unit != "" {
		lines = append(lines, t("summary.unit", map[string]string{"value": unit}))
	}
	if data.Price != "" {
		units := data.UnitsInPrice
		if units <= 0 {
			units = 1
		}
		lines = append(lines, t("summary.price", map[string]string{
			"price": data.Price,
			"units": strconv.Itoa(units),
		}))
	}
	if data.ClubOnly != nil {
		if *data.ClubOnly {
			lines = append(lines, t("summary.club.yes", nil))
		} else {
			lines = append(lines, t("summary.club.no", nil))
		}
	}
	if data.LimitQty != nil {
		lines = append(lines, t("summary.limit", map[string]string{"value": strconv.Itoa(*data.LimitQty)}))
	}
	if data.MinCartTotal != "" {
		lines = append(lines, t("summary.cart", map[string]string{"value": data.MinCartTotal}))
	}

	summary := strings.Join(lines, "\n")
	return summary + "\n\n" + t("summary.moderation", nil) +
		"\n\n" + t("summary.closing", nil) +
		"\n" + t("summary.gratitude", nil)
}

func summaryCity(data *model.SessionData, locale string) string {
	if locale == "he" {
		if data.CityHe != "" {
			return data.CityHe
		}
		return data.CityEn
	}
	if data.CityEn != "" {
		return data.CityEn
	}
	return data.CityHe
}

// summaryUnit renders "Liter" or "Liter x 1.5" depending on whether a
// quantity was collected.
func (e *Engine) summaryUnit(data *model.SessionData, locale string) string {
	label := data.UnitTypeEn
	if locale == "he" && data.UnitTypeHe != "" {
		label = data.UnitTypeHe
	}
	if label == "" {
		label = data.UnitTypeHe
	}
	if label == "" {
		return ""
	}
	if data.UnitQuantity != "" && data.UnitQuantity != "1" {
		return label + " x " + data.UnitQuantity
	}
	return label
}
