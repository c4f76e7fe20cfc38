package flow

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/altonotch/dilli/internal/config"
	"github.com/altonotch/dilli/internal/model"
)

// materialize converts a completed session into a persisted price report,
// creating or reusing the backing store and product records. Idempotent: a
// session that already holds a report id returns the existing record. A
// missing price aborts with no record at all, since price is the one
// mandatory field.
func (e *Engine) materialize(ctx context.Context, session *model.Session, user *model.User, locale string) (*model.PriceReport, error) {
	data := &session.Data

	if data.ReportID != nil {
		return e.reports.FindByID(ctx, *data.ReportID)
	}

	if data.Price == "" {
		return nil, nil
	}
	price, ok := parseDecimal(data.Price)
	if !ok || price.Sign() <= 0 {
		return nil, nil
	}

	store, err := e.resolver.GetOrCreateStore(ctx, e.storeQuery(data), data.StoreID)
	if err != nil {
		return nil, err
	}
	product, err := e.resolver.GetOrCreateProduct(ctx, data.ProductName, data.Brand)
	if err != nil {
		return nil, err
	}

	typeHe, typeEn, quantity := e.effectiveUnit(data, product)

	unitsInPrice := data.UnitsInPrice
	if unitsInPrice <= 0 {
		unitsInPrice = 1
	}

	var minCart decimal.NullDecimal
	if data.MinCartTotal != "" {
		if v, ok := parseDecimal(data.MinCartTotal); ok && v.Sign() > 0 {
			minCart = decimal.NullDecimal{Decimal: v.Round(2), Valid: true}
		}
	}

	clubOnly := data.ClubOnly != nil && *data.ClubOnly

	report, err := e.reports.Create(ctx, model.CreatePriceReportParams{
		UserID:              &user.ID,
		ProductID:           product.ID,
		StoreID:             store.ID,
		Price:               price.Round(2),
		UnitsInPrice:        unitsInPrice,
		UnitMeasureTypeHe:   typeHe,
		UnitMeasureTypeEn:   typeEn,
		UnitMeasureQuantity: quantity,
		ClubOnly:            clubOnly,
		MinCartTotal:        minCart,
		DealNotes:           e.buildDealNotes(data, locale),
		ObservedAt:          e.now(),
		ProductTextRaw:      data.ProductName,
		Locale:              locale,
		Source:              "chat",
	})
	if err != nil {
		return nil, err
	}

	data.ReportID = &report.ID
	if err := e.sessions.Save(ctx, session); err != nil {
		e.log.Warn().Err(err).Str("session_id", session.ID).Msg("Failed to backfill report id into session")
	}

	e.backfillProductDefaults(ctx, product, typeHe, typeEn, quantity)
	return report, nil
}

// effectiveUnit prefers the session's unit answers and falls back to the
// product's stored defaults.
func (e *Engine) effectiveUnit(data *model.SessionData, product *model.Product) (string, string, decimal.NullDecimal) {
	typeHe := data.UnitTypeHe
	typeEn := data.UnitTypeEn

	var quantity decimal.NullDecimal
	if data.UnitQuantity != "" {
		if v, ok := parseDecimal(data.UnitQuantity); ok && v.Sign() > 0 {
			quantity = decimal.NullDecimal{Decimal: v, Valid: true}
		}
	}

	if typeHe == "" && typeEn == "" {
		typeHe = product.DefaultUnitTypeHe
		typeEn = product.DefaultUnitTypeEn
		if !quantity.Valid {
			quantity = product.DefaultUnitQuantity
		}
	}
	return typeHe, typeEn, quantity
}

// backfillProductDefaults establishes the product's unit template from this
// report when no template exists yet. One-way: existing defaults are never
// overwritten.
func (e *Engine) backfillProductDefaults(ctx context.Context, product *model.Product, typeHe, typeEn string, quantity decimal.NullDecimal) {
	if product.HasDefaultUnit() {
		return
	}
	if (typeHe == "" && typeEn == "") || !quantity.Valid {
		return
	}
	if err := e.resolver.SetProductDefaultUnit(ctx, product.ID, typeHe, typeEn, quantity.Decimal); err != nil {
		e.log.Warn().Err(err).Int64("product_id", product.ID).Msg("Failed to backfill product unit defaults")
	}
}

func (e *Engine) buildDealNotes(data *model.SessionData, locale string) string {
	var notes []string
	if data.LimitQty != nil {
		notes = append(notes, e.tr.Translate("notes.limit", locale, map[string]string{
			"limit": strconv.Itoa(*data.LimitQty),
		}))
	}
	joined := strings.Join(notes, "; ")
	if runes := []rune(joined); len(runes) > config.MaxDealNotesLen {
		joined = string(runes[:config.MaxDealNotesLen])
	}
	return joined
}
