package flow

import (
	"context"
	"strings"

	"github.com/altonotch/dilli/internal/config"
	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/text"
)

// searchFetchLimit over-fetches so per-store deduplication still fills the
// result list.
const searchFetchLimit = 50

func (e *Engine) startSearch(ctx context.Context, user *model.User, locale string) (*Reply, error) {
	if err := e.supersedeActive(ctx, user.ID, model.FlowSearch); err != nil {
		return nil, err
	}
	session, err := e.sessions.Create(ctx, user.ID, model.FlowSearch, model.StepProduct)
	if err != nil {
		return nil, err
	}
	e.audit.FlowStarted(user.ID, model.FlowSearch, session.ID)
	return &Reply{Text: e.tr.Translate("prompt.search.product", locale, nil)}, nil
}

// handleSearchMessage processes a message against the user's active search
// session. A nil reply with nil error means no such session exists.
func (e *Engine) handleSearchMessage(ctx context.Context, user *model.User, locale string, in Inbound) (*Reply, error) {
	session, err := e.sessions.GetActive(ctx, user.ID, model.FlowSearch)
	if err != nil || session == nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(in.Text)
	if trimmed == "" && in.ButtonID == "" {
		return &Reply{Text: e.tr.Translate("error.reply_empty", locale, nil)}, nil
	}

	if matchesKeyword(trimmed, text.CategoryCancel, locale) {
		session.Step = model.StepCanceled
		if err := e.sessions.Deactivate(ctx, session); err != nil {
			return nil, err
		}
		e.audit.FlowCanceled(user.ID, model.FlowSearch, session.ID, model.StepCanceled)
		return &Reply{Text: e.tr.Translate("flow.canceled", locale, nil)}, nil
	}

	switch session.Step {
	case model.StepProduct:
		session.Data.ProductQuery = trimmed
		session.Step = model.StepBrand
		if err := e.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return &Reply{Text: e.tr.Translate("prompt.search.brand", locale, nil)}, nil

	case model.StepBrand:
		if matchesKeyword(trimmed, text.CategorySkip, locale) || matchesKeyword(trimmed, text.CategoryNo, locale) {
			session.Data.BrandQuery = ""
		} else {
			session.Data.BrandQuery = trimmed
		}
		session.Step = model.StepLocation
		if err := e.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return &Reply{Text: e.tr.Translate("prompt.search.location", locale, nil)}, nil

	case model.StepLocation:
		session.Data.CityQuery = trimmed
		session.Step = model.StepComplete
		if err := e.sessions.Deactivate(ctx, session); err != nil {
			return nil, err
		}
		e.audit.FlowCompleted(user.ID, model.FlowSearch, session.ID)
		return e.searchResults(ctx, session, locale)

	default:
		session.Step = model.StepComplete
		if err := e.sessions.Deactivate(ctx, session); err != nil {
			return nil, err
		}
		return &Reply{Text: e.tr.Translate("flow.fallback_complete", locale, nil)}, nil
	}
}

func (e *Engine) searchResults(ctx context.Context, session *model.Session, locale string) (*Reply, error) {
	data := &session.Data
	if data.ProductQuery == "" {
		return &Reply{Text: e.tr.Translate("search.restart", locale, nil)}, nil
	}

	rows, err := e.reports.SearchDeals(ctx, model.DealSearchParams{
		ProductQuery: data.ProductQuery,
		BrandQuery:   data.BrandQuery,
		City:         data.CityQuery,
		Limit:        searchFetchLimit,
	})
	if err != nil {
		return nil, err
	}
	deals := dedupeDeals(rows, config.MaxSearchResults)

	if len(deals) == 0 {
		return &Reply{Text: e.tr.Translate("search.none", locale, map[string]string{
			"product": data.ProductQuery,
		})}, nil
	}

	lines := []string{e.tr.Translate("search.header", locale, nil)}
	for _, d := range deals {
		lines = append(lines, e.tr.Translate("search.row", locale, map[string]string{
			"product": dealProductLabel(d, locale),
			"price":   d.Price.StringFixed(2),
			"store":   d.StoreName,
			"city":    d.City,
		}))
	}
	lines = append(lines, e.tr.Translate("search.tip", locale, nil))
	return &Reply{Text: strings.Join(lines, "\n")}, nil
}

// dedupeDeals keeps the most recent report per (store, product, brand).
// Input is already newest-first, so the first occurrence wins.
func dedupeDeals(rows []model.DealRow, limit int) []model.DealRow {
	type dealKey struct {
		storeID   int64
		productID int64
		brand     string
	}
	seen := make(map[dealKey]bool)
	var out []model.DealRow
	for _, row := range rows {
		key := dealKey{row.StoreID, row.ProductID, strings.ToLower(row.Brand)}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out
}

func dealProductLabel(d model.DealRow, locale string) string {
	if d.ProductRaw != "" {
		return d.ProductRaw
	}
	if locale == "he" && d.ProductHe != "" {
		return d.ProductHe
	}
	if d.ProductEn != "" {
		return d.ProductEn
	}
	return d.ProductHe
}
