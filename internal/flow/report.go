package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/resolver"
	"github.com/altonotch/dilli/internal/text"
)

// stepResult is the explicit outcome of one step transition. A nil reply
// means "render the prompt for whatever step the session is now on"; mutated
// gates persistence so validation failures never partially write.
type stepResult struct {
	reply   *Reply
	mutated bool
}

type stepHandler func(ctx context.Context, e *Engine, s *model.Session, user *model.User, locale string, in Inbound) (stepResult, error)

var reportHandlers = map[model.Step]stepHandler{
	model.StepCity:         handleCity,
	model.StepStore:        handleStore,
	model.StepBranch:       handleBranch,
	model.StepStoreConfirm: handleStoreConfirm,
	model.StepProduct:      handleProduct,
	model.StepBrand:        handleBrand,
	model.StepUnitType:     handleUnitType,
	model.StepUnitQuantity: handleUnitQuantity,
	model.StepPrice:        handlePrice,
	model.StepUnits:        handleUnits,
	model.StepClub:         handleClub,
	model.StepLimit:        handleLimit,
	model.StepCart:         handleCart,
}

func (e *Engine) startReport(ctx context.Context, user *model.User, locale string) (*Reply, error) {
	if err := e.supersedeActive(ctx, user.ID, model.FlowReport); err != nil {
		return nil, err
	}
	session, err := e.sessions.Create(ctx, user.ID, model.FlowReport, model.StepCity)
	if err != nil {
		return nil, err
	}
	e.audit.FlowStarted(user.ID, model.FlowReport, session.ID)

	if user.City != "" || user.CityID != nil {
		session.Data.AwaitingCityReuse = true
		if err := e.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		city := user.City
		return &Reply{
			Text: e.tr.Translate("prompt.city.saved", locale, map[string]string{"city": city}),
			Buttons: []Button{
				{ID: buttonCityDefault, Title: e.tr.Translate("button.city.keep", locale, map[string]string{"city": city})},
				{ID: buttonCityChange, Title: e.tr.Translate("button.city.change", locale, nil)},
			},
		}, nil
	}
	return e.promptFor(session, locale), nil
}

// supersedeActive cancels any active session of the kind before a new flow
// starts.
func (e *Engine) supersedeActive(ctx context.Context, userID string, kind model.FlowKind) error {
	session, err := e.sessions.GetActive(ctx, userID, kind)
	if err != nil || session == nil {
		return err
	}
	session.Step = model.StepCanceled
	return e.sessions.Deactivate(ctx, session)
}

// handleReportMessage processes a message against the user's active report
// session. A nil reply with nil error means no such session exists and the
// router should keep going.
func (e *Engine) handleReportMessage(ctx context.Context, user *model.User, locale string, in Inbound) (*Reply, error) {
	session, err := e.sessions.GetActive(ctx, user.ID, model.FlowReport)
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
		e.audit.FlowCanceled(user.ID, model.FlowReport, session.ID, model.StepCanceled)
		return &Reply{Text: e.tr.Translate("flow.canceled", locale, nil)}, nil
	}

	handler, ok := reportHandlers[session.Step]
	if !ok {
		session.Step = model.StepComplete
		if err := e.sessions.Deactivate(ctx, session); err != nil {
			return nil, err
		}
		return &Reply{Text: e.tr.Translate("flow.fallback_complete", locale, nil)}, nil
	}

	res, err := handler(ctx, e, session, user, locale, in)
	if err != nil {
		return nil, err
	}
	if res.mutated {
		if session.Step == model.StepComplete {
			return e.complete(ctx, session, user, locale)
		}
		if err := e.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	if res.reply != nil {
		return res.reply, nil
	}
	return e.promptFor(session, locale), nil
}

// complete renders the summary and materializes the report. Persistence
// failures are logged and swallowed: the user still gets the summary and the
// session keeps the collected data for out-of-band reconciliation.
func (e *Engine) complete(ctx context.Context, session *model.Session, user *model.User, locale string) (*Reply, error) {
	summary := e.renderSummary(&session.Data, locale)

	report, err := e.materialize(ctx, session, user, locale)
	if err != nil {
		e.log.Error().Err(err).Str("session_id", session.ID).Msg("Failed to persist deal session")
		e.audit.MaterializeFailed(user.ID, session.ID, err)
	} else if report != nil {
		e.audit.ReportMaterialized(user.ID, session.ID, report.ID)
	}

	if err := e.sessions.Deactivate(ctx, session); err != nil {
		return nil, err
	}
	e.audit.FlowCompleted(user.ID, model.FlowReport, session.ID)
	return &Reply{Text: summary}, nil
}

var stepPrompts = map[model.Step]string{
	model.StepCity:         "prompt.city",
	model.StepStore:        "prompt.store",
	model.StepBranch:       "prompt.branch",
	model.StepProduct:      "prompt.product",
	model.StepBrand:        "prompt.brand",
	model.StepUnitType:     "prompt.unit_type",
	model.StepUnitQuantity: "prompt.unit_quantity",
	model.StepPrice:        "prompt.price",
	model.StepUnits:        "prompt.units",
	model.StepClub:         "prompt.club",
	model.StepLimit:        "prompt.limit",
	model.StepCart:         "prompt.cart",
}

func (e *Engine) promptFor(session *model.Session, locale string) *Reply {
	switch session.Step {
	case model.StepStoreConfirm:
		return e.storeConfirmPrompt(&session.Data, locale)
	case model.StepUnitType:
		return &Reply{
			Text: e.tr.Translate("prompt.unit_type", locale, nil),
			Buttons: []Button{
				{ID: unitButtonPrefix + "liter", Title: e.units.LabelForLocale("liter", locale)},
				{ID: unitButtonPrefix + "kilogram", Title: e.units.LabelForLocale("kilogram", locale)},
				{ID: unitButtonPrefix + "unit", Title: e.units.LabelForLocale("unit", locale)},
			},
		}
	}
	key, ok := stepPrompts[session.Step]
	if !ok {
		key = "flow.fallback_complete"
	}
	return &Reply{Text: e.tr.Translate(key, locale, nil)}
}

func (e *Engine) storeConfirmPrompt(data *model.SessionData, locale string) *Reply {
	var lines []string
	for i, c := range data.StoreCandidates {
		line := fmt.Sprintf("%d) %s", i+1, c.Label)
		if c.Detail != "" {
			line += " — " + c.Detail
		}
		lines = append(lines, line)
	}
	return &Reply{Text: e.tr.Translate("prompt.store_confirm", locale, map[string]string{
		"list": strings.Join(lines, "\n"),
	})}
}

func handleCity(ctx context.Context, e *Engine, s *model.Session, user *model.User, locale string, in Inbound) (stepResult, error) {
	trimmed := strings.TrimSpace(in.Text)

	if s.Data.AwaitingCityReuse {
		s.Data.AwaitingCityReuse = false
		switch {
		case in.ButtonID == buttonCityDefault || matchesKeyword(trimmed, text.CategoryYes, locale):
			if err := e.adoptSavedCity(ctx, s, user); err != nil {
				return stepResult{}, err
			}
			s.Step = model.StepStore
			return stepResult{mutated: true}, nil
		case in.ButtonID == buttonCityChange ||
			matchesKeyword(trimmed, text.CategoryCityChange, locale) ||
			matchesKeyword(trimmed, text.CategoryNo, locale):
			s.Step = model.StepCity
			return stepResult{mutated: true}, nil
		}
		// Anything else reads as a city name; fall through to resolution.
	}

	if len(s.Data.CityCandidates) > 0 {
		idx := parseChoiceIndex(trimmed, len(s.Data.CityCandidates))
		if idx == 0 {
			return stepResult{reply: &Reply{
				Text: e.tr.Translate("error.choice.invalid", locale, nil),
			}}, nil
		}
		chosen := s.Data.CityCandidates[idx-1]
		city, err := e.resolver.CityByID(ctx, chosen.ID)
		if err != nil {
			return stepResult{}, err
		}
		if city == nil {
			return stepResult{reply: &Reply{
				Text: e.tr.Translate("error.choice.invalid", locale, nil),
			}}, nil
		}
		s.Data.CityCandidates = nil
		if err := e.applyCity(ctx, s, user, city); err != nil {
			return stepResult{}, err
		}
		s.Step = model.StepStore
		return stepResult{mutated: true}, nil
	}

	res, err := e.resolver.ResolveCity(ctx, trimmed)
	if err != nil {
		return stepResult{}, err
	}
	if len(res.Candidates) > 0 {
		s.Data.CityCandidates = s.Data.CityCandidates[:0]
		var lines []string
		for i, c := range res.Candidates {
			s.Data.CityCandidates = append(s.Data.CityCandidates, model.CityCandidate{ID: c.ID, Name: c.DisplayName()})
			lines = append(lines, fmt.Sprintf("%d) %s", i+1, c.DisplayName()))
		}
		return stepResult{
			mutated: true,
			reply: &Reply{Text: e.tr.Translate("prompt.city.choose", locale, map[string]string{
				"list": strings.Join(lines, "\n"),
			})},
		}, nil
	}
	if err := e.applyCity(ctx, s, user, res.City); err != nil {
		return stepResult{}, err
	}
	s.Step = model.StepStore
	return stepResult{mutated: true}, nil
}

func (e *Engine) applyCity(ctx context.Context, s *model.Session, user *model.User, city *model.City) error {
	s.Data.CityID = &city.ID
	s.Data.CityHe = city.NameHe
	s.Data.CityEn = city.NameEn
	if err := e.users.UpdateCity(ctx, user.ID, &city.ID, city.DisplayName()); err != nil {
		return err
	}
	user.CityID = &city.ID
	user.City = city.DisplayName()
	return nil
}

func (e *Engine) adoptSavedCity(ctx context.Context, s *model.Session, user *model.User) error {
	if user.CityID != nil {
		city, err := e.resolver.CityByID(ctx, *user.CityID)
		if err != nil {
			return err
		}
		if city != nil {
			s.Data.CityID = &city.ID
			s.Data.CityHe = city.NameHe
			s.Data.CityEn = city.NameEn
			return nil
		}
	}
	if text.ContainsHebrew(user.City) {
		s.Data.CityHe = user.City
	} else {
		s.Data.CityEn = user.City
	}
	return nil
}

func handleStore(_ context.Context, _ *Engine, s *model.Session, _ *model.User, _ string, in Inbound) (stepResult, error) {
	s.Data.StoreName = strings.TrimSpace(in.Text)
	s.Data.Branch = ""
	s.Data.StoreID = nil
	s.Data.StoreCandidates = nil
	s.Step = model.StepBranch
	return stepResult{mutated: true}, nil
}

func handleBranch(ctx context.Context, e *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	trimmed := strings.TrimSpace(in.Text)
	if matchesKeyword(trimmed, text.CategorySkip, locale) {
		s.Data.Branch = ""
	} else {
		s.Data.Branch = trimmed
	}
	return e.searchStores(ctx, s)
}

// searchStores runs candidate lookup after the branch answer and decides
// whether disambiguation is needed.
func (e *Engine) searchStores(ctx context.Context, s *model.Session) (stepResult, error) {
	candidates, err := e.resolver.FindStoreCandidates(ctx, e.storeQuery(&s.Data))
	if err != nil {
		return stepResult{}, err
	}
	switch len(candidates) {
	case 0:
		// Unknown store; it gets created at materialization.
		s.Step = model.StepProduct
	case 1:
		s.Data.StoreID = &candidates[0].ID
		s.Step = model.StepProduct
	default:
		s.Data.StoreCandidates = storeCandidateList(candidates)
		s.Step = model.StepStoreConfirm
	}
	return stepResult{mutated: true}, nil
}

func (e *Engine) storeQuery(data *model.SessionData) resolver.StoreQuery {
	return resolver.StoreQuery{
		Name:         data.StoreName,
		BranchDetail: data.Branch,
		CityID:       data.CityID,
		CityHe:       data.CityHe,
		CityEn:       data.CityEn,
	}
}

func storeCandidateList(stores []model.Store) []model.StoreCandidate {
	out := make([]model.StoreCandidate, 0, len(stores))
	for _, st := range stores {
		detail := st.CityDisplay()
		if st.Address != "" {
			if detail != "" {
				detail += ", "
			}
			detail += st.Address
		}
		out = append(out, model.StoreCandidate{ID: st.ID, Label: st.Label(), Detail: detail})
	}
	return out
}

func handleStoreConfirm(ctx context.Context, e *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	trimmed := strings.TrimSpace(in.Text)

	if idx := parseChoiceIndex(trimmed, len(s.Data.StoreCandidates)); idx > 0 {
		chosen := s.Data.StoreCandidates[idx-1]
		s.Data.StoreID = &chosen.ID
		s.Data.StoreCandidates = nil
		s.Step = model.StepProduct
		return stepResult{mutated: true}, nil
	}
	if isNumericOnly(trimmed) {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.choice.invalid", locale, nil),
		}}, nil
	}

	// Free text refines the branch detail and re-runs the search.
	s.Data.Branch = trimmed
	candidates, err := e.resolver.FindStoreCandidates(ctx, e.storeQuery(&s.Data))
	if err != nil {
		return stepResult{}, err
	}
	switch len(candidates) {
	case 1:
		s.Data.StoreID = &candidates[0].ID
		s.Data.StoreCandidates = nil
		s.Step = model.StepProduct
		return stepResult{mutated: true}, nil
	case 0:
		// The refined detail matched nothing; keep it as free text and move
		// on. The store gets created at materialization.
		s.Data.StoreCandidates = nil
		s.Step = model.StepProduct
		return stepResult{mutated: true}, nil
	default:
		s.Data.StoreCandidates = storeCandidateList(candidates)
		return stepResult{mutated: true, reply: e.storeConfirmPrompt(&s.Data, locale)}, nil
	}
}

func handleProduct(_ context.Context, _ *Engine, s *model.Session, _ *model.User, _ string, in Inbound) (stepResult, error) {
	s.Data.ProductName = strings.TrimSpace(in.Text)
	s.Data.Brand = ""
	s.Step = model.StepBrand
	return stepResult{mutated: true}, nil
}

func handleBrand(_ context.Context, _ *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	trimmed := strings.TrimSpace(in.Text)
	if matchesKeyword(trimmed, text.CategorySkip, locale) || matchesKeyword(trimmed, text.CategoryNo, locale) {
		s.Data.Brand = ""
	} else {
		s.Data.Brand = trimmed
	}
	s.Step = model.StepUnitType
	return stepResult{mutated: true}, nil
}

func handleUnitType(ctx context.Context, e *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	trimmed := strings.TrimSpace(in.Text)

	if matchesKeyword(trimmed, text.CategorySkip, locale) {
		s.Data.UnitTypeSlug = ""
		s.Data.UnitTypeHe = ""
		s.Data.UnitTypeEn = ""
		s.Data.UnitQuantity = ""
		s.Step = model.StepPrice
		return stepResult{mutated: true}, nil
	}

	res := e.units.Resolve(trimmed)
	s.Data.UnitTypeSlug = res.Slug
	s.Data.UnitTypeHe = res.He
	s.Data.UnitTypeEn = res.En

	// When the product already has a default for this same unit type, the
	// quantity question is redundant and gets skipped.
	product, err := e.resolver.ResolveProduct(ctx, s.Data.ProductName, s.Data.Brand)
	if err != nil {
		return stepResult{}, err
	}
	if product != nil && product.HasDefaultUnit() && unitMatchesDefault(product, res.He, res.En) {
		s.Data.UnitQuantity = product.DefaultUnitQuantity.Decimal.String()
		s.Step = model.StepPrice
	} else {
		s.Step = model.StepUnitQuantity
	}
	return stepResult{mutated: true}, nil
}

func unitMatchesDefault(p *model.Product, he, en string) bool {
	return (p.DefaultUnitTypeEn != "" && strings.EqualFold(p.DefaultUnitTypeEn, en)) ||
		(p.DefaultUnitTypeHe != "" && p.DefaultUnitTypeHe == he)
}

func handleUnitQuantity(_ context.Context, e *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	value, ok := parseDecimal(in.Text)
	if !ok || value.Sign() <= 0 {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.quantity.invalid", locale, nil),
		}}, nil
	}
	s.Data.UnitQuantity = value.String()
	s.Step = model.StepPrice
	return stepResult{mutated: true}, nil
}

func handlePrice(_ context.Context, e *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	value, ok := parseDecimal(in.Text)
	if !ok {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.price.invalid", locale, nil),
		}}, nil
	}
	if value.Sign() <= 0 {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.price.nonpositive", locale, nil),
		}}, nil
	}
	s.Data.Price = value.StringFixed(2)
	s.Step = model.StepUnits
	return stepResult{mutated: true}, nil
}

func handleUnits(_ context.Context, e *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	trimmed := strings.TrimSpace(in.Text)
	if trimmed == "" || matchesKeyword(trimmed, text.CategorySkip, locale) {
		s.Data.UnitsInPrice = 1
		s.Step = model.StepClub
		return stepResult{mutated: true}, nil
	}
	if !isNumericOnly(trimmed) {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.units.invalid", locale, nil),
		}}, nil
	}
	units, err := strconv.Atoi(trimmed)
	if err != nil {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.units.invalid", locale, nil),
		}}, nil
	}
	if units <= 0 {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.units.nonpositive", locale, nil),
		}}, nil
	}
	s.Data.UnitsInPrice = units
	s.Step = model.StepClub
	return stepResult{mutated: true}, nil
}

func handleClub(_ context.Context, e *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	trimmed := strings.TrimSpace(in.Text)
	switch {
	case matchesKeyword(trimmed, text.CategoryYes, locale):
		v := true
		s.Data.ClubOnly = &v
	case matchesKeyword(trimmed, text.CategoryNo, locale):
		v := false
		s.Data.ClubOnly = &v
	default:
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.club.invalid", locale, nil),
		}}, nil
	}
	s.Step = model.StepLimit
	return stepResult{mutated: true}, nil
}

func handleLimit(_ context.Context, e *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	trimmed := strings.TrimSpace(in.Text)
	if trimmed == "" || matchesKeyword(trimmed, text.CategoryNo, locale) || matchesKeyword(trimmed, text.CategorySkip, locale) {
		s.Data.LimitQty = nil
		s.Step = model.StepCart
		return stepResult{mutated: true}, nil
	}
	if !isNumericOnly(trimmed) {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.limit.invalid", locale, nil),
		}}, nil
	}
	qty, err := strconv.Atoi(trimmed)
	if err != nil || qty <= 0 {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.limit.nonpositive", locale, nil),
		}}, nil
	}
	s.Data.LimitQty = &qty
	s.Step = model.StepCart
	return stepResult{mutated: true}, nil
}

func handleCart(_ context.Context, e *Engine, s *model.Session, _ *model.User, locale string, in Inbound) (stepResult, error) {
	trimmed := strings.TrimSpace(in.Text)
	if trimmed == "" || matchesKeyword(trimmed, text.CategoryNo, locale) || matchesKeyword(trimmed, text.CategorySkip, locale) {
		s.Data.MinCartTotal = ""
		s.Step = model.StepComplete
		return stepResult{mutated: true}, nil
	}
	value, ok := parseDecimal(trimmed)
	if !ok {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.cart.invalid", locale, nil),
		}}, nil
	}
	if value.Sign() <= 0 {
		return stepResult{reply: &Reply{
			Text: e.tr.Translate("error.cart.nonpositive", locale, nil),
		}}, nil
	}
	s.Data.MinCartTotal = value.StringFixed(2)
	s.Step = model.StepComplete
	return stepResult{mutated: true}, nil
}

// parseDecimal accepts a comma as a decimal separator alias.
func parseDecimal(s string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}

// parseChoiceIndex reads a 1-based disambiguation pick; 0 means no valid
// choice.
func parseChoiceIndex(s string, n int) int {
	if !isNumericOnly(s) {
		return 0
	}
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || idx < 1 || idx > n {
		return 0
	}
	return idx
}
