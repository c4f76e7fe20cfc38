package flow

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altonotch/dilli/internal/audit"
	"github.com/altonotch/dilli/internal/i18n"
	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/repository/repotest"
	"github.com/altonotch/dilli/internal/resolver"
	"github.com/altonotch/dilli/internal/units"
	"github.com/altonotch/dilli/internal/util"
)

const testSender = "+972501234567"

type fixture struct {
	engine   *Engine
	users    *repotest.UserRepo
	cities   *repotest.CityRepo
	stores   *repotest.StoreRepo
	products *repotest.ProductRepo
	reports  *repotest.ReportRepo
	sessions *repotest.SessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := repotest.NewUserRepo()
	cities := repotest.NewCityRepo()
	stores := repotest.NewStoreRepo()
	products := repotest.NewProductRepo()
	reports := repotest.NewReportRepo(products, stores)
	sessions := repotest.NewSessionStore()

	log := zerolog.Nop()
	engine := New(Deps{
		Users:      users,
		Sessions:   sessions,
		Reports:    reports,
		Resolver:   resolver.New(cities, stores, products, log),
		Units:      units.NewCatalog(),
		Tr:         i18n.NewCatalog(),
		Audit:      audit.New(log),
		Log:        log,
		SenderSalt: "unit-test-salt-0123456789abcdef",
		Now:        func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	return &fixture{
		engine: engine, users: users, cities: cities, stores: stores,
		products: products, reports: reports, sessions: sessions,
	}
}

func (f *fixture) send(t *testing.T, body string) *Reply {
	t.Helper()
	reply, err := f.engine.HandleMessage(context.Background(), Inbound{SenderID: testSender, Text: body})
	require.NoError(t, err)
	require.NotNil(t, reply)
	return reply
}

func (f *fixture) tapButton(t *testing.T, id string) *Reply {
	t.Helper()
	reply, err := f.engine.HandleMessage(context.Background(), Inbound{SenderID: testSender, ButtonID: id})
	require.NoError(t, err)
	require.NotNil(t, reply)
	return reply
}

func (f *fixture) user(t *testing.T) *model.User {
	t.Helper()
	require.NotEmpty(t, f.users.Users)
	return &f.users.Users[0]
}

func (f *fixture) activeReportSession(t *testing.T) *model.Session {
	t.Helper()
	session, err := f.sessions.GetActive(context.Background(), f.user(t).ID, model.FlowReport)
	require.NoError(t, err)
	return session
}

func TestReportFlowHappyPath(t *testing.T) {
	f := newFixture(t)

	reply := f.send(t, "add deal")
	assert.Contains(t, reply.Text, "Which city")

	answers := []string{"Tel Aviv", "Shufersal", "skip", "Milk 3% 1L", "skip", "Liter", "1", "4.90", "2", "no", "no"}
	for _, answer := range answers {
		reply = f.send(t, answer)
		require.NotEmpty(t, reply.Text, answer)
	}
	final := f.send(t, "no")

	for _, want := range []string{"Shufersal", "Tel Aviv", "Milk 3% 1L", "4.90", "2", "Liter"} {
		assert.Contains(t, final.Text, want)
	}
	assert.Contains(t, final.Text, "awaiting moderation")

	require.Len(t, f.reports.Reports, 1)
	report := f.reports.Reports[0]
	assert.True(t, report.Price.Equal(decimal.RequireFromString("4.90")))
	assert.Equal(t, 2, report.UnitsInPrice)
	assert.True(t, report.NeedsModeration)
	assert.Equal(t, "Milk 3% 1L", report.ProductTextRaw)
	assert.False(t, report.ClubOnly)

	assert.Nil(t, f.activeReportSession(t))
}

func TestReportFlowInvalidInputsDoNotAdvance(t *testing.T) {
	f := newFixture(t)
	f.send(t, "add deal")
	for _, answer := range []string{"Haifa", "Victory", "skip", "Bamba", "Osem", "bag", "1"} {
		f.send(t, answer)
	}
	require.Equal(t, model.StepPrice, f.activeReportSession(t).Step)

	t.Run("non numeric price", func(t *testing.T) {
		reply := f.send(t, "four shekels")
		assert.Contains(t, reply.Text, "digits")
		assert.Equal(t, model.StepPrice, f.activeReportSession(t).Step)
	})

	t.Run("zero and negative price", func(t *testing.T) {
		for _, bad := range []string{"0", "-3"} {
			reply := f.send(t, bad)
			assert.Contains(t, reply.Text, "greater than zero", bad)
			assert.Equal(t, model.StepPrice, f.activeReportSession(t).Step)
		}
	})

	assert.Empty(t, f.reports.Reports)
}

func TestReportFlowUnitQuantityValidation(t *testing.T) {
	f := newFixture(t)
	f.send(t, "add deal")
	for _, answer := range []string{"Haifa", "Victory", "skip", "Cola", "skip", "Liter"} {
		f.send(t, answer)
	}
	require.Equal(t, model.StepUnitQuantity, f.activeReportSession(t).Step)

	for _, bad := range []string{"abc", "0", "-1.5"} {
		reply := f.send(t, bad)
		assert.Contains(t, reply.Text, "number greater than zero", bad)
		assert.Equal(t, model.StepUnitQuantity, f.activeReportSession(t).Step)
	}

	f.send(t, "1,5")
	session := f.activeReportSession(t)
	assert.Equal(t, model.StepPrice, session.Step)
	assert.Equal(t, "1.5", session.Data.UnitQuantity)
}

func TestCancelAtAnyStep(t *testing.T) {
	f := newFixture(t)
	f.send(t, "add deal")
	f.send(t, "Tel Aviv")
	f.send(t, "Shufersal")

	reply := f.send(t, "cancel")
	assert.Contains(t, reply.Text, "canceled")
	assert.Nil(t, f.activeReportSession(t))
	assert.Empty(t, f.reports.Reports)

	stored := f.sessions.Sessions
	require.Len(t, stored, 1)
	for _, s := range stored {
		assert.Equal(t, model.StepCanceled, s.Step)
		assert.False(t, s.IsActive)
	}
}

func TestHebrewCancelKeyword(t *testing.T) {
	f := newFixture(t)
	f.send(t, "add deal")
	f.send(t, "תל אביב")

	reply := f.send(t, "ביטול")
	assert.NotEmpty(t, reply.Text)
	assert.Nil(t, f.activeReportSession(t))
}

func TestEmptyReplyDoesNotConsumeStep(t *testing.T) {
	f := newFixture(t)
	f.send(t, "add deal")

	reply := f.send(t, "   ")
	assert.Contains(t, reply.Text, "send a reply")
	assert.Equal(t, model.StepCity, f.activeReportSession(t).Step)
}

func TestStoreDisambiguation(t *testing.T) {
	f := newFixture(t)
	f.stores.Seed(model.CreateStoreParams{Name: "Shufersal", DisplayName: "Shufersal Dizengoff", CityEn: "Tel Aviv", City: "Tel Aviv"})
	second := f.stores.Seed(model.CreateStoreParams{Name: "Shufersal", DisplayName: "Shufersal Allenby", CityEn: "Tel Aviv", City: "Tel Aviv"})

	f.send(t, "add deal")
	f.send(t, "Tel Aviv")
	f.send(t, "Shufersal")
	reply := f.send(t, "skip")

	assert.Contains(t, reply.Text, "1)")
	assert.Contains(t, reply.Text, "2)")
	assert.Contains(t, reply.Text, "Shufersal Allenby")
	require.Equal(t, model.StepStoreConfirm, f.activeReportSession(t).Step)

	t.Run("out of range index re-prompts", func(t *testing.T) {
		reply := f.send(t, "9")
		assert.Contains(t, reply.Text, "listed numbers")
		assert.Equal(t, model.StepStoreConfirm, f.activeReportSession(t).Step)
	})

	reply = f.send(t, "2")
	assert.Contains(t, reply.Text, "What product")
	session := f.activeReportSession(t)
	require.NotNil(t, session.Data.StoreID)
	assert.Equal(t, second.ID, *session.Data.StoreID)

	for _, answer := range []string{"Milk", "skip", "Liter", "1", "5.90", "1", "no", "no", "no"} {
		f.send(t, answer)
	}
	require.Len(t, f.reports.Reports, 1)
	assert.Equal(t, second.ID, f.reports.Reports[0].StoreID)
}

func TestStoreConfirmFreeTextRefinesSearch(t *testing.T) {
	f := newFixture(t)
	f.stores.Seed(model.CreateStoreParams{Name: "Victory", DisplayName: "Victory Herzl"})
	wanted := f.stores.Seed(model.CreateStoreParams{Name: "Victory", DisplayName: "Victory Rothschild"})

	f.send(t, "add deal")
	f.send(t, "Tel Aviv")
	f.send(t, "Victory")
	reply := f.send(t, "skip")
	require.Contains(t, reply.Text, "1)")

	reply = f.send(t, "Rothschild")
	assert.Contains(t, reply.Text, "What product")
	session := f.activeReportSession(t)
	require.NotNil(t, session.Data.StoreID)
	assert.Equal(t, wanted.ID, *session.Data.StoreID)
}

func TestSavedCityShortcut(t *testing.T) {
	f := newFixture(t)
	city := f.cities.Seed("תל אביב", "Tel Aviv", "tel-aviv")

	// First report establishes the saved city.
	f.send(t, "add deal")
	f.send(t, "Tel Aviv")
	f.send(t, "cancel")
	require.NotNil(t, f.user(t).CityID)

	reply := f.send(t, "add deal")
	assert.Contains(t, reply.Text, "Tel Aviv")
	require.Len(t, reply.Buttons, 2)
	assert.Equal(t, buttonCityDefault, reply.Buttons[0].ID)

	reply = f.tapButton(t, buttonCityDefault)
	assert.Contains(t, reply.Text, "Which store")
	session := f.activeReportSession(t)
	assert.Equal(t, model.StepStore, session.Step)
	require.NotNil(t, session.Data.CityID)
	assert.Equal(t, city.ID, *session.Data.CityID)
	assert.Equal(t, "תל אביב", session.Data.CityHe)
}

func TestSavedCityChange(t *testing.T) {
	f := newFixture(t)
	f.cities.Seed("חיפה", "Haifa", "haifa")

	f.send(t, "add deal")
	f.send(t, "Haifa")
	f.send(t, "cancel")

	f.send(t, "add deal")
	reply := f.tapButton(t, buttonCityChange)
	assert.Contains(t, reply.Text, "Which city")

	f.send(t, "Eilat")
	session := f.activeReportSession(t)
	assert.Equal(t, model.StepStore, session.Step)
	assert.Equal(t, "Eilat", session.Data.CityEn)
}

func TestCityDisambiguationChoice(t *testing.T) {
	f := newFixture(t)
	f.cities.Seed("רמת גן", "Ramat Gan", "ramat-gan")
	hasharon := f.cities.Seed("רמת השרון", "Ramat Hasharon", "ramat-hasharon")

	f.send(t, "add deal")
	reply := f.send(t, "Ramat")
	assert.Contains(t, reply.Text, "1)")
	assert.Contains(t, reply.Text, "Ramat Hasharon")

	t.Run("non numeric reply re-prompts", func(t *testing.T) {
		reply := f.send(t, "maybe")
		assert.Contains(t, reply.Text, "listed numbers")
	})

	reply = f.send(t, "2")
	assert.Contains(t, reply.Text, "Which store")
	session := f.activeReportSession(t)
	require.NotNil(t, session.Data.CityID)
	assert.Equal(t, hasharon.ID, *session.Data.CityID)
}

func TestUnitDefaultsSkipQuantity(t *testing.T) {
	f := newFixture(t)
	f.products.Seed(model.CreateProductParams{
		NameEn:              "Milk 3% 1L",
		NameHe:              "חלב 3% 1 ליטר",
		DefaultUnitTypeEn:   "Liter",
		DefaultUnitTypeHe:   "ליטר",
		DefaultUnitQuantity: decimal.NullDecimal{Decimal: decimal.RequireFromString("1.5"), Valid: true},
	})

	f.send(t, "add deal")
	for _, answer := range []string{"Tel Aviv", "Shufersal", "skip", "Milk 3% 1L", "skip"} {
		f.send(t, answer)
	}
	require.Equal(t, model.StepUnitType, f.activeReportSession(t).Step)

	reply := f.send(t, "Liter")
	assert.Contains(t, reply.Text, "What is the price")
	session := f.activeReportSession(t)
	assert.Equal(t, model.StepPrice, session.Step)
	assert.Equal(t, "1.5", session.Data.UnitQuantity)
}

func TestUserOverridesDoNotTouchProductDefaults(t *testing.T) {
	f := newFixture(t)
	product := f.products.Seed(model.CreateProductParams{
		NameEn:              "Milk 3% 1L",
		NameHe:              "Milk 3% 1L",
		DefaultUnitTypeEn:   "Liter",
		DefaultUnitTypeHe:   "ליטר",
		DefaultUnitQuantity: decimal.NullDecimal{Decimal: decimal.NewFromInt(1), Valid: true},
	})

	f.send(t, "add deal")
	for _, answer := range []string{"Tel Aviv", "Shufersal", "skip", "Milk 3% 1L", "skip", "Kilogram", "2", "8.90", "1", "no", "no", "no"} {
		f.send(t, answer)
	}

	require.Len(t, f.reports.Reports, 1)
	report := f.reports.Reports[0]
	assert.Equal(t, "Kilogram", report.UnitMeasureTypeEn)
	require.True(t, report.UnitMeasureQuantity.Valid)
	assert.True(t, report.UnitMeasureQuantity.Decimal.Equal(decimal.NewFromInt(2)))

	stored, err := f.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Liter", stored.DefaultUnitTypeEn)
	assert.True(t, stored.DefaultUnitQuantity.Decimal.Equal(decimal.NewFromInt(1)))
}

func TestProductDefaultsBackfilledWhenEmpty(t *testing.T) {
	f := newFixture(t)
	product := f.products.Seed(model.CreateProductParams{NameEn: "Cola 1.5L", NameHe: "Cola 1.5L"})

	f.send(t, "add deal")
	for _, answer := range []string{"Tel Aviv", "AM:PM", "skip", "Cola 1.5L", "skip", "Bottle", "1.5", "7.50", "1", "no", "no", "no"} {
		f.send(t, answer)
	}

	stored, err := f.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bottle", stored.DefaultUnitTypeEn)
	require.True(t, stored.DefaultUnitQuantity.Valid)
	assert.True(t, stored.DefaultUnitQuantity.Decimal.Equal(decimal.RequireFromString("1.5")))
}

func TestMaterializationIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.send(t, "add deal")
	for _, answer := range []string{"Tel Aviv", "Shufersal", "skip", "Milk", "skip", "Liter", "1", "4.90", "1", "no", "no", "no"} {
		f.send(t, answer)
	}
	require.Len(t, f.reports.Reports, 1)
	first := f.reports.Reports[0]

	var session *model.Session
	for _, s := range f.sessions.Sessions {
		session = s
	}
	require.NotNil(t, session)
	require.NotNil(t, session.Data.ReportID)

	again, err := f.engine.materialize(context.Background(), session, f.user(t), "en")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, f.reports.Reports, 1)
}

func TestMaterializationFailureStillReturnsSummary(t *testing.T) {
	f := newFixture(t)
	f.reports.FailCreate = true

	f.send(t, "add deal")
	for _, answer := range []string{"Tel Aviv", "Shufersal", "skip", "Milk", "skip", "Liter", "1", "4.90", "1", "no", "no"} {
		f.send(t, answer)
	}
	final := f.send(t, "no")

	assert.Contains(t, final.Text, "Milk")
	assert.Contains(t, final.Text, "4.90")
	assert.Empty(t, f.reports.Reports)
	assert.Nil(t, f.activeReportSession(t))
}

func TestStartingNewFlowSupersedesActiveSession(t *testing.T) {
	f := newFixture(t)
	f.send(t, "add deal")
	f.send(t, "Tel Aviv")

	first := f.activeReportSession(t)
	require.NotNil(t, first)

	f.send(t, "add a deal")
	second := f.activeReportSession(t)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)

	superseded, err := f.sessions.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, superseded.IsActive)
	assert.Equal(t, model.StepCanceled, superseded.Step)
}

func TestNewUserGetsLanguagePrompt(t *testing.T) {
	f := newFixture(t)

	reply := f.send(t, "hello")
	assert.Contains(t, reply.Text, "choose your language")

	reply = f.send(t, "1")
	assert.Contains(t, reply.Text, "דילי")
	assert.Equal(t, "he", f.user(t).Locale)
}

func TestNumericOnlyTextDoesNotFlipLocale(t *testing.T) {
	f := newFixture(t)
	f.send(t, "שלום")
	require.Equal(t, "he", f.user(t).Locale)

	f.send(t, "42")
	assert.Equal(t, "he", f.user(t).Locale)
}

func TestDefaultLocaleAppliesWhenTextHasNoScript(t *testing.T) {
	users := repotest.NewUserRepo()
	cities := repotest.NewCityRepo()
	stores := repotest.NewStoreRepo()
	products := repotest.NewProductRepo()
	log := zerolog.Nop()
	engine := New(Deps{
		Users:         users,
		Sessions:      repotest.NewSessionStore(),
		Reports:       repotest.NewReportRepo(products, stores),
		Resolver:      resolver.New(cities, stores, products, log),
		Units:         units.NewCatalog(),
		Tr:            i18n.NewCatalog(),
		Audit:         audit.New(log),
		Log:           log,
		SenderSalt:    "unit-test-salt-0123456789abcdef",
		DefaultLocale: "he",
	})

	_, err := engine.HandleMessage(context.Background(), Inbound{SenderID: testSender, Text: "123"})
	require.NoError(t, err)

	hash := util.SenderHash(util.NormalizeSenderID(testSender), "unit-test-salt-0123456789abcdef")
	user, err := users.FindBySenderHash(context.Background(), hash)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "he", user.Locale)
}

func TestUnitButtonMapsToText(t *testing.T) {
	f := newFixture(t)
	f.send(t, "add deal")
	for _, answer := range []string{"Tel Aviv", "Shufersal", "skip", "Milk", "skip"} {
		f.send(t, answer)
	}
	require.Equal(t, model.StepUnitType, f.activeReportSession(t).Step)

	reply := f.tapButton(t, "unit_type:liter")
	assert.Contains(t, reply.Text, "quantity")
	session := f.activeReportSession(t)
	assert.Equal(t, "liter", session.Data.UnitTypeSlug)
	assert.Equal(t, "Liter", session.Data.UnitTypeEn)
}

func TestSearchFlow(t *testing.T) {
	seedDeal := func(f *fixture, productName, brand, storeName, city, price string, observed time.Time, moderated bool) {
		product, _ := f.products.FindByName(context.Background(), productName, brand)
		if product == nil {
			product = f.products.Seed(model.CreateProductParams{NameEn: productName, NameHe: productName, Brand: brand})
		}
		var store *model.Store
		for i := range f.stores.Stores {
			if f.stores.Stores[i].Name == storeName && f.stores.Stores[i].City == city {
				store = &f.stores.Stores[i]
			}
		}
		if store == nil {
			store = f.stores.Seed(model.CreateStoreParams{Name: storeName, City: city, CityEn: city})
		}
		report, err := f.reports.Create(context.Background(), model.CreatePriceReportParams{
			ProductID:      product.ID,
			StoreID:        store.ID,
			Price:          decimal.RequireFromString(price),
			UnitsInPrice:   1,
			ObservedAt:     observed,
			ProductTextRaw: productName,
		})
		if err != nil {
			t.Fatal(err)
		}
		if moderated {
			for i := range f.reports.Reports {
				if f.reports.Reports[i].ID == report.ID {
					f.reports.Reports[i].NeedsModeration = false
				}
			}
		}
	}

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("results are deduplicated per store keeping the newest", func(t *testing.T) {
		f := newFixture(t)
		seedDeal(f, "Milk 3%", "", "Shufersal", "Tel Aviv", "6.50", base, true)
		seedDeal(f, "Milk 3%", "", "Shufersal", "Tel Aviv", "4.90", base.Add(24*time.Hour), true)
		seedDeal(f, "Milk 3%", "", "Victory", "Tel Aviv", "5.20", base, true)

		f.send(t, "find deal")
		f.send(t, "Milk")
		f.send(t, "skip")
		reply := f.send(t, "Tel Aviv")

		assert.Contains(t, reply.Text, "latest deals")
		assert.Contains(t, reply.Text, "4.90")
		assert.Contains(t, reply.Text, "5.20")
		assert.NotContains(t, reply.Text, "6.50")
	})

	t.Run("unmoderated reports are excluded", func(t *testing.T) {
		f := newFixture(t)
		seedDeal(f, "Milk 3%", "", "Shufersal", "Tel Aviv", "6.50", base, false)

		f.send(t, "find deal")
		f.send(t, "Milk")
		f.send(t, "skip")
		reply := f.send(t, "Tel Aviv")
		assert.Contains(t, reply.Text, "couldn't find")
	})

	t.Run("brand filter narrows results", func(t *testing.T) {
		f := newFixture(t)
		seedDeal(f, "Cottage", "Tnuva", "Shufersal", "Haifa", "5.90", base, true)
		seedDeal(f, "Cottage", "Tara", "Victory", "Haifa", "5.40", base, true)

		f.send(t, "find deal")
		f.send(t, "Cottage")
		f.send(t, "Tara")
		reply := f.send(t, "Haifa")

		assert.Contains(t, reply.Text, "5.40")
		assert.NotContains(t, reply.Text, "5.90")
	})

	t.Run("brand query matches product names when brand column is empty", func(t *testing.T) {
		f := newFixture(t)
		seedDeal(f, "Tnuva Cottage 250g", "", "Shufersal", "Haifa", "5.90", base, true)

		f.send(t, "find deal")
		f.send(t, "Cottage")
		f.send(t, "Tnuva")
		reply := f.send(t, "Haifa")

		assert.Contains(t, reply.Text, "5.90")
		assert.Contains(t, reply.Text, "Tnuva Cottage 250g")
	})

	t.Run("search session deactivates after results", func(t *testing.T) {
		f := newFixture(t)
		f.send(t, "find deal")
		f.send(t, "Milk")
		f.send(t, "skip")
		f.send(t, "Tel Aviv")

		session, err := f.sessions.GetActive(context.Background(), f.user(t).ID, model.FlowSearch)
		require.NoError(t, err)
		assert.Nil(t, session)
	})
}

func TestUnknownMessageFallsBackToIntro(t *testing.T) {
	f := newFixture(t)
	f.send(t, "hello")

	reply := f.send(t, "what is this")
	assert.Contains(t, reply.Text, "Dilli")
	require.Len(t, reply.Buttons, 2)
	assert.Equal(t, buttonAddDeal, reply.Buttons[0].ID)
	assert.Equal(t, buttonFindDeal, reply.Buttons[1].ID)
}
