// Package flow implements the conversation state machines: the price-report
// flow, the deal-search flow, and the top-level message router that decides
// which one an inbound message belongs to.
package flow

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/altonotch/dilli/internal/audit"
	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/repository"
	"github.com/altonotch/dilli/internal/resolver"
	"github.com/altonotch/dilli/internal/text"
	"github.com/altonotch/dilli/internal/units"
	"github.com/altonotch/dilli/internal/util"
)

// Inbound is one user message after transport decoding: free text, or a
// button tap carried as a button id.
type Inbound struct {
	SenderID    string
	Text        string
	ButtonID    string
	DisplayName string
}

// Button is an interactive quick-reply choice. Transports cap these at 3 per
// message.
type Button struct {
	ID    string
	Title string
}

// Reply is what the engine hands back to the transport. The engine never
// sends anything itself.
type Reply struct {
	Text    string
	Buttons []Button
}

// Translator resolves message keys per locale. All user-facing strings go
// through it.
type Translator interface {
	Translate(key, locale string, params map[string]string) string
}

// Button id conventions recognized on input.
const (
	buttonAddDeal     = "add_deal"
	buttonFindDeal    = "find_deal"
	buttonCityDefault = "city_default"
	buttonCityChange  = "city_change"
	unitButtonPrefix  = "unit_type:"
)

var addCommands = map[string]bool{
	"add deal": true, "add a deal": true, "הוסף דיל": true, "הוספת דיל": true,
}

var findCommands = map[string]bool{
	"find deal": true, "find a deal": true, "מצא דיל": true, "חפש דיל": true,
}

type Deps struct {
	Users    repository.UserRepository
	Sessions repository.SessionStore
	Reports  repository.ReportRepository
	Resolver *resolver.Resolver
	Units    *units.Catalog
	Tr       Translator
	Audit    *audit.Logger
	Log      zerolog.Logger

	// SenderSalt is required; identity hashing fails closed without it and
	// config validation rejects an empty value before the engine is built.
	SenderSalt string

	// DefaultLocale is used when script detection has no signal, such as
	// numeric-only first contact. Empty means "en".
	DefaultLocale string

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

type Engine struct {
	users     repository.UserRepository
	sessions  repository.SessionStore
	reports   repository.ReportRepository
	resolver  *resolver.Resolver
	units     *units.Catalog
	tr        Translator
	audit     *audit.Logger
	log       zerolog.Logger
	salt      string
	defLocale string
	now       func() time.Time
}

func New(d Deps) *Engine {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	defLocale := text.NormalizeLocale(d.DefaultLocale)
	return &Engine{
		users:     d.Users,
		sessions:  d.Sessions,
		reports:   d.Reports,
		resolver:  d.Resolver,
		units:     d.Units,
		tr:        d.Tr,
		audit:     d.Audit,
		log:       d.Log,
		salt:      d.SenderSalt,
		defLocale: defLocale,
		now:       now,
	}
}

// HandleMessage routes one inbound message to completion and returns the
// reply to send. Routing order: flow start commands, active report flow,
// explicit language choice, first-contact language prompt, active search
// flow, intro fallback.
func (e *Engine) HandleMessage(ctx context.Context, in Inbound) (*Reply, error) {
	user, created, err := e.resolveUser(ctx, in)
	if err != nil {
		return nil, err
	}
	locale := e.effectiveLocale(user, in.Text)

	// A unit button tap is just a shortcut for typing the unit label.
	if strings.HasPrefix(in.ButtonID, unitButtonPrefix) {
		slug := strings.TrimPrefix(in.ButtonID, unitButtonPrefix)
		if label := e.units.LabelForLocale(slug, locale); label != "" {
			in.Text = label
			in.ButtonID = ""
		}
	}

	command := strings.ToLower(strings.TrimSpace(in.Text))

	if in.ButtonID == buttonAddDeal || addCommands[command] {
		return e.startReport(ctx, user, locale)
	}
	if in.ButtonID == buttonFindDeal || findCommands[command] {
		return e.startSearch(ctx, user, locale)
	}

	reply, err := e.handleReportMessage(ctx, user, locale, in)
	if err != nil || reply != nil {
		return reply, err
	}

	if choice := parseLanguageChoice(in.Text); choice != "" {
		if choice != locale {
			if err := e.users.UpdateLocale(ctx, user.ID, choice); err != nil {
				return nil, err
			}
			locale = choice
		}
		return e.intro(locale), nil
	}

	if created {
		return &Reply{Text: languagePrompt}, nil
	}

	reply, err = e.handleSearchMessage(ctx, user, locale, in)
	if err != nil || reply != nil {
		return reply, err
	}

	return e.intro(locale), nil
}

// languagePrompt is shown on first contact, before any locale is known, so it
// is bilingual by construction rather than translated.
const languagePrompt = "Please choose your language / נא לבחור שפה\n1) עברית\n2) English"

var reHeWord = regexp.MustCompile(`\bhe\b`)
var reEnWord = regexp.MustCompile(`\ben\b`)

// parseLanguageChoice detects an explicit language pick: digits (1/2),
// language names, or short codes. Empty string means no choice detected.
func parseLanguageChoice(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return ""
	}
	if strings.Contains(t, "עברית") || reHeWord.MatchString(t) || t == "1" {
		return "he"
	}
	if strings.Contains(t, "english") || reEnWord.MatchString(t) || t == "2" {
		return "en"
	}
	return ""
}

func (e *Engine) resolveUser(ctx context.Context, in Inbound) (*model.User, bool, error) {
	norm := util.NormalizeSenderID(in.SenderID)
	hash := util.SenderHash(norm, e.salt)

	user, err := e.users.FindBySenderHash(ctx, hash)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		if err := e.users.TouchLastSeen(ctx, user.ID, e.now()); err != nil {
			e.log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update last seen")
		}
		return user, false, nil
	}

	// Numeric-only input carries no script signal; fall back to the
	// configured default.
	locale := e.defLocale
	if !isNumericOnly(in.Text) {
		locale = text.DetectLocale(in.Text)
	}
	user, err = e.users.Create(ctx, model.CreateUserParams{
		SenderHash:  hash,
		SenderLast4: util.SenderLast4(norm),
		DisplayName: in.DisplayName,
		Locale:      locale,
	})
	if err != nil {
		return nil, false, err
	}
	e.log.Info().Str("user_id", user.ID).Str("locale", locale).Msg("Created user")
	return user, true, nil
}

// effectiveLocale prefers the stored locale; detection applies only to users
// without one, and numeric-only text never flips it.
func (e *Engine) effectiveLocale(user *model.User, body string) string {
	if user.Locale != "" {
		return text.NormalizeLocale(user.Locale)
	}
	if isNumericOnly(body) {
		return e.defLocale
	}
	return text.DetectLocale(body)
}

func isNumericOnly(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" {
		return false
	}
	for _, r := range t {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (e *Engine) intro(locale string) *Reply {
	return &Reply{
		Text: e.tr.Translate("intro.text", locale, nil),
		Buttons: []Button{
			{ID: buttonAddDeal, Title: e.tr.Translate("intro.button.add", locale, nil)},
			{ID: buttonFindDeal, Title: e.tr.Translate("intro.button.find", locale, nil)},
		},
	}
}

// matchesKeyword checks a keyword category against both the user's locale
// and the script the text is actually written in, so a Hebrew-locale user
// typing "skip" still skips.
func matchesKeyword(s string, category text.Category, locale string) bool {
	return text.IsKeyword(s, category, locale) ||
		text.IsKeyword(s, category, text.DetectLocale(s))
}
