// Package resolver maps free-text user answers onto canonical city, store
// and product records, creating records when nothing matches.
package resolver

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/altonotch/dilli/internal/config"
	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/repository"
	"github.com/altonotch/dilli/internal/text"
)

type Resolver struct {
	cities   repository.CityRepository
	stores   repository.StoreRepository
	products repository.ProductRepository
	log      zerolog.Logger
}

func New(
	cities repository.CityRepository,
	stores repository.StoreRepository,
	products repository.ProductRepository,
	log zerolog.Logger,
) *Resolver {
	return &Resolver{cities: cities, stores: stores, products: products, log: log}
}

// CityByID fetches a city record, nil when it does not exist.
func (r *Resolver) CityByID(ctx context.Context, id int64) (*model.City, error) {
	return r.cities.FindByID(ctx, id)
}

// CityResolution is the outcome of resolving a city answer. Exactly one of
// City or Candidates is set: a single match (possibly just created) or an
// ambiguous shortlist for the user to pick from.
type CityResolution struct {
	City       *model.City
	Candidates []model.City
	Created    bool
}

// ResolveCity matches the input against known city names. An exact
// case-insensitive hit wins; otherwise a substring search may produce a
// shortlist; with no match at all a new city is created in the input's
// script.
func (r *Resolver) ResolveCity(ctx context.Context, input string) (*CityResolution, error) {
	trimmed := strings.TrimSpace(input)

	city, err := r.cities.FindByName(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if city != nil {
		return &CityResolution{City: city}, nil
	}

	matches, err := r.cities.SearchByName(ctx, trimmed, config.MaxCityChoices)
	if err != nil {
		return nil, err
	}
	if len(matches) == 1 {
		m := matches[0]
		return &CityResolution{City: &m}, nil
	}
	if len(matches) > 1 {
		return &CityResolution{Candidates: matches}, nil
	}

	params := model.CreateCityParams{Slug: citySlug(trimmed)}
	if text.ContainsHebrew(trimmed) {
		params.NameHe = trimmed
	} else {
		params.NameEn = trimmed
	}
	created, err := r.cities.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	r.log.Info().Int64("city_id", created.ID).Str("slug", created.Slug).Msg("Created city from user input")
	return &CityResolution{City: created, Created: true}, nil
}

func citySlug(name string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ' || c == '-':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		// Hebrew-only names have no ASCII slug form.
		slug = "city-" + uuid.NewString()[:8]
	}
	return slug
}
