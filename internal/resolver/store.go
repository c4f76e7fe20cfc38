package resolver

import (
	"context"
	"strings"

	"github.com/altonotch/dilli/internal/config"
	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/text"
)

// StoreQuery carries everything known about the store being looked up. City
// fields narrow the search when present; BranchDetail narrows the exact
// phase when it helps.
type StoreQuery struct {
	Name         string
	BranchDetail string
	CityID       *int64
	CityHe       string
	CityEn       string
}

// FindStoreCandidates returns plausible stores for a free-text name, best
// match first. An exact phase (name/display equality or alias-term hit) runs
// before a prefix-chunk fallback; both respect the city filter. Results are
// deduplicated by id and capped.
func (r *Resolver) FindStoreCandidates(ctx context.Context, q StoreQuery) ([]model.Store, error) {
	stores, err := r.stores.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var pool []model.Store
	for _, s := range stores {
		if matchesCity(&s, q) {
			pool = append(pool, s)
		}
	}

	normName := text.Normalize(q.Name)

	exact := exactPhase(pool, q.Name, normName)
	if detail := text.Normalize(q.BranchDetail); detail != "" && len(exact) > 1 {
		if narrowed := narrowByDetail(exact, detail); len(narrowed) >= 1 {
			exact = narrowed
		}
	}

	var out []model.Store
	seen := make(map[int64]bool)
	appendStores := func(stores []model.Store) {
		for _, s := range stores {
			if seen[s.ID] || len(out) >= config.MaxStoreCandidates {
				continue
			}
			seen[s.ID] = true
			out = append(out, s)
		}
	}
	appendStores(exact)

	if len(out) == 0 && normName != "" {
		appendStores(chunkPhase(pool, normName))
	}
	return out, nil
}

// GetOrCreateStore pins the store a completed report refers to. A pinned id
// wins; a single unique candidate is reused; otherwise a fresh store is
// created from the captured text. City fields are backfilled onto reused
// stores that lack them.
func (r *Resolver) GetOrCreateStore(ctx context.Context, q StoreQuery, pinnedID *int64) (*model.Store, error) {
	if pinnedID != nil {
		store, err := r.stores.FindByID(ctx, *pinnedID)
		if err != nil {
			return nil, err
		}
		if store != nil {
			return r.backfillStoreCity(ctx, store, q)
		}
	}

	candidates, err := r.FindStoreCandidates(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 1 {
		return r.backfillStoreCity(ctx, &candidates[0], q)
	}

	name := strings.TrimSpace(q.Name)
	if name == "" {
		name = "Unknown store"
	}
	params := model.CreateStoreParams{
		Name:        name,
		DisplayName: name,
		CityID:      q.CityID,
		CityHe:      q.CityHe,
		CityEn:      q.CityEn,
	}
	if q.CityEn != "" {
		params.City = q.CityEn
	} else {
		params.City = q.CityHe
	}
	if detail := strings.TrimSpace(q.BranchDetail); detail != "" {
		params.DisplayName = name + " " + detail
	}
	store, err := r.stores.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	r.log.Info().Int64("store_id", store.ID).Str("name", store.Name).Msg("Created store from user input")
	return store, nil
}

func (r *Resolver) backfillStoreCity(ctx context.Context, store *model.Store, q StoreQuery) (*model.Store, error) {
	if store.CityID != nil || (store.City != "" && q.CityID == nil) {
		return store, nil
	}
	if q.CityID == nil && q.CityHe == "" && q.CityEn == "" {
		return store, nil
	}
	city := q.CityEn
	if city == "" {
		city = q.CityHe
	}
	if city == "" {
		city = store.City
	}
	if err := r.stores.UpdateCity(ctx, store.ID, q.CityID, city, q.CityHe, q.CityEn); err != nil {
		return nil, err
	}
	store.CityID = q.CityID
	store.City = city
	store.CityHe = q.CityHe
	store.CityEn = q.CityEn
	return store, nil
}

func matchesCity(s *model.Store, q StoreQuery) bool {
	if q.CityID == nil && q.CityHe == "" && q.CityEn == "" {
		return true
	}
	// A store with no city information matches any city; resolution backfills
	// it afterwards.
	if s.CityID == nil && s.City == "" && s.CityHe == "" && s.CityEn == "" {
		return true
	}
	if q.CityID != nil && s.CityID != nil {
		return *s.CityID == *q.CityID
	}
	for _, want := range []string{q.CityHe, q.CityEn} {
		if want == "" {
			continue
		}
		for _, have := range []string{s.City, s.CityHe, s.CityEn} {
			if have != "" && strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

func exactPhase(pool []model.Store, rawName, normName string) []model.Store {
	var out []model.Store
	for _, s := range pool {
		if strings.EqualFold(s.Name, rawName) || strings.EqualFold(s.DisplayName, rawName) {
			out = append(out, s)
			continue
		}
		if normName == "" {
			continue
		}
		for _, term := range s.SearchTerms {
			if term == normName {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func narrowByDetail(stores []model.Store, normDetail string) []model.Store {
	var out []model.Store
	for _, s := range stores {
		for _, field := range []string{s.DisplayName, s.Address, s.Name} {
			if field != "" && strings.Contains(text.Normalize(field), normDetail) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// chunkPhase is a coarse containment heuristic: the first 3 normalized
// characters of the query, expanded through Hebrew doubled-letter spelling
// variants, matched against store names and search terms.
func chunkPhase(pool []model.Store, normName string) []model.Store {
	chunks := chunkVariants(normName)
	var out []model.Store
	for _, s := range pool {
		fields := []string{text.Normalize(s.Name), text.Normalize(s.DisplayName)}
		fields = append(fields, s.SearchTerms...)
		if containsAnyChunk(fields, chunks) {
			out = append(out, s)
		}
	}
	return out
}

func containsAnyChunk(fields, chunks []string) bool {
	for _, f := range fields {
		for _, c := range chunks {
			if f != "" && strings.Contains(f, c) {
				return true
			}
		}
	}
	return false
}

// doubleLetterRules are Hebrew consonant doublings that vary between plene
// and defective spellings of the same word.
var doubleLetterRules = [][2]string{
	{"וו", "ו"},
	{"יי", "י"},
}

func chunkVariants(normName string) []string {
	runes := []rune(normName)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	chunk := string(runes)

	seen := map[string]bool{chunk: true}
	variants := []string{chunk}
	for _, rule := range doubleLetterRules {
		for _, v := range []string{
			strings.ReplaceAll(chunk, rule[0], rule[1]),
			strings.ReplaceAll(chunk, rule[1], rule[0]),
		} {
			if !seen[v] {
				seen[v] = true
				variants = append(variants, v)
			}
		}
	}
	return variants
}
