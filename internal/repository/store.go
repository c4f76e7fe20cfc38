package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/text"
)

type StoreRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Store, error)
	// ListActive returns all active stores. Candidate matching runs in
	// memory over normalized search terms, so the full set is needed.
	ListActive(ctx context.Context) ([]model.Store, error)
	Create(ctx context.Context, params model.CreateStoreParams) (*model.Store, error)
	// UpdateCity backfills city fields on a store that was created without
	// a resolved city.
	UpdateCity(ctx context.Context, id int64, cityID *int64, city, cityHe, cityEn string) error
}

type storeRepo struct {
	db *sqlx.DB
}

func NewStoreRepository(db *sqlx.DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) FindByID(ctx context.Context, id int64) (*model.Store, error) {
	var store model.Store
	err := r.db.GetContext(ctx, &store, `
		SELECT * FROM stores WHERE id = $1
	`, id)
	return HandleNotFound(&store, err)
}

func (r *storeRepo) ListActive(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.SelectContext(ctx, &stores, `
		SELECT * FROM stores WHERE is_active ORDER BY id
	`)
	return stores, err
}

func (r *storeRepo) Create(ctx context.Context, params model.CreateStoreParams) (*model.Store, error) {
	var store model.Store
	err := r.db.GetContext(ctx, &store, `
		INSERT INTO stores (name, display_name, city_id, city, city_he, city_en, address,
			aliases_he, aliases_en, search_terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING *
	`, params.Name, params.DisplayName, params.CityID, params.City, params.CityHe, params.CityEn,
		params.Address, pq.StringArray(params.AliasesHe), pq.StringArray(params.AliasesEn),
		BuildSearchTerms(params.Name, params.DisplayName, params.AliasesHe, params.AliasesEn))
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) UpdateCity(ctx context.Context, id int64, cityID *int64, city, cityHe, cityEn string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE stores SET city_id = $2, city = $3, city_he = $4, city_en = $5, updated_at = NOW()
		WHERE id = $1
	`, id, cityID, city, cityHe, cityEn)
	return err
}

// BuildSearchTerms derives the normalized lookup surface from a store's names
// and aliases. It is recomputed on every write so search_terms never drifts
// from the source fields.
func BuildSearchTerms(name, displayName string, aliasesHe, aliasesEn []string) pq.StringArray {
	seen := make(map[string]bool)
	var terms pq.StringArray
	add := func(s string) {
		norm := text.Normalize(s)
		if norm == "" || seen[norm] {
			return
		}
		seen[norm] = true
		terms = append(terms, norm)
	}
	add(name)
	add(displayName)
	for _, a := range aliasesHe {
		add(a)
	}
	for _, a := range aliasesEn {
		add(a)
	}
	return terms
}
