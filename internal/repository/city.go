package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/altonotch/dilli/internal/model"
)

type CityRepository interface {
	FindByID(ctx context.Context, id int64) (*model.City, error)
	// FindByName matches case-insensitively on either language name.
	FindByName(ctx context.Context, name string) (*model.City, error)
	// SearchByName returns active cities whose name contains the query,
	// for disambiguation lists.
	SearchByName(ctx context.Context, name string, limit int) ([]model.City, error)
	FindBySlug(ctx context.Context, slug string) (*model.City, error)
	Create(ctx context.Context, params model.CreateCityParams) (*model.City, error)
}

type cityRepo struct {
	db *sqlx.DB
}

func NewCityRepository(db *sqlx.DB) CityRepository {
	return &cityRepo{db: db}
}

func (r *cityRepo) FindByID(ctx context.Context, id int64) (*model.City, error) {
	var city model.City
	err := r.db.GetContext(ctx, &city, `
		SELECT * FROM cities WHERE id = $1
	`, id)
	return HandleNotFound(&city, err)
}

func (r *cityRepo) FindByName(ctx context.Context, name string) (*model.City, error) {
	var city model.City
	err := r.db.GetContext(ctx, &city, `
		SELECT * FROM cities
		WHERE is_active AND (LOWER(name_he) = LOWER($1) OR LOWER(name_en) = LOWER($1))
		ORDER BY id
		LIMIT 1
	`, name)
	return HandleNotFound(&city, err)
}

func (r *cityRepo) SearchByName(ctx context.Context, name string, limit int) ([]model.City, error) {
	var cities []model.City
	err := r.db.SelectContext(ctx, &cities, `
		SELECT * FROM cities
		WHERE is_active AND (name_he ILIKE '%' || $1 || '%' OR name_en ILIKE '%' || $1 || '%')
		ORDER BY name_en, name_he
		LIMIT $2
	`, name, limit)
	return cities, err
}

func (r *cityRepo) FindBySlug(ctx context.Context, slug string) (*model.City, error) {
	var city model.City
	err := r.db.GetContext(ctx, &city, `
		SELECT * FROM cities WHERE slug = $1
	`, slug)
	return HandleNotFound(&city, err)
}

func (r *cityRepo) Create(ctx context.Context, params model.CreateCityParams) (*model.City, error) {
	var city model.City
	err := r.db.GetContext(ctx, &city, `
		INSERT INTO cities (name_he, name_en, slug)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.NameHe, params.NameEn, params.Slug)
	if err != nil {
		return nil, err
	}
	return &city, nil
}
