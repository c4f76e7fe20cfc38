package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/altonotch/dilli/internal/model"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	// FindByName matches case-insensitively on either language name,
	// optionally narrowed by brand.
	FindByName(ctx context.Context, name, brand string) (*model.Product, error)
	// FindByChunk matches by name containment, optionally narrowed by
	// brand. Used as the fuzzy fallback after exact lookup misses.
	FindByChunk(ctx context.Context, chunk, brand string) (*model.Product, error)
	Create(ctx context.Context, params model.CreateProductParams) (*model.Product, error)
	// SetDefaultUnit establishes the product's unit template. It writes only
	// when no template exists yet; an established template is never replaced.
	SetDefaultUnit(ctx context.Context, id int64, typeHe, typeEn string, quantity decimal.Decimal) error
}

type productRepo struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, `
		SELECT * FROM products WHERE id = $1
	`, id)
	return HandleNotFound(&product, err)
}

func (r *productRepo) FindByName(ctx context.Context, name, brand string) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, `
		SELECT * FROM products
		WHERE is_active
		  AND (LOWER(name_he) = LOWER($1) OR LOWER(name_en) = LOWER($1))
		  AND ($2 = '' OR LOWER(brand) = LOWER($2))
		ORDER BY id
		LIMIT 1
	`, name, brand)
	return HandleNotFound(&product, err)
}

func (r *productRepo) FindByChunk(ctx context.Context, chunk, brand string) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, `
		SELECT * FROM products
		WHERE is_active
		  AND (name_he ILIKE '%' || $1 || '%' OR name_en ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR LOWER(brand) = LOWER($2))
		ORDER BY id
		LIMIT 1
	`, chunk, brand)
	return HandleNotFound(&product, err)
}

func (r *productRepo) Create(ctx context.Context, params model.CreateProductParams) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, `
		INSERT INTO products (name_he, name_en, brand, variant,
			default_unit_type_he, default_unit_type_en, default_unit_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, params.NameHe, params.NameEn, params.Brand, params.Variant,
		params.DefaultUnitTypeHe, params.DefaultUnitTypeEn, params.DefaultUnitQuantity)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) SetDefaultUnit(ctx context.Context, id int64, typeHe, typeEn string, quantity decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET default_unit_type_he = $2, default_unit_type_en = $3,
			default_unit_quantity = $4, updated_at = NOW()
		WHERE id = $1
		  AND default_unit_type_he = '' AND default_unit_type_en = ''
		  AND default_unit_quantity IS NULL
	`, id, typeHe, typeEn, quantity)
	return err
}
