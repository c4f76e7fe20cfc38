package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/altonotch/dilli/internal/model"
)

type ReportRepository interface {
	FindByID(ctx context.Context, id int64) (*model.PriceReport, error)
	Create(ctx context.Context, params model.CreatePriceReportParams) (*model.PriceReport, error)
	// SearchDeals returns moderated reports matching the filters, newest
	// first. Deduplication by store/product/brand happens in the caller.
	SearchDeals(ctx context.Context, params model.DealSearchParams) ([]model.DealRow, error)
}

type reportRepo struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) FindByID(ctx context.Context, id int64) (*model.PriceReport, error) {
	var report model.PriceReport
	err := r.db.GetContext(ctx, &report, `
		SELECT * FROM price_reports WHERE id = $1
	`, id)
	return HandleNotFound(&report, err)
}

func (r *reportRepo) Create(ctx context.Context, params model.CreatePriceReportParams) (*model.PriceReport, error) {
	var report model.PriceReport
	err := r.db.GetContext(ctx, &report, `
		INSERT INTO price_reports (user_id, product_id, store_id, price, units_in_price,
			unit_measure_type_he, unit_measure_type_en, unit_measure_quantity,
			club_only, min_cart_total, deal_notes, observed_at,
			product_text_raw, locale, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING *
	`, params.UserID, params.ProductID, params.StoreID, params.Price, params.UnitsInPrice,
		params.UnitMeasureTypeHe, params.UnitMeasureTypeEn, params.UnitMeasureQuantity,
		params.ClubOnly, params.MinCartTotal, params.DealNotes, params.ObservedAt,
		params.ProductTextRaw, params.Locale, params.Source)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) SearchDeals(ctx context.Context, params model.DealSearchParams) ([]model.DealRow, error) {
	var rows []model.DealRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT pr.id AS report_id,
			p.id AS product_id,
			s.id AS store_id,
			p.name_he AS product_he,
			p.name_en AS product_en,
			pr.product_text_raw AS product_raw,
			p.brand AS brand,
			COALESCE(NULLIF(s.display_name, ''), s.name) AS store_name,
			COALESCE(NULLIF(s.city, ''), NULLIF(s.city_en, ''), s.city_he) AS city,
			pr.price AS price,
			pr.units_in_price AS units_in_price,
			pr.observed_at AS observed_at
		FROM price_reports pr
		JOIN products p ON p.id = pr.product_id
		JOIN stores s ON s.id = pr.store_id
		WHERE NOT pr.needs_moderation
		  AND ($1 = '' OR p.name_he ILIKE '%' || $1 || '%'
			OR p.name_en ILIKE '%' || $1 || '%'
			OR pr.product_text_raw ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR p.brand ILIKE '%' || $2 || '%'
			OR p.name_he ILIKE '%' || $2 || '%'
			OR p.name_en ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR s.city ILIKE '%' || $3 || '%'
			OR s.city_he ILIKE '%' || $3 || '%'
			OR s.city_en ILIKE '%' || $3 || '%')
		ORDER BY pr.observed_at DESC, pr.id DESC
		LIMIT $4
	`, params.ProductQuery, params.BrandQuery, params.City, params.Limit)
	return rows, err
}
