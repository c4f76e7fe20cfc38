package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a global product identity, independent of any store. The default
// unit fields act as a template: the first report that supplies a unit fills
// them in, and later reports of the same product inherit them unless the user
// overrides.
type Product struct {
	ID                  int64               `db:"id" json:"id"`
	NameHe              string              `db:"name_he" json:"nameHe"`
	NameEn              string              `db:"name_en" json:"nameEn"`
	Brand               string              `db:"brand" json:"brand"`
	Variant             string              `db:"variant" json:"variant"`
	DefaultUnitTypeHe   string              `db:"default_unit_type_he" json:"defaultUnitTypeHe"`
	DefaultUnitTypeEn   string              `db:"default_unit_type_en" json:"defaultUnitTypeEn"`
	DefaultUnitQuantity decimal.NullDecimal `db:"default_unit_quantity" json:"defaultUnitQuantity"`
	IsActive            bool                `db:"is_active" json:"isActive"`
	CreatedAt           time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time           `db:"updated_at" json:"updatedAt"`
}

// HasDefaultUnit reports whether the unit template is already established.
func (p *Product) HasDefaultUnit() bool {
	return (p.DefaultUnitTypeHe != "" || p.DefaultUnitTypeEn != "") && p.DefaultUnitQuantity.Valid
}

type CreateProductParams struct {
	NameHe              string
	NameEn              string
	Brand               string
	Variant             string
	DefaultUnitTypeHe   string
	DefaultUnitTypeEn   string
	DefaultUnitQuantity decimal.NullDecimal
}
