package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceReport is an immutable user-submitted observation: product at a store
// at a price and time. Raw free-text fields are kept for audit; currency is
// implicit (local).
type PriceReport struct {
	ID                  int64               `db:"id" json:"id"`
	UserID              *string             `db:"user_id" json:"userId,omitempty"`
	ProductID           int64               `db:"product_id" json:"productId"`
	StoreID             int64               `db:"store_id" json:"storeId"`
	Price               decimal.Decimal     `db:"price" json:"price"`
	UnitsInPrice        int                 `db:"units_in_price" json:"unitsInPrice"`
	UnitMeasureTypeHe   string              `db:"unit_measure_type_he" json:"unitMeasureTypeHe"`
	UnitMeasureTypeEn   string              `db:"unit_measure_type_en" json:"unitMeasureTypeEn"`
	UnitMeasureQuantity decimal.NullDecimal `db:"unit_measure_quantity" json:"unitMeasureQuantity"`
	ClubOnly            bool                `db:"club_only" json:"clubOnly"`
	MinCartTotal        decimal.NullDecimal `db:"min_cart_total" json:"minCartTotal"`
	DealNotes           string              `db:"deal_notes" json:"dealNotes"`
	NeedsModeration     bool                `db:"needs_moderation" json:"needsModeration"`
	ObservedAt          time.Time           `db:"observed_at" json:"observedAt"`
	ProductTextRaw      string              `db:"product_text_raw" json:"productTextRaw"`
	Locale              string              `db:"locale" json:"locale"`
	Source              string              `db:"source" json:"source"`
	CreatedAt           time.Time           `db:"created_at" json:"createdAt"`
}

type CreatePriceReportParams struct {
	UserID              *string
	ProductID           int64
	StoreID             int64
	Price               decimal.Decimal
	UnitsInPrice        int
	UnitMeasureTypeHe   string
	UnitMeasureTypeEn   string
	UnitMeasureQuantity decimal.NullDecimal
	ClubOnly            bool
	MinCartTotal        decimal.NullDecimal
	DealNotes           string
	ObservedAt          time.Time
	ProductTextRaw      string
	Locale              string
	Source              string
}

// DealSearchParams filters moderated reports for the search flow.
type DealSearchParams struct {
	ProductQuery string
	BrandQuery   string
	City         string
	Limit        int
}

// DealRow is a search result row: a report joined with its product and store
// display fields.
type DealRow struct {
	ReportID     int64           `db:"report_id" json:"reportId"`
	ProductID    int64           `db:"product_id" json:"productId"`
	StoreID      int64           `db:"store_id" json:"storeId"`
	ProductHe    string          `db:"product_he" json:"productHe"`
	ProductEn    string          `db:"product_en" json:"productEn"`
	ProductRaw   string          `db:"product_raw" json:"productRaw"`
	Brand        string          `db:"brand" json:"brand"`
	StoreName    string          `db:"store_name" json:"storeName"`
	City         string          `db:"city" json:"city"`
	Price        decimal.Decimal `db:"price" json:"price"`
	UnitsInPrice int             `db:"units_in_price" json:"unitsInPrice"`
	ObservedAt   time.Time       `db:"observed_at" json:"observedAt"`
}
