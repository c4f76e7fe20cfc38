package model

import (
	"time"
)

// Session is the per-user, per-flow conversation state. It lives in the
// key-value session store, not in Postgres, and is mutated on every inbound
// message while active. Deactivated sessions are kept for audit until their
// TTL expires; the core never deletes them.
type Session struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Kind      FlowKind    `json:"kind"`
	Step      Step        `json:"step"`
	Data      SessionData `json:"data"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// SessionData accumulates the answers collected so far. Fields are optional
// because steps are conditionally skipped; the struct is versioned so stored
// sessions survive schema evolution.
type SessionData struct {
	Version int `json:"v"`

	// Report flow.
	CityID            *int64           `json:"cityId,omitempty"`
	CityHe            string           `json:"cityHe,omitempty"`
	CityEn            string           `json:"cityEn,omitempty"`
	AwaitingCityReuse bool             `json:"awaitingCityReuse,omitempty"`
	CityCandidates    []CityCandidate  `json:"cityCandidates,omitempty"`
	StoreName         string           `json:"storeName,omitempty"`
	Branch            string           `json:"branch,omitempty"`
	StoreID           *int64           `json:"storeId,omitempty"`
	StoreCandidates   []StoreCandidate `json:"storeCandidates,omitempty"`
	ProductName       string           `json:"productName,omitempty"`
	Brand             string           `json:"brand,omitempty"`
	UnitTypeSlug      string           `json:"unitTypeSlug,omitempty"`
	UnitTypeHe        string           `json:"unitTypeHe,omitempty"`
	UnitTypeEn        string           `json:"unitTypeEn,omitempty"`
	UnitQuantity      string           `json:"unitQuantity,omitempty"`
	Price             string           `json:"price,omitempty"`
	UnitsInPrice      int              `json:"unitsInPrice,omitempty"`
	ClubOnly          *bool            `json:"clubOnly,omitempty"`
	LimitQty          *int             `json:"limitQty,omitempty"`
	MinCartTotal      string           `json:"minCartTotal,omitempty"`
	ReportID          *int64           `json:"reportId,omitempty"`

	// Search flow.
	ProductQuery string `json:"productQuery,omitempty"`
	BrandQuery   string `json:"brandQuery,omitempty"`
	CityQuery    string `json:"cityQuery,omitempty"`
}

// StoreCandidate is one entry of a pending store disambiguation list. The
// label/detail pair is what was rendered to the user, so a numeric reply can
// be resolved without re-running the search.
type StoreCandidate struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

type CityCandidate struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
