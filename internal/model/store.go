package model

import (
	"time"

	"github.com/lib/pq"
)

// Store is a physical store (branch or standalone location). SearchTerms is
// derived from name/display name/aliases on every write and is never set
// independently; it is the lookup surface for alias matching.
type Store struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	DisplayName string         `db:"display_name" json:"displayName"`
	CityID      *int64         `db:"city_id" json:"cityId,omitempty"`
	City        string         `db:"city" json:"city"`
	CityHe      string         `db:"city_he" json:"cityHe"`
	CityEn      string         `db:"city_en" json:"cityEn"`
	Address     string         `db:"address" json:"address"`
	AliasesHe   pq.StringArray `db:"aliases_he" json:"aliasesHe"`
	AliasesEn   pq.StringArray `db:"aliases_en" json:"aliasesEn"`
	SearchTerms pq.StringArray `db:"search_terms" json:"searchTerms"`
	IsActive    bool           `db:"is_active" json:"isActive"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

func (s *Store) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// CityDisplay returns the best available city string for rendering.
func (s *Store) CityDisplay() string {
	if s.City != "" {
		return s.City
	}
	if s.CityEn != "" {
		return s.CityEn
	}
	return s.CityHe
}

type CreateStoreParams struct {
	Name        string
	DisplayName string
	CityID      *int64
	City        string
	CityHe      string
	CityEn      string
	Address     string
	AliasesHe   []string
	AliasesEn   []string
}
