package model

import "time"

// City is a canonical bilingual place name. Stores reference it by id;
// free-text city fields on Store are a fallback for unresolved input.
type City struct {
	ID        int64     `db:"id" json:"id"`
	NameHe    string    `db:"name_he" json:"nameHe"`
	NameEn    string    `db:"name_en" json:"nameEn"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func (c *City) DisplayName() string {
	if c.NameEn != "" {
		return c.NameEn
	}
	return c.NameHe
}

type CreateCityParams struct {
	NameHe string
	NameEn string
	Slug   string
}
