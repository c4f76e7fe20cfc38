package model

import "time"

// User is a chat user identified by a salted hash of the transport sender id.
// No passwords; the last four digits are kept for support lookups only.
type User struct {
	ID          string     `db:"id" json:"id"`
	SenderHash  string     `db:"sender_hash" json:"-"`
	SenderLast4 string     `db:"sender_last4" json:"-"`
	DisplayName string     `db:"display_name" json:"displayName"`
	Locale      string     `db:"locale" json:"locale"`
	City        string     `db:"city" json:"city"`
	CityID      *int64     `db:"city_id" json:"cityId,omitempty"`
	Role        Role       `db:"role" json:"role"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	ConsentAt   *time.Time `db:"consent_at" json:"consentAt,omitempty"`
	DateJoined  time.Time  `db:"date_joined" json:"dateJoined"`
	LastSeen    *time.Time `db:"last_seen" json:"lastSeen,omitempty"`
}

type CreateUserParams struct {
	SenderHash  string
	SenderLast4 string
	DisplayName string
	Locale      string
}
