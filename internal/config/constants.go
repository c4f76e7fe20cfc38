package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// Database ping timeout for startup checks
const DBPingTimeout = 5 * time.Second

// Conversation limits
const (
	MaxStoreCandidates = 5
	MaxCityChoices     = 3
	MaxSearchResults   = 5
	MaxDealNotesLen    = 240
)
