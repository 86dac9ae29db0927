package domain

import "time"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Settings is the site-wide configuration singleton.
type Settings struct {
	SiteName         string    `json:"site_name"`
	DealsPerPage     int       `json:"deals_per_page"`
	AutoPublish      bool      `json:"auto_publish"`
	AffiliateEnabled bool      `json:"affiliate_enabled"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultSettings is used until an admin saves settings for the first time.
func DefaultSettings() Settings {
	return Settings{
		SiteName:         "DealSpot",
		DealsPerPage:     DefaultPageSize,
		AffiliateEnabled: true,
	}
}
