package config

import (
	"fmt"
	"os"
)

const (
	EnvLexgoHarvestListingURL = "LEXGO_HARVEST_LISTING_URL"
	EnvLexgoHarvestPrefix     = "LEXGO_HARVEST_PREFIX"
)

// HarvestConfig locates the listing source and the storage key prefix
// for harvested decisions.
type HarvestConfig struct {
	ListingURL string `toml:"listing_url"`
	Prefix     string `toml:"prefix"`
	// ListingCSV is the local path where scraped records are persisted.
	ListingCSV string `toml:"listing_csv"`
}

// Finalize applies defaults, environment overrides, and validation.
func (c *HarvestConfig) Finalize() error {
	if c.Prefix == "" {
		c.Prefix = "jurisprudencia/pba-laboral"
	}
	if c.ListingCSV == "" {
		c.ListingCSV = "data/listado.csv"
	}

	if v := os.Getenv(EnvLexgoHarvestListingURL); v != "" {
		c.ListingURL = v
	}
	if v := os.Getenv(EnvLexgoHarvestPrefix); v != "" {
		c.Prefix = v
	}

	if c.Prefix == "" {
		return fmt.Errorf("prefix required")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *HarvestConfig) Merge(overlay *HarvestConfig) {
	if overlay.ListingURL != "" {
		c.ListingURL = overlay.ListingURL
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.ListingCSV != "" {
		c.ListingCSV = overlay.ListingCSV
	}
}
