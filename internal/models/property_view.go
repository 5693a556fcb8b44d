package models

import "time"

// PropertyView is the compact listing representation served to the browsing
// frontend. It is a read-only projection of the listing table.
type PropertyView struct {
	ListingID    string     `json:"listing_id"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	Zip          string     `json:"zip"`
	Price        float64    `json:"price"`
	Bedrooms     int        `json:"bedrooms"`
	Bathrooms    int        `json:"bathrooms"`
	LivingArea   float64    `json:"living_area"`
	LotSizeAcres float64    `json:"lot_size_acres"`
	YearBuilt    int        `json:"year_built"`
	PropertyType string     `json:"property_type"`
	Status       string     `json:"status"`
	Remarks      string     `json:"remarks"`
	Photos       []string   `json:"photos"`
	ListingDate  *time.Time `json:"listing_date"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
}

// PropertySearchParams carries the frontend's filter parameters.
type PropertySearchParams struct {
	City         string  `json:"city"`
	Zip          string  `json:"zip"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	PropertyType string  `json:"property_type"`
	Keyword      string  `json:"keyword"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

// PropertyResponse is one page of search results.
type PropertyResponse struct {
	Properties []PropertyView `json:"properties"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// InsightsSummary aggregates the active inventory for the insights page.
type InsightsSummary struct {
	ActiveListings  int     `json:"active_listings"`
	MinPrice        float64 `json:"min_price"`
	AvgPrice        float64 `json:"avg_price"`
	MaxPrice        float64 `json:"max_price"`
	AvgPricePerSqFt float64 `json:"avg_price_per_sqft"`
}
