package domain

import (
	"time"

	"github.com/google/uuid"
)

// CompetitionLevel describes how crowded the market for a product is.
type CompetitionLevel string

const (
	CompetitionLow    CompetitionLevel = "low"
	CompetitionMedium CompetitionLevel = "medium"
	CompetitionHigh   CompetitionLevel = "high"
)

// Valid reports whether c is one of the known levels.
func (c CompetitionLevel) Valid() bool {
	switch c {
	case CompetitionLow, CompetitionMedium, CompetitionHigh:
		return true
	}
	return false
}

// Product represents a marketplace product in the catalog.
// Price and Rating are stored as fixed-point decimals and surfaced as floats.
type Product struct {
	ID                    uuid.UUID         `json:"id"`
	ASIN                  string            `json:"asin"`
	Title                 string            `json:"title"`
	Brand                 *string           `json:"brand"`
	Category              string            `json:"category"`
	Subcategory           *string           `json:"subcategory"`
	Price                 float64           `json:"price"`
	SalesRank             *int              `json:"sales_rank"`
	Rating                *float64          `json:"rating"`
	ReviewCount           *int              `json:"review_count"`
	ImageURL              *string           `json:"image_url"`
	Keywords              []string          `json:"keywords"`
	EstimatedMonthlySales *int              `json:"estimated_monthly_sales"`
	CompetitionLevel      *CompetitionLevel `json:"competition_level"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// SearchCriteria holds the optional catalog filters plus pagination.
type SearchCriteria struct {
	Query            *string
	Category         *string
	MinPrice         *float64
	MaxPrice         *float64
	MinRating        *float64
	CompetitionLevel *CompetitionLevel
	Page             int
	Limit            int
}

// SearchResult is one page of products and the total number of matches.
type SearchResult struct {
	Products []*Product `json:"products"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}
