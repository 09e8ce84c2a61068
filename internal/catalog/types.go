// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

// Package catalog holds the domain types for affiliate product offers and
// the pure functions over them: earnings normalization and embedding-text
// construction.
package catalog

// ProductRecord is one catalog entry, keyed by LinkID. Optional text
// attributes are pointers; nil means the source column was absent.
type ProductRecord struct {
	LinkID        string
	Advertiser    *string
	Name          *string
	Description   *string
	Keywords      *string
	Category      *string
	PromotionType *string
	EPC7Day       RawEPC
	EPC3Month     RawEPC
	ClickURL      *string
	CouponCode    *string

	// EmbeddingText is the exact text embedded for this record. It is
	// derived from the fields via BuildEmbeddingText and persisted so
	// re-embedding is reproducible and auditable.
	EmbeddingText string
}

// ProductResult is the caller-facing shape of a product. URL carries the
// ingested click URL verbatim; EPC is the normalized seven-day earnings.
// Relevance is set only for semantic search results.
type ProductResult struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	URL         *string  `json:"url"`
	Coupon      *string  `json:"coupon"`
	EPC         float64  `json:"epc"`
	Relevance   *float64 `json:"relevance,omitempty"`
}

// CategoryCount pairs a category with its number of products.
type CategoryCount struct {
	Category     string `json:"category"`
	ProductCount int    `json:"product_count"`
}

// Stats aggregates the catalog: total record count, distinct non-null
// category count, mean normalized seven-day EPC over non-null values
// (rounded to 2 decimals, 0 when no values), coupon count, and the top
// five categories by product count.
type Stats struct {
	TotalProducts       int             `json:"total_products"`
	Categories          int             `json:"categories"`
	AverageEPC          float64         `json:"average_epc"`
	ProductsWithCoupons int             `json:"products_with_coupons"`
	TopCategories       []CategoryCount `json:"top_categories"`
}

// Result converts a record into its caller-facing shape. A non-nil
// relevance attaches a similarity score (search results only).
func (r *ProductRecord) Result(relevance *float64) ProductResult {
	return ProductResult{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		URL:         r.ClickURL,
		Coupon:      r.CouponCode,
		EPC:         r.EPC7Day.Normalize(),
		Relevance:   relevance,
	}
}
