// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/offerdex/offerdex/internal/catalog"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// epcRealExpr mirrors catalog.RawEPC.Normalize in SQL: trim whitespace,
// strip "$" and " USD", cast to REAL. Absent and unparseable values become
// 0, so they sort last under descending EPC order. A test pins this
// expression to the Go function.
const epcRealExpr = `CAST(REPLACE(REPLACE(TRIM(COALESCE(epc_7day, '0')), '$', ''), ' USD', '') AS REAL)`

const productColumns = `link_id, advertiser, name, description, keywords, category,
promotion_type, epc_7day, epc_3month, click_url, coupon_code, embedding_text`

// CatalogStore is the read side of the products table.
type CatalogStore struct {
	db *sql.DB
}

// GetByLinkIDs returns full records keyed by link id. Missing ids are
// absent from the result rather than errors.
func (c *CatalogStore) GetByLinkIDs(ctx context.Context, linkIDs []string) (map[string]*catalog.ProductRecord, error) {
	if len(linkIDs) == 0 {
		return map[string]*catalog.ProductRecord{}, nil
	}

	placeholders := strings.Repeat("?,", len(linkIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(linkIDs))
	for i, id := range linkIDs {
		args[i] = id
	}

	q := `SELECT ` + productColumns + ` FROM products WHERE link_id IN (` + placeholders + `)`

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "getting products by link id")
	}
	defer func() { _ = rows.Close() }()

	records := make(map[string]*catalog.ProductRecord, len(linkIDs))
	for rows.Next() {
		rec, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		records[rec.LinkID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "iterating products")
	}

	return records, nil
}

// Count returns the total number of catalog records.
func (c *CatalogStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "counting products")
	}
	return n, nil
}

// Categories returns every distinct non-null category with its count,
// ordered by count descending, ties broken by category name ascending.
func (c *CatalogStore) Categories(ctx context.Context) ([]catalog.CategoryCount, error) {
	return c.categories(ctx, 0)
}

func (c *CatalogStore) categories(ctx context.Context, limit int) ([]catalog.CategoryCount, error) {
	q := `SELECT category, COUNT(*) AS count
FROM products
WHERE category IS NOT NULL
GROUP BY category
ORDER BY count DESC, category ASC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "listing categories")
	}
	defer func() { _ = rows.Close() }()

	var counts []catalog.CategoryCount
	for rows.Next() {
		var cc catalog.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.ProductCount); err != nil {
			return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "scanning category count")
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "iterating categories")
	}

	return counts, nil
}

// TopProducts returns records ordered by normalized seven-day EPC
// descending, link id ascending as a stable tiebreak. An empty category
// applies no filter.
func (c *CatalogStore) TopProducts(ctx context.Context, category string, limit int) ([]catalog.ProductRecord, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT ` + productColumns + ` FROM products`)
	if category != "" {
		qb.WriteString(` WHERE category = ?`)
		args = append(args, category)
	}
	qb.WriteString(` ORDER BY ` + epcRealExpr + ` DESC, link_id ASC LIMIT ?`)
	args = append(args, limit)

	rows, err := c.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "querying top products",
			odxerr.FieldCategory(category))
	}
	defer func() { _ = rows.Close() }()

	var records []catalog.ProductRecord
	for rows.Next() {
		rec, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "iterating top products")
	}

	return records, nil
}

// Stats aggregates the catalog in a handful of indexed queries.
func (c *CatalogStore) Stats(ctx context.Context) (*catalog.Stats, error) {
	stats := &catalog.Stats{}

	const countsQ = `SELECT
	COUNT(*),
	COUNT(DISTINCT category),
	COUNT(coupon_code)
FROM products`
	if err := c.db.QueryRowContext(ctx, countsQ).Scan(
		&stats.TotalProducts, &stats.Categories, &stats.ProductsWithCoupons,
	); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "aggregating product counts")
	}

	// Mean normalized EPC over records that carry a raw value.
	var avg sql.NullFloat64
	avgQ := `SELECT AVG(` + epcRealExpr + `) FROM products WHERE epc_7day IS NOT NULL`
	if err := c.db.QueryRowContext(ctx, avgQ).Scan(&avg); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "averaging epc")
	}
	if avg.Valid {
		stats.AverageEPC = catalog.RoundTo(avg.Float64, 2)
	}

	top, err := c.categories(ctx, 5)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []catalog.CategoryCount{}
	}
	stats.TopCategories = top

	return stats, nil
}

// scanProduct reads one row of productColumns into a record, mapping SQL
// NULLs back to nil fields and the raw EPC text into its tagged form.
func scanProduct(rows *sql.Rows) (*catalog.ProductRecord, error) {
	var (
		rec                  catalog.ProductRecord
		advertiser, name     sql.NullString
		description          sql.NullString
		keywords, category   sql.NullString
		promotionType        sql.NullString
		epc7Day, epc3Month   sql.NullString
		clickURL, couponCode sql.NullString
	)

	if err := rows.Scan(
		&rec.LinkID, &advertiser, &name, &description, &keywords, &category,
		&promotionType, &epc7Day, &epc3Month, &clickURL, &couponCode,
		&rec.EmbeddingText,
	); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "scanning product row")
	}

	rec.Advertiser = stringPtr(advertiser)
	rec.Name = stringPtr(name)
	rec.Description = stringPtr(description)
	rec.Keywords = stringPtr(keywords)
	rec.Category = stringPtr(category)
	rec.PromotionType = stringPtr(promotionType)
	rec.ClickURL = stringPtr(clickURL)
	rec.CouponCode = stringPtr(couponCode)
	rec.EPC7Day = storedEPC(epc7Day)
	rec.EPC3Month = storedEPC(epc3Month)

	return &rec, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func storedEPC(ns sql.NullString) catalog.RawEPC {
	if !ns.Valid {
		return catalog.EPCAbsent()
	}
	return catalog.EPCText(ns.String)
}

func epcValue(e catalog.RawEPC) any {
	if s, ok := e.StorageText(); ok {
		return s
	}
	return nil
}
