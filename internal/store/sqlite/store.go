// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

// Package sqlite implements the catalog store and vector index on a single
// SQLite database file, using sqlite-vec for nearest-neighbor search.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/store"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

func init() {
	sqlite_vec.Auto()
}

// Compile-time interface checks.
var (
	_ store.CatalogStore = (*CatalogStore)(nil)
	_ store.VectorIndex  = (*VectorIndex)(nil)
	_ store.IngestStore  = (*Store)(nil)
)

// Store bundles the catalog table and the vector index sharing one
// database file, so a single transaction can cover writes to both.
type Store struct {
	db         *sql.DB
	dimensions int

	Catalog *CatalogStore
	Vector  *VectorIndex
}

// Open opens (or creates) the database at path and initialises both
// tables. dimensions selects the embedding width; 0 uses the default.
func Open(cfg store.Config) (*Store, error) {
	dims := cfg.VectorDimensions
	if dims <= 0 {
		dims = store.DefaultVectorDimensions
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, odxerr.Wrapf(err, odxerr.CodeStoreDatabaseFailure, "opening sqlite db %s", cfg.Path)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "pinging sqlite db")
	}

	if err := migrate(db, dims); err != nil {
		_ = db.Close()
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "migrating catalog tables")
	}

	s := &Store{db: db, dimensions: dims}
	s.Catalog = &CatalogStore{db: db}
	s.Vector = &VectorIndex{db: db}
	return s, nil
}

func migrate(db *sql.DB, dimensions int) error {
	const catalogDDL = `
CREATE TABLE IF NOT EXISTS products (
	link_id        TEXT PRIMARY KEY,
	advertiser     TEXT,
	name           TEXT,
	description    TEXT,
	keywords       TEXT,
	category       TEXT,
	promotion_type TEXT,
	epc_7day       TEXT,
	epc_3month     TEXT,
	click_url      TEXT,
	coupon_code    TEXT,
	embedding_text TEXT NOT NULL
)`
	if _, err := db.Exec(catalogDDL); err != nil {
		return fmt.Errorf("creating products table: %w", err)
	}

	vecDDL := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS vec_products USING vec0(link_id TEXT PRIMARY KEY, embedding float[%d] distance_metric=cosine)`,
		dimensions,
	)
	if _, err := db.Exec(vecDDL); err != nil {
		return fmt.Errorf("creating vec_products virtual table: %w", err)
	}

	return nil
}

// Reset drops and recreates both tables so a fresh ingestion run starts
// from a known-empty target even over a stale database file.
func (s *Store) Reset(ctx context.Context) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS vec_products`,
		`DROP TABLE IF EXISTS products`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return odxerr.Wrapf(err, odxerr.CodeStoreDatabaseFailure, "dropping tables: %s", stmt)
		}
	}

	if err := migrate(s.db, s.dimensions); err != nil {
		return odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "recreating catalog tables")
	}
	return nil
}

// InsertBatch writes records and their embeddings inside one transaction,
// so a row is either present in both tables or in neither.
func (s *Store) InsertBatch(ctx context.Context, records []catalog.ProductRecord, embeddings [][]float32) error {
	if len(records) != len(embeddings) {
		return odxerr.Errorf(odxerr.CodeStoreInvalidInput,
			"batch has %d records but %d embeddings", len(records), len(embeddings))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "beginning batch transaction")
	}
	defer func() { _ = tx.Rollback() }()

	const productQ = `INSERT INTO products
(link_id, advertiser, name, description, keywords, category, promotion_type,
 epc_7day, epc_3month, click_url, coupon_code, embedding_text)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	const vectorQ = `INSERT INTO vec_products (link_id, embedding) VALUES (?, ?)`

	for i := range records {
		rec := &records[i]
		if len(embeddings[i]) != s.dimensions {
			return odxerr.New(odxerr.CodeStoreInvalidInput,
				fmt.Sprintf("embedding has %d dimensions, want %d", len(embeddings[i]), s.dimensions),
				odxerr.FieldLinkID(rec.LinkID))
		}

		if _, err := tx.ExecContext(ctx, productQ,
			rec.LinkID,
			nullable(rec.Advertiser),
			nullable(rec.Name),
			nullable(rec.Description),
			nullable(rec.Keywords),
			nullable(rec.Category),
			nullable(rec.PromotionType),
			epcValue(rec.EPC7Day),
			epcValue(rec.EPC3Month),
			nullable(rec.ClickURL),
			nullable(rec.CouponCode),
			rec.EmbeddingText,
		); err != nil {
			return odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "inserting product",
				odxerr.FieldLinkID(rec.LinkID))
		}

		blob, err := sqlite_vec.SerializeFloat32(embeddings[i])
		if err != nil {
			return odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "serializing embedding",
				odxerr.FieldLinkID(rec.LinkID))
		}
		if _, err := tx.ExecContext(ctx, vectorQ, rec.LinkID, blob); err != nil {
			return odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "inserting vector",
				odxerr.FieldLinkID(rec.LinkID))
		}
	}

	if err := tx.Commit(); err != nil {
		return odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "committing batch")
	}
	return nil
}

// BuildIndexes creates the secondary indexes after the bulk load so
// category listing and top-earnings queries stay O(log n + k).
func (s *Store) BuildIndexes(ctx context.Context) error {
	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
		`CREATE INDEX IF NOT EXISTS idx_products_epc ON products(` + epcRealExpr + ` DESC)`,
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return odxerr.Wrapf(err, odxerr.CodeStoreDatabaseFailure, "creating index: %s", stmt)
		}
	}
	return nil
}

// Close closes the shared database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
