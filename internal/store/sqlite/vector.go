// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package sqlite

import (
	"context"
	"database/sql"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/offerdex/offerdex/internal/store"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// VectorIndex is the read side of the vec_products virtual table.
type VectorIndex struct {
	db *sql.DB
}

// Search performs a k-nearest-neighbor search by cosine distance and
// returns candidates ascending by distance.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]store.VectorMatch, error) {
	if k <= 0 {
		return nil, nil
	}

	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "serializing query vector")
	}

	const q = `SELECT link_id, distance
FROM vec_products
WHERE embedding MATCH ? AND k = ?
ORDER BY distance`

	rows, err := v.db.QueryContext(ctx, q, blob, k)
	if err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "searching vectors")
	}
	defer func() { _ = rows.Close() }()

	var matches []store.VectorMatch
	for rows.Next() {
		var m store.VectorMatch
		if err := rows.Scan(&m.LinkID, &m.Distance); err != nil {
			return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "scanning vector match")
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "iterating vector matches")
	}

	return matches, nil
}
