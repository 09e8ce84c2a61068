// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// Source column headers of the affiliate catalog feed.
const (
	colLinkID        = "LINK ID"
	colAdvertiser    = "ADVERTISER"
	colName          = "NAME"
	colDescription   = "DESCRIPTION"
	colKeywords      = "KEYWORDS"
	colCategory      = "CATEGORY"
	colPromotionType = "PROMOTION TYPE"
	colEPC7Day       = "SEVEN DAY EPC"
	colEPC3Month     = "THREE MONTH EPC"
	colClickURL      = "CLICK URL"
	colCouponCode    = "COUPON CODE"
)

// ReadSource parses a CSV catalog feed into records, preserving source
// order. Header matching is case-insensitive on trimmed names; missing
// optional columns and empty cells become nil fields, unknown columns are
// ignored. The LINK ID column is required, and every row must carry a
// non-empty link id. Duplicate link ids are not resolved here; the
// ingestion pipeline owns the keep-first policy.
func ReadSource(r io.Reader) ([]ProductRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeIngestSourceInvalid, "reading header row")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colLinkID]; !ok {
		return nil, odxerr.New(odxerr.CodeIngestSourceInvalid, "source is missing the LINK ID column")
	}

	cell := func(row []string, name string) *string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return nil
		}
		v := row[idx]
		if v == "" {
			return nil
		}
		return &v
	}

	epcCell := func(row []string, name string) RawEPC {
		if v := cell(row, name); v != nil {
			return EPCText(*v)
		}
		return EPCAbsent()
	}

	var records []ProductRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, odxerr.Wrapf(err, odxerr.CodeIngestSourceInvalid, "reading source row %d", line)
		}

		id := cell(row, colLinkID)
		if id == nil || strings.TrimSpace(*id) == "" {
			return nil, odxerr.Errorf(odxerr.CodeIngestSourceInvalid, "source row %d has no link id", line)
		}

		rec := ProductRecord{
			LinkID:        strings.TrimSpace(*id),
			Advertiser:    cell(row, colAdvertiser),
			Name:          cell(row, colName),
			Description:   cell(row, colDescription),
			Keywords:      cell(row, colKeywords),
			Category:      cell(row, colCategory),
			PromotionType: cell(row, colPromotionType),
			EPC7Day:       epcCell(row, colEPC7Day),
			EPC3Month:     epcCell(row, colEPC3Month),
			ClickURL:      cell(row, colClickURL),
			CouponCode:    cell(row, colCouponCode),
		}
		rec.EmbeddingText = rec.BuildEmbeddingText()

		records = append(records, rec)
	}

	return records, nil
}

// ReadSourceFile opens and parses a CSV catalog feed from disk.
func ReadSourceFile(path string) ([]ProductRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, odxerr.Wrapf(err, odxerr.CodeIngestSourceInvalid, "opening source %s", path)
	}
	defer func() { _ = f.Close() }()

	return ReadSource(f)
}
