// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package catalog_test

import (
	"testing"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestBuildEmbeddingTextAllFields(t *testing.T) {
	rec := catalog.ProductRecord{
		LinkID:        "1",
		Name:          strptr("Trail Shoes"),
		Description:   strptr("Lightweight running shoes"),
		Keywords:      strptr("running, trail, shoes"),
		Category:      strptr("Sports"),
		PromotionType: strptr("Sale"),
	}

	want := "Product: Trail Shoes | Description: Lightweight running shoes | " +
		"Keywords: running, trail, shoes | Category: Sports | Type: Sale"
	assert.Equal(t, want, rec.BuildEmbeddingText())
}

func TestBuildEmbeddingTextOmitsAbsentFields(t *testing.T) {
	rec := catalog.ProductRecord{
		LinkID:   "2",
		Name:     strptr("Mystery Box"),
		Category: strptr("Gifts"),
	}

	// No empty segments and no dangling delimiters for the nil fields.
	assert.Equal(t, "Product: Mystery Box | Category: Gifts", rec.BuildEmbeddingText())
}

func TestBuildEmbeddingTextKeepsEmptyStrings(t *testing.T) {
	// An empty string is a present value, only nil is omitted.
	rec := catalog.ProductRecord{
		LinkID:      "3",
		Name:        strptr("Plain"),
		Description: strptr(""),
	}

	assert.Equal(t, "Product: Plain | Description: ", rec.BuildEmbeddingText())
}

func TestBuildEmbeddingTextAllAbsent(t *testing.T) {
	rec := catalog.ProductRecord{LinkID: "4"}
	assert.Equal(t, "", rec.BuildEmbeddingText())
}

func TestBuildEmbeddingTextIsDeterministic(t *testing.T) {
	rec := catalog.ProductRecord{
		LinkID:      "5",
		Name:        strptr("Desk Lamp"),
		Description: strptr("LED lamp"),
		Category:    strptr("Home"),
	}

	assert.Equal(t, rec.BuildEmbeddingText(), rec.BuildEmbeddingText())
}
