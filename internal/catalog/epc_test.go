// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package catalog_test

import (
	"testing"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrencyString(t *testing.T) {
	tests := []struct {
		name string
		raw  catalog.RawEPC
		want float64
	}{
		{"dollar and usd suffix", catalog.EPCText("$1.23 USD"), 1.23},
		{"plain numeric text", catalog.EPCText("4.5"), 4.5},
		{"dollar only", catalog.EPCText("$2.00"), 2.0},
		{"usd suffix only", catalog.EPCText("0.75 USD"), 0.75},
		{"surrounding whitespace", catalog.EPCText("  $3.10 USD "), 3.1},
		{"number value", catalog.EPCNumber(7.25), 7.25},
		{"absent", catalog.EPCAbsent(), 0.0},
		{"empty text", catalog.EPCText(""), 0.0},
		{"unparseable text", catalog.EPCText("n/a"), 0.0},
		{"zero", catalog.EPCNumber(0), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.raw.Normalize(), 1e-9)
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	raw := catalog.EPCText("$1.23 USD")
	assert.Equal(t, raw.Normalize(), raw.Normalize())
}

func TestStorageTextPreservesRawValue(t *testing.T) {
	s, ok := catalog.EPCText("$1.23 USD").StorageText()
	assert.True(t, ok)
	assert.Equal(t, "$1.23 USD", s)

	s, ok = catalog.EPCNumber(1.5).StorageText()
	assert.True(t, ok)
	assert.Equal(t, "1.5", s)

	_, ok = catalog.EPCAbsent().StorageText()
	assert.False(t, ok)
}

func TestStorageTextRoundTripsThroughNormalize(t *testing.T) {
	for _, raw := range []catalog.RawEPC{
		catalog.EPCNumber(2.0),
		catalog.EPCNumber(0.333),
		catalog.EPCText("$9.99 USD"),
		catalog.EPCText("1.50"),
	} {
		s, ok := raw.StorageText()
		assert.True(t, ok)
		assert.InDelta(t, raw.Normalize(), catalog.EPCText(s).Normalize(), 1e-9)
	}
}

func TestRoundTo(t *testing.T) {
	assert.InDelta(t, 0.123, catalog.RoundTo(0.12345, 3), 1e-9)
	assert.InDelta(t, 1.75, catalog.RoundTo(1.75, 2), 1e-9)
	assert.InDelta(t, 0.667, catalog.RoundTo(2.0/3.0, 3), 1e-9)
	assert.InDelta(t, 1.0, catalog.RoundTo(0.9995, 3), 1e-9)
}

func TestIsAbsent(t *testing.T) {
	assert.True(t, catalog.EPCAbsent().IsAbsent())
	assert.False(t, catalog.EPCText("").IsAbsent())
	assert.False(t, catalog.EPCNumber(0).IsAbsent())
}
