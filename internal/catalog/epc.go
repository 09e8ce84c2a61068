// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package catalog

import (
	"math"
	"strconv"
	"strings"
)

type epcKind uint8

const (
	epcAbsent epcKind = iota
	epcNumber
	epcText
)

// RawEPC is the catalog-reported earnings-per-click value before
// normalization. The source may report it as a plain number, a
// currency-formatted string ("$1.23 USD"), or not at all; the store keeps
// whichever form was ingested and normalization happens only at query time.
type RawEPC struct {
	kind epcKind
	num  float64
	text string
}

// EPCAbsent is the zero RawEPC, representing a missing value.
func EPCAbsent() RawEPC {
	return RawEPC{}
}

// EPCNumber wraps a numeric earnings value.
func EPCNumber(v float64) RawEPC {
	return RawEPC{kind: epcNumber, num: v}
}

// EPCText wraps a textual earnings value, currency-formatted or not.
func EPCText(s string) RawEPC {
	return RawEPC{kind: epcText, text: s}
}

// IsAbsent reports whether no value was ingested.
func (e RawEPC) IsAbsent() bool {
	return e.kind == epcAbsent
}

// StorageText renders the raw value for storage. Numbers use the shortest
// decimal rendering that round-trips through strconv.ParseFloat; text is
// kept verbatim. ok is false when the value is absent.
func (e RawEPC) StorageText() (s string, ok bool) {
	switch e.kind {
	case epcNumber:
		return strconv.FormatFloat(e.num, 'g', -1, 64), true
	case epcText:
		return e.text, true
	default:
		return "", false
	}
}

// Normalize converts the raw value to a float: a leading "$" and trailing
// " USD" are stripped before parsing. Absent or unparseable values yield
// 0.0. Every surfaced epc goes through this function.
func (e RawEPC) Normalize() float64 {
	switch e.kind {
	case epcNumber:
		return e.num
	case epcText:
		s := strings.TrimSpace(e.text)
		s = strings.TrimPrefix(s, "$")
		s = strings.TrimSuffix(s, " USD")
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0.0
		}
		return v
	default:
		return 0.0
	}
}

// RoundTo rounds v to the given number of decimal places. Relevance scores
// use 3 places, aggregate EPC averages 2.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
