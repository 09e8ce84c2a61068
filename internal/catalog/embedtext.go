// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package catalog

import "strings"

// embedDelimiter joins the labeled segments of the embedding text.
const embedDelimiter = " | "

// BuildEmbeddingText derives the text to embed for a record: the labeled
// fields Product, Description, Keywords, Category, and Type in that order,
// each included only when its source field is non-nil, joined with " | ".
// The derivation is deterministic so re-embedding a record is idempotent.
func (r *ProductRecord) BuildEmbeddingText() string {
	segments := []struct {
		label string
		value *string
	}{
		{"Product", r.Name},
		{"Description", r.Description},
		{"Keywords", r.Keywords},
		{"Category", r.Category},
		{"Type", r.PromotionType},
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.value == nil {
			continue
		}
		parts = append(parts, seg.label+": "+*seg.value)
	}

	return strings.Join(parts, embedDelimiter)
}
