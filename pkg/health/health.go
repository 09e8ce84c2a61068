// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

// Package health tracks availability of an upstream dependency.
package health

import (
	"sync"
	"time"
)

// Metrics exposes the current health state of an upstream dependency for
// monitoring and operator visibility. All fields are point-in-time
// snapshots safe to serialize to JSON.
type Metrics struct {
	FailureCount  int64      `json:"failure_count"`
	LastFailureAt *time.Time `json:"last_failure_at,omitempty"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
	Available     bool       `json:"available"`
}

// Tracker records successes and failures of an upstream dependency and
// reports availability. After a failure the dependency is considered
// unavailable for the cooldown period; a success clears the cooldown
// immediately. Safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	cooldown    time.Duration
	failures    int64
	lastFailure *time.Time
	until       *time.Time

	now func() time.Time
}

// NewTracker creates a tracker with the given failure cooldown. A zero
// cooldown means failures never mark the dependency unavailable.
func NewTracker(cooldown time.Duration) *Tracker {
	return &Tracker{cooldown: cooldown, now: time.Now}
}

// RecordFailure notes one failed call.
func (t *Tracker) RecordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.failures++
	at := t.now()
	t.lastFailure = &at
	if t.cooldown > 0 {
		until := at.Add(t.cooldown)
		t.until = &until
	}
}

// RecordSuccess notes one successful call and ends any cooldown.
func (t *Tracker) RecordSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.until = nil
}

// Snapshot returns the current metrics.
func (t *Tracker) Snapshot() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := Metrics{
		FailureCount:  t.failures,
		LastFailureAt: t.lastFailure,
		CooldownUntil: t.until,
		Available:     t.until == nil || t.now().After(*t.until),
	}
	return m
}
