// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cadence decides when a run substitutes a trending post for the
// regular pool post: every Nth publication overall, counted across all
// themes and tags. The count base is published posts only — unpublished
// drafts never advance the cadence.
package cadence

// Decider applies the fixed-interval substitution rule.
type Decider struct {
	every int
}

// New creates a decider that substitutes on every nth publication.
func New(every int) *Decider {
	return &Decider{every: every}
}

// Every returns the configured substitution interval.
func (d *Decider) Every() int {
	return d.every
}

// ShouldSubstituteTrending reports whether the upcoming publication — index
// totalPublished+1 in the overall sequence — lands on the cadence boundary.
// The published count must be read fresh from the store each invocation.
func (d *Decider) ShouldSubstituteTrending(totalPublished int) bool {
	return (totalPublished+1)%d.every == 0
}
