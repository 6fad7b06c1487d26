// Package planner answers the read-only questions about the work
// graph: "is this item blocked by unfinished prerequisites?" and
// "what should be worked on next?".
//
// Planner queries run without entity locks against the latest
// committed state — they tolerate racing mutations and never hold up
// writers.
package planner

import (
	"github.com/taskdeck/taskdeck/internal/work"
)

// ItemSource is the slice of the repository the planner reads.
// *store.Store satisfies it.
type ItemSource interface {
	GetItem(id string) (*work.WorkItem, error)
	DependenciesTargeting(id string) ([]work.DependencyEdge, error)
	Candidates(parentID string) ([]work.WorkItem, error)
}

// Planner evaluates dependency gating and ranks recommendations.
type Planner struct {
	src ItemSource
}

// New creates a planner over the given item source.
func New(src ItemSource) *Planner {
	return &Planner{src: src}
}

// IsBlocked reports whether the item is gated by at least one
// prerequisite that has not reached threshold. An empty threshold
// means "the prerequisite must be done".
//
// The gate fails closed: a prerequisite that cannot be resolved
// counts as incomplete, so work is never released early on a lookup
// failure. Only a failure to list the edges themselves is returned as
// an error (and still reported blocked).
func (p *Planner) IsBlocked(id string, threshold work.Role) (bool, error) {
	if threshold == "" {
		threshold = work.RoleDone
	}

	edges, err := p.src.DependenciesTargeting(id)
	if err != nil {
		return true, err
	}
	if len(edges) == 0 {
		return false, nil
	}

	for _, edge := range edges {
		prereq, err := p.src.GetItem(edge.FromID)
		if err != nil {
			// Unresolvable prerequisite: treat as incomplete.
			return true, nil
		}
		if !prereq.Role.AtLeast(threshold) {
			return true, nil
		}
	}
	return false, nil
}
