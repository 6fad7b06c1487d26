package planner

import (
	"fmt"
	"sort"

	"github.com/taskdeck/taskdeck/internal/work"
)

// Recommendation is the ranked answer to "what next".
// TotalCandidates counts every unblocked candidate considered, not
// just the ones that made the cut — callers use it to gauge backlog
// depth even when the limit is small.
type Recommendation struct {
	Items           []work.WorkItem `json:"items"`
	TotalCandidates int             `json:"total_candidates"`
}

// unratedComplexity sorts items without a complexity rating after
// every rated item of the same priority.
const unratedComplexity = 11

// Recommend returns the top-limit queued, unblocked items in scope
// (parentID, or the whole backlog when empty).
//
// Ranking: priority first (high before medium before low), then
// complexity ascending — high-priority, low-complexity items are the
// best quick wins. The sort is stable so ties keep their repository
// order and results stay deterministic.
func (p *Planner) Recommend(parentID string, limit int) (*Recommendation, error) {
	if limit <= 0 {
		limit = 5
	}

	candidates, err := p.src.Candidates(parentID)
	if err != nil {
		return nil, fmt.Errorf("planner: load candidates: %w", err)
	}

	var ready []work.WorkItem
	for _, item := range candidates {
		blocked, err := p.IsBlocked(item.ID, work.RoleDone)
		if err != nil {
			return nil, fmt.Errorf("planner: gate check for %s: %w", item.ID, err)
		}
		if !blocked {
			ready = append(ready, item)
		}
	}

	sort.SliceStable(ready, func(i, j int) bool {
		pi, pj := ready[i].Priority.Rank(), ready[j].Priority.Rank()
		if pi != pj {
			return pi < pj
		}
		return complexityRank(&ready[i]) < complexityRank(&ready[j])
	})

	total := len(ready)
	if len(ready) > limit {
		ready = ready[:limit]
	}
	return &Recommendation{Items: ready, TotalCandidates: total}, nil
}

func complexityRank(item *work.WorkItem) int {
	if item.Complexity == nil {
		return unratedComplexity
	}
	return *item.Complexity
}
