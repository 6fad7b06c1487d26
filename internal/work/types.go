// Package work defines the domain model for work items: the role
// life-cycle, priorities, dependency edges, and the audit trail of
// role transitions.
//
// The package is deliberately free of persistence and transport
// concerns — it holds the types, the validation rules, and the state
// machine that the engine and store packages build on:
// - types, state machine, and mutation guard live in separate files (SRP)
// - enums are closed string types with validation maps
// - all rules are free functions over plain structs
package work

import (
	"fmt"
	"strings"
	"time"
)

// --- Role enum ---

// Role is the life-cycle stage of a work item.
//
// queue, work, review, and done form a total progression order.
// blocked sits outside the progression: a blocked item never satisfies
// a progression threshold, no matter how far along it was when blocked.
type Role string

const (
	RoleQueue   Role = "queue"
	RoleWork    Role = "work"
	RoleReview  Role = "review"
	RoleBlocked Role = "blocked"
	RoleDone    Role = "done"
)

// progressionRank orders the progression roles. blocked is absent on
// purpose — it has no rank.
var progressionRank = map[Role]int{
	RoleQueue:  0,
	RoleWork:   1,
	RoleReview: 2,
	RoleDone:   3,
}

// validRoles is the set of allowed roles.
var validRoles = map[Role]bool{
	RoleQueue:   true,
	RoleWork:    true,
	RoleReview:  true,
	RoleBlocked: true,
	RoleDone:    true,
}

// ValidateRole returns an error if the role is not recognized.
func ValidateRole(r Role) error {
	if !validRoles[r] {
		return fmt.Errorf("invalid role %q: must be one of: queue, work, review, blocked, done", r)
	}
	return nil
}

// AtLeast reports whether r has reached the progression stage
// threshold. It is false whenever r or threshold is blocked (or
// otherwise outside the progression order).
func (r Role) AtLeast(threshold Role) bool {
	rr, ok := progressionRank[r]
	if !ok {
		return false
	}
	tr, ok := progressionRank[threshold]
	if !ok {
		return false
	}
	return rr >= tr
}

// --- Priority enum ---

// Priority orders work items for recommendation ranking.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// validPriorities is the set of allowed priorities.
var validPriorities = map[Priority]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// ValidatePriority returns an error if the priority is not recognized.
func ValidatePriority(p Priority) error {
	if !validPriorities[p] {
		return fmt.Errorf("invalid priority %q: must be one of: high, medium, low", p)
	}
	return nil
}

// Rank returns the sort rank of the priority: high(0) < medium(1) < low(2).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// --- Trigger enum ---

// Trigger names the cause of a role transition, independent of the
// resulting role. complete and cancel both land on done but are
// recorded distinctly in the audit trail.
type Trigger string

const (
	TriggerStart    Trigger = "start"
	TriggerComplete Trigger = "complete"
	TriggerBlock    Trigger = "block"
	TriggerHold     Trigger = "hold"
	TriggerResume   Trigger = "resume"
	TriggerCancel   Trigger = "cancel"
)

// validTriggers is the closed trigger vocabulary.
var validTriggers = map[Trigger]bool{
	TriggerStart:    true,
	TriggerComplete: true,
	TriggerBlock:    true,
	TriggerHold:     true,
	TriggerResume:   true,
	TriggerCancel:   true,
}

// ValidateTrigger returns ErrUnknownTrigger if the trigger is not in
// the closed vocabulary.
func ValidateTrigger(t Trigger) error {
	if !validTriggers[t] {
		return fmt.Errorf("%w: %q (must be one of: start, complete, block, hold, resume, cancel)", ErrUnknownTrigger, t)
	}
	return nil
}

// --- Core data structures ---

// WorkItem is a unit of work with a role-based life-cycle. Items nest:
// a non-empty ParentID means this item is a child (Depth >= 1) of a
// feature- or project-level item.
type WorkItem struct {
	ID            string    `json:"id"`
	ParentID      string    `json:"parent_id,omitempty"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary,omitempty"`
	Role          Role      `json:"role"`
	StatusLabel   string    `json:"status_label,omitempty"`
	PreviousRole  *Role     `json:"previous_role,omitempty"`
	Priority      Priority  `json:"priority"`
	Complexity    *int      `json:"complexity,omitempty"`
	Depth         int       `json:"depth"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
	RoleChangedAt time.Time `json:"role_changed_at"`
	Version       int64     `json:"version"`
}

// RoleTransition is one immutable audit record of a role change.
// Records are append-only: never mutated, never deleted.
type RoleTransition struct {
	ID        int64     `json:"id"`
	ItemID    string    `json:"item_id"`
	FromRole  Role      `json:"from_role"`
	ToRole    Role      `json:"to_role"`
	FromLabel string    `json:"from_label,omitempty"`
	ToLabel   string    `json:"to_label,omitempty"`
	Trigger   Trigger   `json:"trigger"`
	Summary   string    `json:"summary,omitempty"`
	At        time.Time `json:"at"`
}

// DependencyEdge is a directed relation between two work items:
// the "to" item is gated on the "from" item reaching an unblock
// threshold. Well-known type below; edge types are extensible.
type DependencyEdge struct {
	ID        int64     `json:"id"`
	FromID    string    `json:"from_id"`
	ToID      string    `json:"to_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// DepBlocks is the default dependency edge type.
const DepBlocks = "blocks"

// --- Field validation ---

const (
	maxTitleLen   = 500
	maxSummaryLen = 2000
)

// ValidateTitle enforces the non-blank, length-bounded title rule.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title must not be blank")
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("title exceeds %d characters (got %d)", maxTitleLen, len(title))
	}
	return nil
}

// ValidateSummary enforces the summary length bound.
func ValidateSummary(summary string) error {
	if len(summary) > maxSummaryLen {
		return fmt.Errorf("summary exceeds %d characters (got %d)", maxSummaryLen, len(summary))
	}
	return nil
}

// ValidateComplexity enforces the 1-10 rating range.
func ValidateComplexity(c int) error {
	if c < 1 || c > 10 {
		return fmt.Errorf("complexity must be between 1 and 10 (got %d)", c)
	}
	return nil
}

// ValidateTag enforces the tag token alphabet: lowercase letters,
// digits, and hyphens, non-empty.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag must not be empty")
	}
	for _, r := range tag {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			continue
		}
		return fmt.Errorf("invalid tag %q: only lowercase letters, digits, and hyphens are allowed", tag)
	}
	return nil
}

// ValidateTags validates every tag in the set.
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if err := ValidateTag(tag); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDepth enforces depth consistency with parent presence:
// roots sit at depth 0, children at depth >= 1.
func ValidateDepth(depth int, hasParent bool) error {
	if depth < 0 {
		return fmt.Errorf("depth must be non-negative (got %d)", depth)
	}
	if hasParent && depth < 1 {
		return fmt.Errorf("item with a parent must have depth >= 1 (got %d)", depth)
	}
	if !hasParent && depth != 0 {
		return fmt.Errorf("root item must have depth 0 (got %d)", depth)
	}
	return nil
}

