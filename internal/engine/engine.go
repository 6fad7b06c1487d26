// Package engine composes the coordination core: every mutating
// operation acquires the entity lock, applies the role state machine
// and field validation, passes through the mutation guard, and
// persists via the repository.
//
// The engine never retries on its own. Every failure is returned as a
// typed error so the tool layer can tell the caller whether to fix
// the request (invalid transition), retry shortly (entity locked), or
// re-read (version conflict).
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/locks"
	"github.com/taskdeck/taskdeck/internal/planner"
	"github.com/taskdeck/taskdeck/internal/work"
)

// Repository is the persistence contract the engine writes through.
// *store.Store satisfies it.
type Repository interface {
	planner.ItemSource

	CreateItem(item *work.WorkItem) error
	UpdateItem(item *work.WorkItem) error
	DeleteItem(id string) error
	ListItems(parentID string, role work.Role) ([]work.WorkItem, error)
	CountByRole(parentID string) (map[work.Role]int, error)

	AddDependency(fromID, toID, depType string) error
	RemoveDependency(fromID, toID string) error
	DependenciesFrom(id string) ([]work.DependencyEdge, error)
	DeleteDependenciesFor(id string) (int64, error)

	AppendTransition(tr *work.RoleTransition) error
	TransitionsFor(itemID string) ([]work.RoleTransition, error)
}

// Engine is the workflow coordination core.
type Engine struct {
	repo    Repository
	locks   *locks.Coordinator
	planner *planner.Planner
}

// New creates an engine over the repository and lock coordinator.
func New(repo Repository, coordinator *locks.Coordinator) *Engine {
	return &Engine{
		repo:    repo,
		locks:   coordinator,
		planner: planner.New(repo),
	}
}

// newID is a package-level var for test injection of deterministic ids.
var newID = uuid.NewString

// CreateParams holds the caller-supplied fields for a new work item.
type CreateParams struct {
	Title      string
	Summary    string
	ParentID   string
	Priority   work.Priority
	Complexity *int
	Tags       []string
}

// CreateItem validates the fields, derives depth from the parent, and
// persists a fresh queued item at version 1. Creation touches no
// existing row, so it runs without an entity lock — the id does not
// exist for anyone else to contend on yet.
func (e *Engine) CreateItem(p CreateParams) (*work.WorkItem, error) {
	if err := work.ValidateTitle(p.Title); err != nil {
		return nil, err
	}
	if err := work.ValidateSummary(p.Summary); err != nil {
		return nil, err
	}
	if p.Priority == "" {
		p.Priority = work.PriorityMedium
	}
	if err := work.ValidatePriority(p.Priority); err != nil {
		return nil, err
	}
	if p.Complexity != nil {
		if err := work.ValidateComplexity(*p.Complexity); err != nil {
			return nil, err
		}
	}
	if err := work.ValidateTags(p.Tags); err != nil {
		return nil, err
	}

	depth := 0
	if p.ParentID != "" {
		parent, err := e.repo.GetItem(p.ParentID)
		if err != nil {
			return nil, fmt.Errorf("resolving parent: %w", err)
		}
		depth = parent.Depth + 1
	}

	now := work.Now()
	item := &work.WorkItem{
		ID:            newID(),
		ParentID:      p.ParentID,
		Title:         p.Title,
		Summary:       p.Summary,
		Role:          work.RoleQueue,
		Priority:      p.Priority,
		Complexity:    p.Complexity,
		Depth:         depth,
		Tags:          p.Tags,
		CreatedAt:     now,
		ModifiedAt:    now,
		RoleChangedAt: now,
		Version:       1,
	}
	if err := e.repo.CreateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem reads one item. Lock-free: reads see the latest committed
// state.
func (e *Engine) GetItem(id string) (*work.WorkItem, error) {
	return e.repo.GetItem(id)
}

// ListItems reads items filtered by parent and/or role.
func (e *Engine) ListItems(parentID string, role work.Role) ([]work.WorkItem, error) {
	if role != "" {
		if err := work.ValidateRole(role); err != nil {
			return nil, err
		}
	}
	return e.repo.ListItems(parentID, role)
}

// Transition fires trigger on the item inside its entity lock and
// appends the audit record. Unknown triggers are rejected before the
// lock is even acquired.
func (e *Engine) Transition(id string, trigger work.Trigger, sessionID, summary string) (*work.WorkItem, error) {
	if err := work.ValidateTrigger(trigger); err != nil {
		return nil, err
	}

	var item *work.WorkItem
	err := e.locks.WithLock(locks.EntityTask, id, sessionID, func() error {
		current, err := e.repo.GetItem(id)
		if err != nil {
			return err
		}
		tr, err := work.Apply(current, trigger, summary)
		if err != nil {
			return err
		}
		if err := e.repo.UpdateItem(current); err != nil {
			return err
		}
		if err := e.repo.AppendTransition(tr); err != nil {
			return err
		}
		item = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateParams holds the optional field updates for an item. Nil
// pointers leave the field unchanged; nil Tags leaves the tag set
// unchanged.
type UpdateParams struct {
	Title       *string
	Summary     *string
	Priority    *work.Priority
	Complexity  *int
	StatusLabel *string
	Tags        []string
}

// UpdateItem applies field updates under the entity lock with an
// optimistic version check: version must match the item's current
// version or the write fails with the store's version conflict. The
// lock coordinator makes that rare in-process; the check stands as an
// independent safety net.
func (e *Engine) UpdateItem(id string, version int64, p UpdateParams, sessionID string) (*work.WorkItem, error) {
	var item *work.WorkItem
	err := e.locks.WithLock(locks.EntityTask, id, sessionID, func() error {
		current, err := e.repo.GetItem(id)
		if err != nil {
			return err
		}
		if current.Version != version {
			return fmt.Errorf("work item %s is at version %d, caller had %d: %w",
				id, current.Version, version, work.ErrVersionConflict)
		}

		if p.Title != nil {
			if err := work.ValidateTitle(*p.Title); err != nil {
				return err
			}
			current.Title = *p.Title
		}
		if p.Summary != nil {
			if err := work.ValidateSummary(*p.Summary); err != nil {
				return err
			}
			current.Summary = *p.Summary
		}
		if p.Priority != nil {
			if err := work.ValidatePriority(*p.Priority); err != nil {
				return err
			}
			current.Priority = *p.Priority
		}
		if p.Complexity != nil {
			if err := work.ValidateComplexity(*p.Complexity); err != nil {
				return err
			}
			current.Complexity = p.Complexity
		}
		if p.StatusLabel != nil {
			current.StatusLabel = *p.StatusLabel
		}
		if p.Tags != nil {
			if err := work.ValidateTags(p.Tags); err != nil {
				return err
			}
			current.Tags = p.Tags
		}

		work.Touch(current)
		if err := e.repo.UpdateItem(current); err != nil {
			return err
		}
		item = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes the item and every dependency edge touching it,
// under the entity lock.
func (e *Engine) DeleteItem(id string, sessionID string) error {
	return e.locks.WithLock(locks.EntityTask, id, sessionID, func() error {
		if _, err := e.repo.DeleteDependenciesFor(id); err != nil {
			return err
		}
		return e.repo.DeleteItem(id)
	})
}

// AddDependency gates toID on fromID. The lock is taken on the target
// item — the one whose blocked state changes. Self-dependencies are
// rejected.
func (e *Engine) AddDependency(fromID, toID, depType, sessionID string) error {
	if fromID == toID {
		return fmt.Errorf("work item %s cannot depend on itself", fromID)
	}
	return e.locks.WithLock(locks.EntityTask, toID, sessionID, func() error {
		return e.repo.AddDependency(fromID, toID, depType)
	})
}

// RemoveDependency deletes the edge gating toID on fromID.
func (e *Engine) RemoveDependency(fromID, toID, sessionID string) error {
	return e.locks.WithLock(locks.EntityTask, toID, sessionID, func() error {
		return e.repo.RemoveDependency(fromID, toID)
	})
}

// IsBlocked answers the dependency gate for one item. Lock-free.
func (e *Engine) IsBlocked(id string, threshold work.Role) (bool, error) {
	if threshold != "" {
		if err := work.ValidateRole(threshold); err != nil {
			return true, err
		}
	}
	if _, err := e.repo.GetItem(id); err != nil {
		return true, err
	}
	return e.planner.IsBlocked(id, threshold)
}

// Recommend returns the ranked "do next" items in scope. Lock-free.
func (e *Engine) Recommend(parentID string, limit int) (*planner.Recommendation, error) {
	return e.planner.Recommend(parentID, limit)
}

// History returns the item's transition audit trail, oldest first.
func (e *Engine) History(id string) ([]work.RoleTransition, error) {
	if _, err := e.repo.GetItem(id); err != nil {
		return nil, err
	}
	return e.repo.TransitionsFor(id)
}

// Dependencies returns the edges gating the item and the edges it
// gates.
func (e *Engine) Dependencies(id string) (incoming, outgoing []work.DependencyEdge, err error) {
	incoming, err = e.repo.DependenciesTargeting(id)
	if err != nil {
		return nil, nil, err
	}
	outgoing, err = e.repo.DependenciesFrom(id)
	if err != nil {
		return nil, nil, err
	}
	return incoming, outgoing, nil
}

// CountByRole returns per-role item counts for a scope.
func (e *Engine) CountByRole(parentID string) (map[work.Role]int, error) {
	return e.repo.CountByRole(parentID)
}

// WithEntityLock exposes the coordinator to composed operations in
// the surrounding tool layer: fn runs with exclusive, session-scoped
// ownership of the entity.
func (e *Engine) WithEntityLock(entityType, id, sessionID string, fn func() error) error {
	return e.locks.WithLock(entityType, id, sessionID, fn)
}
