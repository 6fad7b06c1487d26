package work

// --- Role state machine ---
//
// The transition table is keyed by trigger, not by role: each trigger
// has a fixed set of source roles and a fixed target. resume is the
// one data-dependent transition — its target is the role captured
// when the item was blocked.
//
// No trigger targets review. review is a legal current state
// (complete, block, and cancel accept it, and resume restores it when
// it was the captured previous role); entering it in the first place
// is the surrounding CRUD layer's concern.

// transitionRule describes one trigger: which roles it accepts and
// where it lands. A nil to means the target is data-dependent
// (resume) and resolved in Next.
type transitionRule struct {
	from map[Role]bool
	to   Role
}

var transitionTable = map[Trigger]transitionRule{
	TriggerStart: {
		from: map[Role]bool{RoleQueue: true},
		to:   RoleWork,
	},
	TriggerComplete: {
		from: map[Role]bool{RoleWork: true, RoleReview: true},
		to:   RoleDone,
	},
	TriggerBlock: {
		from: map[Role]bool{RoleQueue: true, RoleWork: true, RoleReview: true},
		to:   RoleBlocked,
	},
	TriggerHold: {
		from: map[Role]bool{RoleWork: true},
		to:   RoleQueue,
	},
	TriggerResume: {
		from: map[Role]bool{RoleBlocked: true},
		// target is the captured previous role
	},
	TriggerCancel: {
		from: map[Role]bool{RoleQueue: true, RoleWork: true, RoleReview: true, RoleBlocked: true},
		to:   RoleDone,
	},
}

// LegalTriggers returns the triggers accepted from the given role, in
// a fixed order for deterministic error messages.
func LegalTriggers(r Role) []Trigger {
	ordered := []Trigger{TriggerStart, TriggerComplete, TriggerBlock, TriggerHold, TriggerResume, TriggerCancel}
	var legal []Trigger
	for _, t := range ordered {
		if transitionTable[t].from[r] {
			legal = append(legal, t)
		}
	}
	return legal
}

// Next computes the role that firing trigger from current would land
// on. previous is the captured pre-block role, consulted only for
// resume. It never mutates anything.
//
// Errors: ErrUnknownTrigger for a trigger outside the vocabulary
// (checked before any table lookup), *InvalidTransitionError when the
// trigger is known but not legal from current, ErrNoPreviousRole when
// resuming a blocked item that never captured one.
func Next(current Role, trigger Trigger, previous *Role) (Role, error) {
	if err := ValidateTrigger(trigger); err != nil {
		return "", err
	}

	rule := transitionTable[trigger]
	if !rule.from[current] {
		return "", &InvalidTransitionError{Role: current, Trigger: trigger, Legal: LegalTriggers(current)}
	}

	if trigger == TriggerResume {
		if previous == nil {
			return "", ErrNoPreviousRole
		}
		return *previous, nil
	}

	return rule.to, nil
}

// Apply fires trigger on the item. On success it rewrites the item's
// role, previous-role capture, role-change timestamp, and guard
// fields, and returns the audit record to append. On failure the item
// is left untouched and no record is produced.
func Apply(item *WorkItem, trigger Trigger, summary string) (*RoleTransition, error) {
	next, err := Next(item.Role, trigger, item.PreviousRole)
	if err != nil {
		return nil, err
	}

	from := item.Role
	fromLabel := item.StatusLabel

	if trigger == TriggerBlock {
		prev := from
		item.PreviousRole = &prev
	} else {
		item.PreviousRole = nil
	}

	item.Role = next
	Touch(item)
	item.RoleChangedAt = item.ModifiedAt

	return &RoleTransition{
		ItemID:    item.ID,
		FromRole:  from,
		ToRole:    next,
		FromLabel: fromLabel,
		ToLabel:   item.StatusLabel,
		Trigger:   trigger,
		Summary:   summary,
		At:        item.RoleChangedAt,
	}, nil
}
