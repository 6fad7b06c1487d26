// Package locks implements the in-process entity lock coordinator.
//
// Every mutating operation on an entity runs inside WithLock for that
// entity's (type, id) key. The coordinator guarantees at most one
// holding session per key, supports re-entrant acquisition by the
// holding session, and releases everything a session holds when the
// session is torn down. Lock state is in-memory only — it scopes a
// single server process, not a cluster.
package locks

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrEntityLocked marks an acquisition attempt that lost to another
// session and exhausted its retry window. It is a contention signal,
// not a data error: callers should back off and retry.
var ErrEntityLocked = errors.New("entity locked")

// EntityTask is the entity type key for work items.
const EntityTask = "task"

// Key identifies one lockable entity.
type Key struct {
	Type string
	ID   string
}

func (k Key) String() string {
	return k.Type + "/" + k.ID
}

// holder records who owns a key and since when. depth counts
// re-entrant acquisitions by the owning session.
type holder struct {
	session    string
	acquiredAt time.Time
	depth      int
}

// Handle is proof of ownership for one acquisition. Releasing a
// handle undoes exactly one Acquire.
type Handle struct {
	key     Key
	session string
}

// Coordinator serializes mutations per entity key.
type Coordinator struct {
	mu   sync.Mutex
	held map[Key]*holder

	// window bounds how long Acquire keeps retrying a contended key
	// before failing with ErrEntityLocked; poll is the spacing between
	// attempts.
	window time.Duration
	poll   time.Duration
}

// DefaultWindow and DefaultPoll implement the fail-fast policy:
// automated callers are expected to retry the whole operation rather
// than queue on a lock indefinitely.
const (
	DefaultWindow = 250 * time.Millisecond
	DefaultPoll   = 25 * time.Millisecond
)

// NewCoordinator creates a coordinator with the given retry window
// and poll interval. Non-positive values fall back to the defaults.
func NewCoordinator(window, poll time.Duration) *Coordinator {
	if window <= 0 {
		window = DefaultWindow
	}
	if poll <= 0 {
		poll = DefaultPoll
	}
	return &Coordinator{
		held:   make(map[Key]*holder),
		window: window,
		poll:   poll,
	}
}

// Acquire takes the lock for (entityType, id) on behalf of session.
//
// If the session already holds the key the acquisition is re-entrant
// and succeeds immediately. If another session holds it, Acquire
// retries within the bounded window and then fails with
// ErrEntityLocked — it never queues indefinitely.
func (c *Coordinator) Acquire(entityType, id, session string) (*Handle, error) {
	key := Key{Type: entityType, ID: id}
	deadline := time.Now().Add(c.window)

	for {
		if c.tryAcquire(key, session) {
			return &Handle{key: key, session: session}, nil
		}
		if time.Now().After(deadline) {
			c.mu.Lock()
			owner := ""
			if h, ok := c.held[key]; ok {
				owner = h.session
			}
			c.mu.Unlock()
			return nil, fmt.Errorf("%s held by session %q: %w", key, owner, ErrEntityLocked)
		}
		time.Sleep(c.poll)
	}
}

// tryAcquire makes one attempt. Grants on a free key or on re-entry
// by the holding session.
func (c *Coordinator) tryAcquire(key Key, session string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.held[key]
	if !ok {
		c.held[key] = &holder{session: session, acquiredAt: time.Now(), depth: 1}
		return true
	}
	if h.session == session {
		h.depth++
		return true
	}
	return false
}

// Release gives the lock back. Releasing a re-entrant acquisition
// only decrements the depth; the key frees up when the outermost
// acquisition releases. Releasing a handle whose lock is no longer
// held (e.g. after session teardown) is a no-op.
func (c *Coordinator) Release(h *Handle) {
	if h == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.held[h.key]
	if !ok || cur.session != h.session {
		return
	}
	cur.depth--
	if cur.depth <= 0 {
		delete(c.held, h.key)
	}
}

// WithLock runs fn while holding the lock for (entityType, id). The
// lock is released on every exit path — fn's error, fn's success, or
// fn panicking.
func (c *Coordinator) WithLock(entityType, id, session string, fn func() error) error {
	h, err := c.Acquire(entityType, id, session)
	if err != nil {
		return err
	}
	defer c.Release(h)
	return fn()
}

// ReleaseSession forcibly frees every lock the session holds,
// regardless of depth, and returns how many keys were freed. Called
// on session teardown so no lock outlives a dead caller.
func (c *Coordinator) ReleaseSession(session string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, h := range c.held {
		if h.session == session {
			delete(c.held, key)
			n++
		}
	}
	return n
}

// Holder reports the session currently holding (entityType, id), or
// false if the key is free.
func (c *Coordinator) Holder(entityType, id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.held[Key{Type: entityType, ID: id}]
	if !ok {
		return "", false
	}
	return h.session, true
}
