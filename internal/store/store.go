// Package store implements the SQLite-backed repository for work
// items, dependency edges, and the role-transition audit trail.
//
// It uses modernc.org/sqlite (pure Go, no cgo) with WAL mode. The
// store owns row-level consistency only: single-statement atomic
// writes plus an optimistic version check on updates. Serializing
// whole read-modify-write operations is the lock coordinator's job.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/taskdeck/taskdeck/internal/work"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound marks a lookup for an id that does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is the mutation guard's stale-write sentinel.
// The store rejects stale versions with it so the two halves of the
// optimistic-concurrency check surface the same error kind.
var ErrVersionConflict = work.ErrVersionConflict

// timeLayout is RFC3339 with millisecond precision — matching the
// one-millisecond tick the mutation guard uses, so stored timestamps
// round-trip without losing the strict ordering.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Store is the work-item repository backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens the database with
// WAL mode, and runs migrations.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "taskdeck.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS work_items (
			id              TEXT PRIMARY KEY,
			parent_id       TEXT REFERENCES work_items(id) ON DELETE SET NULL,
			title           TEXT    NOT NULL,
			summary         TEXT    NOT NULL DEFAULT '',
			role            TEXT    NOT NULL,
			status_label    TEXT    NOT NULL DEFAULT '',
			previous_role   TEXT,
			priority        TEXT    NOT NULL DEFAULT 'medium',
			complexity      INTEGER,
			depth           INTEGER NOT NULL DEFAULT 0,
			tags            TEXT    NOT NULL DEFAULT '',
			created_at      TEXT    NOT NULL,
			modified_at     TEXT    NOT NULL,
			role_changed_at TEXT    NOT NULL,
			version         INTEGER NOT NULL DEFAULT 1
		);

		CREATE INDEX IF NOT EXISTS idx_items_parent   ON work_items(parent_id);
		CREATE INDEX IF NOT EXISTS idx_items_role     ON work_items(role);
		CREATE INDEX IF NOT EXISTS idx_items_priority ON work_items(priority);

		CREATE TABLE IF NOT EXISTS dependencies (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			from_id    TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
			to_id      TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
			type       TEXT NOT NULL DEFAULT 'blocks',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_dep_from ON dependencies(from_id);
		CREATE INDEX IF NOT EXISTS idx_dep_to   ON dependencies(to_id);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_dep_unique ON dependencies(from_id, to_id, type);

		CREATE TABLE IF NOT EXISTS role_transitions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id    TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
			from_role  TEXT NOT NULL,
			to_role    TEXT NOT NULL,
			from_label TEXT NOT NULL DEFAULT '',
			to_label   TEXT NOT NULL DEFAULT '',
			"trigger"  TEXT NOT NULL,
			summary    TEXT NOT NULL DEFAULT '',
			at         TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trans_item ON role_transitions(item_id, at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --- Work items ---

const itemColumns = `id, parent_id, title, summary, role, status_label, previous_role,
	priority, complexity, depth, tags, created_at, modified_at, role_changed_at, version`

// CreateItem inserts a new work item.
func (s *Store) CreateItem(item *work.WorkItem) error {
	_, err := s.db.Exec(`
		INSERT INTO work_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, nullString(item.ParentID), item.Title, item.Summary,
		string(item.Role), item.StatusLabel, nullRole(item.PreviousRole),
		string(item.Priority), nullInt(item.Complexity), item.Depth,
		strings.Join(item.Tags, ","),
		formatTime(item.CreatedAt), formatTime(item.ModifiedAt), formatTime(item.RoleChangedAt),
		item.Version,
	)
	if err != nil {
		return fmt.Errorf("store: create item %s: %w", item.ID, err)
	}
	return nil
}

// GetItem looks up a work item by id. Returns ErrNotFound if absent.
func (s *Store) GetItem(id string) (*work.WorkItem, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM work_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("work item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get item %s: %w", id, err)
	}
	return item, nil
}

// UpdateItem writes all mutable fields of the item. The item's
// Version field must already hold the NEW version (the mutation guard
// bumps it before the write reaches the store); the update only lands
// if the row still carries the previous one. A stale version yields
// ErrVersionConflict, a missing row ErrNotFound.
func (s *Store) UpdateItem(item *work.WorkItem) error {
	res, err := s.db.Exec(`
		UPDATE work_items
		SET parent_id = ?, title = ?, summary = ?, role = ?, status_label = ?,
		    previous_role = ?, priority = ?, complexity = ?, depth = ?, tags = ?,
		    modified_at = ?, role_changed_at = ?, version = ?
		WHERE id = ? AND version = ?`,
		nullString(item.ParentID), item.Title, item.Summary, string(item.Role), item.StatusLabel,
		nullRole(item.PreviousRole), string(item.Priority), nullInt(item.Complexity), item.Depth,
		strings.Join(item.Tags, ","),
		formatTime(item.ModifiedAt), formatTime(item.RoleChangedAt), item.Version,
		item.ID, item.Version-1,
	)
	if err != nil {
		return fmt.Errorf("store: update item %s: %w", item.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update item %s: %w", item.ID, err)
	}
	if n == 0 {
		// Distinguish a vanished row from a lost race.
		var exists int
		err := s.db.QueryRow(`SELECT 1 FROM work_items WHERE id = ?`, item.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("work item %s: %w", item.ID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("store: update item %s: %w", item.ID, err)
		}
		return fmt.Errorf("work item %s at version %d: %w", item.ID, item.Version-1, ErrVersionConflict)
	}
	return nil
}

// DeleteItem removes a work item. Dependency edges referencing it on
// either side, and its transition audit rows, go with it (FK cascade).
func (s *Store) DeleteItem(id string) error {
	res, err := s.db.Exec(`DELETE FROM work_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete item %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("work item %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListItems returns items filtered by parent and/or role. Empty
// filter values mean "any". Results are ordered by creation time.
func (s *Store) ListItems(parentID string, role work.Role) ([]work.WorkItem, error) {
	query := `SELECT ` + itemColumns + ` FROM work_items`
	var conds []string
	var args []any
	if parentID != "" {
		conds = append(conds, "parent_id = ?")
		args = append(args, parentID)
	}
	if role != "" {
		conds = append(conds, "role = ?")
		args = append(args, string(role))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list items: %w", err)
	}
	defer rows.Close()

	var items []work.WorkItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list items: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Candidates returns the not-yet-started items in scope: role queue,
// optionally restricted to one parent. The planner filters and ranks
// these.
func (s *Store) Candidates(parentID string) ([]work.WorkItem, error) {
	return s.ListItems(parentID, work.RoleQueue)
}

// CountByRole returns per-role item counts, optionally scoped to a
// parent.
func (s *Store) CountByRole(parentID string) (map[work.Role]int, error) {
	query := `SELECT role, COUNT(*) FROM work_items`
	var args []any
	if parentID != "" {
		query += " WHERE parent_id = ?"
		args = append(args, parentID)
	}
	query += " GROUP BY role"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: count by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[work.Role]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("store: count by role: %w", err)
		}
		counts[work.Role(role)] = n
	}
	return counts, rows.Err()
}

// --- Dependency edges ---

// AddDependency records a directed edge: toID is gated on fromID.
// Both endpoints must exist; a duplicate edge is an error.
func (s *Store) AddDependency(fromID, toID, depType string) error {
	for _, id := range []string{fromID, toID} {
		var exists int
		if err := s.db.QueryRow(`SELECT 1 FROM work_items WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("work item %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("store: add dependency: %w", err)
		}
	}

	if depType == "" {
		depType = work.DepBlocks
	}
	_, err := s.db.Exec(`
		INSERT INTO dependencies (from_id, to_id, type, created_at)
		VALUES (?, ?, ?, ?)`,
		fromID, toID, depType, formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("store: add dependency %s -> %s: %w", fromID, toID, err)
	}
	return nil
}

// RemoveDependency deletes the edge(s) between the two items.
func (s *Store) RemoveDependency(fromID, toID string) error {
	res, err := s.db.Exec(`DELETE FROM dependencies WHERE from_id = ? AND to_id = ?`, fromID, toID)
	if err != nil {
		return fmt.Errorf("store: remove dependency %s -> %s: %w", fromID, toID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: remove dependency %s -> %s: %w", fromID, toID, err)
	}
	if n == 0 {
		return fmt.Errorf("dependency %s -> %s: %w", fromID, toID, ErrNotFound)
	}
	return nil
}

// DependenciesTargeting returns all edges whose target is id — the
// prerequisites gating it.
func (s *Store) DependenciesTargeting(id string) ([]work.DependencyEdge, error) {
	return s.queryEdges(`SELECT id, from_id, to_id, type, created_at FROM dependencies WHERE to_id = ? ORDER BY id`, id)
}

// DependenciesFrom returns all edges originating at id — the items it
// gates.
func (s *Store) DependenciesFrom(id string) ([]work.DependencyEdge, error) {
	return s.queryEdges(`SELECT id, from_id, to_id, type, created_at FROM dependencies WHERE from_id = ? ORDER BY id`, id)
}

// DeleteDependenciesFor removes every edge touching id on either side
// and returns how many were removed.
func (s *Store) DeleteDependenciesFor(id string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM dependencies WHERE from_id = ? OR to_id = ?`, id, id)
	if err != nil {
		return 0, fmt.Errorf("store: delete dependencies for %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: delete dependencies for %s: %w", id, err)
	}
	return n, nil
}

func (s *Store) queryEdges(query string, args ...any) ([]work.DependencyEdge, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query dependencies: %w", err)
	}
	defer rows.Close()

	var edges []work.DependencyEdge
	for rows.Next() {
		var e work.DependencyEdge
		var createdAt string
		if err := rows.Scan(&e.ID, &e.FromID, &e.ToID, &e.Type, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan dependency: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// --- Role transition audit trail ---

// AppendTransition appends one immutable audit row. There is no
// update or single-row delete for this table — rows only leave when
// their item is deleted (FK cascade).
func (s *Store) AppendTransition(tr *work.RoleTransition) error {
	res, err := s.db.Exec(`
		INSERT INTO role_transitions (item_id, from_role, to_role, from_label, to_label, "trigger", summary, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tr.ItemID, string(tr.FromRole), string(tr.ToRole), tr.FromLabel, tr.ToLabel,
		string(tr.Trigger), tr.Summary, formatTime(tr.At),
	)
	if err != nil {
		return fmt.Errorf("store: append transition for %s: %w", tr.ItemID, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		tr.ID = id
	}
	return nil
}

// TransitionsFor returns the full audit trail for an item, oldest
// first.
func (s *Store) TransitionsFor(itemID string) ([]work.RoleTransition, error) {
	rows, err := s.db.Query(`
		SELECT id, item_id, from_role, to_role, from_label, to_label, "trigger", summary, at
		FROM role_transitions WHERE item_id = ? ORDER BY at, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("store: transitions for %s: %w", itemID, err)
	}
	defer rows.Close()

	var trs []work.RoleTransition
	for rows.Next() {
		var tr work.RoleTransition
		var fromRole, toRole, trigger, at string
		if err := rows.Scan(&tr.ID, &tr.ItemID, &fromRole, &toRole, &tr.FromLabel, &tr.ToLabel, &trigger, &tr.Summary, &at); err != nil {
			return nil, fmt.Errorf("store: scan transition: %w", err)
		}
		tr.FromRole = work.Role(fromRole)
		tr.ToRole = work.Role(toRole)
		tr.Trigger = work.Trigger(trigger)
		tr.At = parseTime(at)
		trs = append(trs, tr)
	}
	return trs, rows.Err()
}

// --- Scan and null helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*work.WorkItem, error) {
	var item work.WorkItem
	var parentID, previousRole sql.NullString
	var complexity sql.NullInt64
	var role, priority, tags, createdAt, modifiedAt, roleChangedAt string

	err := row.Scan(
		&item.ID, &parentID, &item.Title, &item.Summary, &role, &item.StatusLabel,
		&previousRole, &priority, &complexity, &item.Depth, &tags,
		&createdAt, &modifiedAt, &roleChangedAt, &item.Version,
	)
	if err != nil {
		return nil, err
	}

	item.Role = work.Role(role)
	item.Priority = work.Priority(priority)
	if parentID.Valid {
		item.ParentID = parentID.String
	}
	if previousRole.Valid {
		prev := work.Role(previousRole.String)
		item.PreviousRole = &prev
	}
	if complexity.Valid {
		c := int(complexity.Int64)
		item.Complexity = &c
	}
	if tags != "" {
		item.Tags = strings.Split(tags, ",")
	}
	item.CreatedAt = parseTime(createdAt)
	item.ModifiedAt = parseTime(modifiedAt)
	item.RoleChangedAt = parseTime(roleChangedAt)
	return &item, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullRole(r *work.Role) any {
	if r == nil {
		return nil
	}
	return string(*r)
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
