package store

import (
	"errors"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/work"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleItem(id string) *work.WorkItem {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	c := 4
	prev := work.RoleWork
	return &work.WorkItem{
		ID:            id,
		Title:         "Wire up the importer",
		Summary:       "Bring the nightly importer online.",
		Role:          work.RoleBlocked,
		StatusLabel:   "waiting on credentials",
		PreviousRole:  &prev,
		Priority:      work.PriorityHigh,
		Complexity:    &c,
		Depth:         0,
		Tags:          []string{"backend", "importer"},
		CreatedAt:     now,
		ModifiedAt:    now,
		RoleChangedAt: now,
		Version:       1,
	}
}

func mustInsert(t *testing.T, s *Store, item *work.WorkItem) {
	t.Helper()
	if err := s.CreateItem(item); err != nil {
		t.Fatalf("create %s: %v", item.ID, err)
	}
}

func queuedItem(id string) *work.WorkItem {
	item := sampleItem(id)
	item.Role = work.RoleQueue
	item.PreviousRole = nil
	item.StatusLabel = ""
	return item
}

// --- Items ---

func TestItemRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := sampleItem("item-1")
	mustInsert(t, s, want)

	got, err := s.GetItem("item-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Title != want.Title || got.Summary != want.Summary {
		t.Errorf("text fields = (%q, %q)", got.Title, got.Summary)
	}
	if got.Role != work.RoleBlocked || got.PreviousRole == nil || *got.PreviousRole != work.RoleWork {
		t.Errorf("role fields = %q / %v", got.Role, got.PreviousRole)
	}
	if got.StatusLabel != "waiting on credentials" {
		t.Errorf("statusLabel = %q", got.StatusLabel)
	}
	if got.Complexity == nil || *got.Complexity != 4 {
		t.Errorf("complexity = %v", got.Complexity)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "backend" || got.Tags[1] != "importer" {
		t.Errorf("tags = %v", got.Tags)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.ModifiedAt.Equal(want.ModifiedAt) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.ModifiedAt)
	}
	if got.Version != 1 {
		t.Errorf("version = %d", got.Version)
	}
}

func TestItemRoundTrip_NullableFieldsAbsent(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, queuedItem("bare"))

	got, err := s.GetItem("bare")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PreviousRole != nil {
		t.Errorf("previousRole = %v, want nil", got.PreviousRole)
	}
	if got.ParentID != "" {
		t.Errorf("parentID = %q, want empty", got.ParentID)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetItem("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateItem_VersionGuard(t *testing.T) {
	s := newTestStore(t)
	item := queuedItem("item-1")
	mustInsert(t, s, item)

	// A correct write: the item carries the new version, the row the old.
	item.Title = "Renamed"
	work.Touch(item)
	if err := s.UpdateItem(item); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Replaying the same write targets a now-stale version.
	if err := s.UpdateItem(item); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale update: err = %v, want ErrVersionConflict", err)
	}

	got, err := s.GetItem("item-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Renamed" || got.Version != 2 {
		t.Errorf("row = (%q, v%d), want (Renamed, v2)", got.Title, got.Version)
	}
}

func TestUpdateItem_MissingRowIsNotFound(t *testing.T) {
	s := newTestStore(t)
	item := queuedItem("ghost")
	work.Touch(item)
	if err := s.UpdateItem(item); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListItems_Filters(t *testing.T) {
	s := newTestStore(t)
	parent := queuedItem("parent")
	mustInsert(t, s, parent)

	childA := queuedItem("child-a")
	childA.ParentID = "parent"
	childA.Depth = 1
	mustInsert(t, s, childA)

	childB := queuedItem("child-b")
	childB.ParentID = "parent"
	childB.Depth = 1
	childB.Role = work.RoleWork
	mustInsert(t, s, childB)

	all, err := s.ListItems("", "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("list all = %d items, want 3", len(all))
	}

	children, err := s.ListItems("parent", "")
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 2 {
		t.Errorf("children = %d, want 2", len(children))
	}

	queued, err := s.ListItems("parent", work.RoleQueue)
	if err != nil {
		t.Fatalf("list queued children: %v", err)
	}
	if len(queued) != 1 || queued[0].ID != "child-a" {
		t.Errorf("queued children = %v", queued)
	}
}

func TestCountByRole(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, queuedItem("q1"))
	mustInsert(t, s, queuedItem("q2"))
	working := queuedItem("w1")
	working.Role = work.RoleWork
	mustInsert(t, s, working)

	counts, err := s.CountByRole("")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[work.RoleQueue] != 2 || counts[work.RoleWork] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

// --- Dependencies ---

func TestDependencies_RoundTripAndCascade(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, queuedItem("a"))
	mustInsert(t, s, queuedItem("b"))
	mustInsert(t, s, queuedItem("c"))

	if err := s.AddDependency("a", "b", ""); err != nil {
		t.Fatalf("add a->b: %v", err)
	}
	if err := s.AddDependency("b", "c", "blocks"); err != nil {
		t.Fatalf("add b->c: %v", err)
	}

	incoming, err := s.DependenciesTargeting("b")
	if err != nil {
		t.Fatalf("targeting b: %v", err)
	}
	if len(incoming) != 1 || incoming[0].FromID != "a" || incoming[0].Type != work.DepBlocks {
		t.Fatalf("incoming = %+v", incoming)
	}

	outgoing, err := s.DependenciesFrom("b")
	if err != nil {
		t.Fatalf("from b: %v", err)
	}
	if len(outgoing) != 1 || outgoing[0].ToID != "c" {
		t.Fatalf("outgoing = %+v", outgoing)
	}

	// Deleting the item removes edges on both sides via FK cascade.
	if err := s.DeleteItem("b"); err != nil {
		t.Fatalf("delete b: %v", err)
	}
	left, err := s.DependenciesTargeting("c")
	if err != nil {
		t.Fatalf("targeting c: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("c still gated by %+v", left)
	}
}

func TestAddDependency_MissingEndpoint(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, queuedItem("a"))

	if err := s.AddDependency("a", "missing", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddDependency_DuplicateRejected(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, queuedItem("a"))
	mustInsert(t, s, queuedItem("b"))

	if err := s.AddDependency("a", "b", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddDependency("a", "b", ""); err == nil {
		t.Fatal("duplicate edge should be rejected")
	}
}

func TestRemoveDependency(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, queuedItem("a"))
	mustInsert(t, s, queuedItem("b"))
	if err := s.AddDependency("a", "b", ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.RemoveDependency("a", "b"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveDependency("a", "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDependenciesFor_CountsBothSides(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, queuedItem("a"))
	mustInsert(t, s, queuedItem("b"))
	mustInsert(t, s, queuedItem("c"))
	if err := s.AddDependency("a", "b", ""); err != nil {
		t.Fatalf("add a->b: %v", err)
	}
	if err := s.AddDependency("b", "c", ""); err != nil {
		t.Fatalf("add b->c: %v", err)
	}

	n, err := s.DeleteDependenciesFor("b")
	if err != nil {
		t.Fatalf("delete for b: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d edges, want 2", n)
	}
}

// --- Transition audit trail ---

func TestTransitions_AppendAndReadBack(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, queuedItem("a"))

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	first := &work.RoleTransition{
		ItemID: "a", FromRole: work.RoleQueue, ToRole: work.RoleWork,
		Trigger: work.TriggerStart, Summary: "go", At: base,
	}
	second := &work.RoleTransition{
		ItemID: "a", FromRole: work.RoleWork, ToRole: work.RoleDone,
		Trigger: work.TriggerComplete, At: base.Add(time.Minute),
	}
	if err := s.AppendTransition(first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := s.AppendTransition(second); err != nil {
		t.Fatalf("append second: %v", err)
	}
	if first.ID == 0 || second.ID == 0 {
		t.Errorf("ids not assigned: %d, %d", first.ID, second.ID)
	}

	trail, err := s.TransitionsFor("a")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("trail = %d records, want 2", len(trail))
	}
	if trail[0].Trigger != work.TriggerStart || trail[1].Trigger != work.TriggerComplete {
		t.Errorf("trail order = %s, %s", trail[0].Trigger, trail[1].Trigger)
	}
	if !trail[0].At.Equal(base) {
		t.Errorf("timestamp round trip = %v, want %v", trail[0].At, base)
	}
	if trail[0].Summary != "go" {
		t.Errorf("summary = %q", trail[0].Summary)
	}
}
