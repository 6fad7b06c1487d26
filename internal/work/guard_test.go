package work

import (
	"testing"
	"time"
)

func TestTouch_BumpsVersionAndTimestamp(t *testing.T) {
	item := testItem(RoleQueue)
	before := item.ModifiedAt

	Touch(item)

	if item.Version != 2 {
		t.Errorf("version = %d, want 2", item.Version)
	}
	if !item.ModifiedAt.After(before) {
		t.Errorf("modifiedAt %v should advance past %v", item.ModifiedAt, before)
	}
}

func TestTouch_StalledClockStillAdvances(t *testing.T) {
	// timeNow is frozen (see state_test.go init), so every Touch sees
	// the same wall-clock reading. The timestamp must still strictly
	// increase on each call.
	item := testItem(RoleQueue)
	item.ModifiedAt = frozen // clock has "caught up" with the item

	prev := item.ModifiedAt
	for i := 0; i < 50; i++ {
		Touch(item)
		if !item.ModifiedAt.After(prev) {
			t.Fatalf("update %d: modifiedAt %v did not advance past %v", i, item.ModifiedAt, prev)
		}
		if got := item.ModifiedAt.Sub(prev); got != Tick {
			t.Fatalf("update %d: stalled-clock step = %v, want %v", i, got, Tick)
		}
		prev = item.ModifiedAt
	}
	if item.Version != 51 {
		t.Errorf("version = %d, want 51", item.Version)
	}
}

func TestTouch_BackwardsClockStillAdvances(t *testing.T) {
	item := testItem(RoleQueue)
	item.ModifiedAt = frozen.Add(time.Minute) // item is "ahead" of the clock

	Touch(item)

	want := frozen.Add(time.Minute + Tick)
	if !item.ModifiedAt.Equal(want) {
		t.Errorf("modifiedAt = %v, want %v", item.ModifiedAt, want)
	}
}

func TestTouch_UsesWallClockWhenItHasAdvanced(t *testing.T) {
	item := testItem(RoleQueue) // modifiedAt is an hour before frozen

	Touch(item)

	if !item.ModifiedAt.Equal(frozen) {
		t.Errorf("modifiedAt = %v, want the wall clock %v", item.ModifiedAt, frozen)
	}
}
