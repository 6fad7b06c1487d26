package work

import (
	"strings"
	"testing"
)

// --- Role.AtLeast ---

func TestAtLeast_ProgressionOrder(t *testing.T) {
	cases := []struct {
		role      Role
		threshold Role
		want      bool
	}{
		{RoleQueue, RoleQueue, true},
		{RoleQueue, RoleWork, false},
		{RoleWork, RoleQueue, true},
		{RoleWork, RoleReview, false},
		{RoleReview, RoleReview, true},
		{RoleReview, RoleDone, false},
		{RoleDone, RoleQueue, true},
		{RoleDone, RoleDone, true},
	}
	for _, tc := range cases {
		if got := tc.role.AtLeast(tc.threshold); got != tc.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", tc.role, tc.threshold, got, tc.want)
		}
	}
}

func TestAtLeast_BlockedNeverSatisfiesAThreshold(t *testing.T) {
	for _, threshold := range []Role{RoleQueue, RoleWork, RoleReview, RoleDone} {
		if RoleBlocked.AtLeast(threshold) {
			t.Errorf("blocked.AtLeast(%s) = true, want false", threshold)
		}
	}
}

func TestAtLeast_BlockedThresholdIsFalse(t *testing.T) {
	if RoleDone.AtLeast(RoleBlocked) {
		t.Error("blocked is not a progression stage and cannot be a threshold")
	}
}

// --- Priority ---

func TestPriorityRank(t *testing.T) {
	if h, m, l := PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank(); !(h < m && m < l) {
		t.Errorf("priority ranks = %d, %d, %d; want high < medium < low", h, m, l)
	}
}

func TestValidatePriority(t *testing.T) {
	if err := ValidatePriority(PriorityHigh); err != nil {
		t.Errorf("high should be valid: %v", err)
	}
	if err := ValidatePriority(Priority("urgent")); err == nil {
		t.Error("'urgent' should be rejected")
	}
}

// --- Field validation ---

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("Ship the thing"); err != nil {
		t.Errorf("valid title rejected: %v", err)
	}
	if err := ValidateTitle("   "); err == nil {
		t.Error("blank title should be rejected")
	}
	if err := ValidateTitle(strings.Repeat("x", 501)); err == nil {
		t.Error("501-char title should be rejected")
	}
	if err := ValidateTitle(strings.Repeat("x", 500)); err != nil {
		t.Errorf("500-char title should be accepted: %v", err)
	}
}

func TestValidateSummary(t *testing.T) {
	if err := ValidateSummary(strings.Repeat("y", 2000)); err != nil {
		t.Errorf("2000-char summary should be accepted: %v", err)
	}
	if err := ValidateSummary(strings.Repeat("y", 2001)); err == nil {
		t.Error("2001-char summary should be rejected")
	}
}

func TestValidateComplexity(t *testing.T) {
	for _, c := range []int{1, 5, 10} {
		if err := ValidateComplexity(c); err != nil {
			t.Errorf("complexity %d should be valid: %v", c, err)
		}
	}
	for _, c := range []int{0, 11, -3} {
		if err := ValidateComplexity(c); err == nil {
			t.Errorf("complexity %d should be rejected", c)
		}
	}
}

func TestValidateTags(t *testing.T) {
	if err := ValidateTags([]string{"backend", "p1-followup", "v2"}); err != nil {
		t.Errorf("valid tags rejected: %v", err)
	}
	for _, bad := range []string{"", "Backend", "has space", "emoji🐛"} {
		if err := ValidateTag(bad); err == nil {
			t.Errorf("tag %q should be rejected", bad)
		}
	}
}

func TestValidateDepth(t *testing.T) {
	if err := ValidateDepth(0, false); err != nil {
		t.Errorf("root at depth 0: %v", err)
	}
	if err := ValidateDepth(2, true); err != nil {
		t.Errorf("child at depth 2: %v", err)
	}
	if err := ValidateDepth(0, true); err == nil {
		t.Error("child at depth 0 should be rejected")
	}
	if err := ValidateDepth(1, false); err == nil {
		t.Error("root at depth 1 should be rejected")
	}
	if err := ValidateDepth(-1, false); err == nil {
		t.Error("negative depth should be rejected")
	}
}

func TestValidateTrigger(t *testing.T) {
	for _, tr := range []Trigger{TriggerStart, TriggerComplete, TriggerBlock, TriggerHold, TriggerResume, TriggerCancel} {
		if err := ValidateTrigger(tr); err != nil {
			t.Errorf("trigger %q should be valid: %v", tr, err)
		}
	}
	if err := ValidateTrigger(Trigger("pause")); err == nil {
		t.Error("'pause' should be rejected")
	}
}
