package models

import "testing"

func TestRoleValidity(t *testing.T) {
	for _, r := range AllRoles {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if RoleType("instructor").Valid() {
		t.Error("unknown role should be invalid")
	}
	if RoleAdmin.SelfRegistrable() {
		t.Error("admin must not be self-registrable")
	}
	if !RoleWarden.SelfRegistrable() {
		t.Error("warden should be self-registrable")
	}
}

func TestLeaveTypeInitialStatus(t *testing.T) {
	if got := LeaveNormal.InitialStatus(); got != StatusPending {
		t.Errorf("normal initial = %s", got)
	}
	if got := LeaveEmergency.InitialStatus(); got != StatusEmergencyPending {
		t.Errorf("emergency initial = %s", got)
	}
	if LeaveType("sick").Valid() {
		t.Error("unknown leave type should be invalid")
	}
}

func TestStatusEnum(t *testing.T) {
	if len(AllStatuses) != 8 {
		t.Fatalf("expected 8 statuses, got %d", len(AllStatuses))
	}
	for _, s := range AllStatuses {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if LeaveStatus("approved").Valid() {
		t.Error("unknown status should be invalid")
	}
	if !StatusRejected.Terminal() || !StatusCompleted.Terminal() || StatusWardenApproved.Terminal() {
		t.Error("terminal classification is wrong")
	}
}
