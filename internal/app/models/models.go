package models

// RoleType is the closed set of user roles
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleParent  RoleType = "parent"
	RoleAdvisor RoleType = "advisor"
	RoleWarden  RoleType = "warden"
	RoleAdmin   RoleType = "admin"
)

// AllRoles lists every role in display order
var AllRoles = []RoleType{RoleStudent, RoleParent, RoleAdvisor, RoleWarden, RoleAdmin}

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleAdvisor, RoleWarden, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether the role may be chosen at signup
func (r RoleType) SelfRegistrable() bool {
	return r.Valid() && r != RoleAdmin
}

// UserStatus marks an account as usable or not
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// Valid reports whether s is a known account status
func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive
}

// LeaveType distinguishes the normal chain from the emergency path
type LeaveType string

const (
	LeaveNormal    LeaveType = "normal"
	LeaveEmergency LeaveType = "emergency"
)

// Valid reports whether t is a known leave type
func (t LeaveType) Valid() bool {
	return t == LeaveNormal || t == LeaveEmergency
}

// InitialStatus is the status a freshly applied leave of this type starts in
func (t LeaveType) InitialStatus() LeaveStatus {
	if t == LeaveEmergency {
		return StatusEmergencyPending
	}
	return StatusPending
}

// LeaveStatus is the closed set of lifecycle states
type LeaveStatus string

const (
	StatusPending          LeaveStatus = "pending"
	StatusParentApproved   LeaveStatus = "parent_approved"
	StatusAdvisorApproved  LeaveStatus = "advisor_approved"
	StatusWardenApproved   LeaveStatus = "warden_approved"
	StatusEmergencyPending LeaveStatus = "emergency_pending"
	StatusMeetingScheduled LeaveStatus = "meeting_scheduled"
	StatusRejected         LeaveStatus = "rejected"
	StatusCompleted        LeaveStatus = "completed"
)

// AllStatuses lists every lifecycle state
var AllStatuses = []LeaveStatus{
	StatusPending,
	StatusParentApproved,
	StatusAdvisorApproved,
	StatusWardenApproved,
	StatusEmergencyPending,
	StatusMeetingScheduled,
	StatusRejected,
	StatusCompleted,
}

// Valid reports whether s is a known status
func (s LeaveStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition may leave s
func (s LeaveStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}
