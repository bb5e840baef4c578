package models

import "time"

// Leave defines a leave application based on the 'leaves' table
type Leave struct {
	ID               int64       `json:"id" db:"id" example:"12"`
	StudentID        int64       `json:"studentId" db:"student_id" example:"3"`
	ParentID         *int64      `json:"parentId,omitempty" db:"parent_id"`
	AdvisorID        *int64      `json:"advisorId,omitempty" db:"advisor_id"`
	WardenID         *int64      `json:"wardenId,omitempty" db:"warden_id"`
	Reason           string      `json:"reason" db:"reason" example:"Medical"`
	StartDate        time.Time   `json:"startDate" db:"start_date"`
	EndDate          time.Time   `json:"endDate" db:"end_date"`
	Type             LeaveType   `json:"type" db:"type" example:"normal"`
	Status           LeaveStatus `json:"status" db:"status" example:"pending"`
	ProofSubmitted   bool        `json:"proofSubmitted" db:"proof_submitted"`
	ProofVerified    bool        `json:"proofVerified" db:"proof_verified"`
	MeetingAt        *time.Time  `json:"meetingAt,omitempty" db:"meeting_at"`
	MeetingNote      *string     `json:"meetingNote,omitempty" db:"meeting_note"`
	ArrivalTimestamp *time.Time  `json:"arrivalTimestamp,omitempty" db:"arrival_timestamp"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`

	Student *User `json:"student,omitempty" db:"-"` // populated on detail views
}

// LeaveFilter narrows leave listings. Zero values mean "any".
type LeaveFilter struct {
	StudentID *int64
	ParentID  *int64
	// QueueStatuses plus HandledBy express "my queue or what I acted on"
	// for advisors and wardens.
	QueueStatuses []LeaveStatus
	HandledBy     *int64
	HandledColumn string // advisor_id or warden_id
	Status        LeaveStatus
	Type          LeaveType
	Offset        uint64
	Limit         uint64
}

// LeaveUpdate is the set of columns a single transition writes. It is applied
// only if the row is still in FromStatus.
type LeaveUpdate struct {
	FromStatus       LeaveStatus
	ToStatus         LeaveStatus
	AdvisorID        *int64
	WardenID         *int64
	MeetingAt        *time.Time
	MeetingNote      *string
	ArrivalTimestamp *time.Time
	UpdatedAt        time.Time
}
