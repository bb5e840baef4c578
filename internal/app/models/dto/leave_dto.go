package dto

import (
	"time"

	"github.com/campusleave/leavedesk/internal/app/lifecycle"
	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/pkg/validation"
)

// ApplyLeaveRequest is a student's leave application
type ApplyLeaveRequest struct {
	Reason    string           `json:"reason" binding:"required,max=500" example:"Medical"`
	StartDate string           `json:"startDate" binding:"required,isodate" example:"2025-01-10"`
	EndDate   string           `json:"endDate" binding:"required,isodate" example:"2025-01-12"`
	Type      models.LeaveType `json:"type" binding:"omitempty,oneof=normal emergency" example:"normal"`
}

// DecisionRequest carries a parent's or advisor's decision
type DecisionRequest struct {
	Action lifecycle.Action `json:"action" binding:"required,oneof=approve reject" example:"approve"`
}

// WardenDecisionRequest carries a warden's decision
type WardenDecisionRequest struct {
	Action    lifecycle.Action `json:"action" binding:"required,oneof=approve reject schedule_meeting" example:"schedule_meeting"`
	MeetingAt *time.Time       `json:"meetingAt,omitempty" example:"2025-01-11T10:00:00Z"`
	Note      *string          `json:"note,omitempty" binding:"omitempty,max=500" example:"Bring the hospital letter"`
}

// LeaveResponse is a leave as returned by the API. allowedActions lists
// what the caller may do next.
type LeaveResponse struct {
	ID               int64              `json:"id"`
	StudentID        int64              `json:"studentId"`
	StudentName      string             `json:"studentName,omitempty"`
	ParentID         *int64             `json:"parentId,omitempty"`
	AdvisorID        *int64             `json:"advisorId,omitempty"`
	WardenID         *int64             `json:"wardenId,omitempty"`
	Reason           string             `json:"reason"`
	StartDate        string             `json:"startDate" example:"2025-01-10"`
	EndDate          string             `json:"endDate" example:"2025-01-12"`
	Type             models.LeaveType   `json:"type"`
	Status           models.LeaveStatus `json:"status"`
	ProofSubmitted   bool               `json:"proofSubmitted"`
	ProofVerified    bool               `json:"proofVerified"`
	MeetingAt        *time.Time         `json:"meetingAt,omitempty"`
	MeetingNote      *string            `json:"meetingNote,omitempty"`
	ArrivalTimestamp *time.Time         `json:"arrivalTimestamp,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	AllowedActions   []lifecycle.Action `json:"allowedActions,omitempty"`
}

// FromLeave converts a models.Leave for a caller with the given role
func FromLeave(l *models.Leave, viewer models.RoleType) LeaveResponse {
	if l == nil {
		return LeaveResponse{}
	}
	resp := LeaveResponse{
		ID:               l.ID,
		StudentID:        l.StudentID,
		ParentID:         l.ParentID,
		AdvisorID:        l.AdvisorID,
		WardenID:         l.WardenID,
		Reason:           l.Reason,
		StartDate:        l.StartDate.Format(validation.DateLayout),
		EndDate:          l.EndDate.Format(validation.DateLayout),
		Type:             l.Type,
		Status:           l.Status,
		ProofSubmitted:   l.ProofSubmitted,
		ProofVerified:    l.ProofVerified,
		MeetingAt:        l.MeetingAt,
		MeetingNote:      l.MeetingNote,
		ArrivalTimestamp: l.ArrivalTimestamp,
		CreatedAt:        l.CreatedAt,
		AllowedActions:   lifecycle.Available(viewer, l.Status),
	}
	if l.Student != nil {
		resp.StudentName = l.Student.Name
	}
	return resp
}

// FromLeaves converts a slice of leaves
func FromLeaves(leaves []*models.Leave, viewer models.RoleType) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, FromLeave(l, viewer))
	}
	return out
}

// LeaveEnvelope is the {leave} body returned on creation and lookup
type LeaveEnvelope struct {
	Leave LeaveResponse `json:"leave"`
}

// LeaveActionResponse is the {msg, leave} body returned by transitions
type LeaveActionResponse struct {
	Msg   string         `json:"msg" example:"Leave approved by parent"`
	Leave *LeaveResponse `json:"leave,omitempty"`
}

// LeaveListResponse is the {leaves} body returned by GET /leave/my
type LeaveListResponse struct {
	Leaves []LeaveResponse `json:"leaves"`
}
