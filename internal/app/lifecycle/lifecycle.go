// Package lifecycle holds the leave status transition table. It is the only
// place that decides which role may move a leave from one status to another.
package lifecycle

import (
	"fmt"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
)

// Action is a requested lifecycle operation
type Action string

const (
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionScheduleMeeting Action = "schedule_meeting"
	ActionConfirmArrival  Action = "confirm_arrival"
)

// Valid reports whether a is a known action
func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionScheduleMeeting, ActionConfirmArrival:
		return true
	}
	return false
}

type rule struct {
	role   models.RoleType
	action Action
	from   models.LeaveStatus
	to     models.LeaveStatus
}

// table is ordered by the normal chain, then the emergency branch.
var table = []rule{
	{models.RoleParent, ActionApprove, models.StatusPending, models.StatusParentApproved},
	{models.RoleParent, ActionReject, models.StatusPending, models.StatusRejected},

	{models.RoleAdvisor, ActionApprove, models.StatusParentApproved, models.StatusAdvisorApproved},
	{models.RoleAdvisor, ActionReject, models.StatusParentApproved, models.StatusRejected},

	{models.RoleWarden, ActionApprove, models.StatusAdvisorApproved, models.StatusWardenApproved},
	{models.RoleWarden, ActionReject, models.StatusAdvisorApproved, models.StatusRejected},

	{models.RoleWarden, ActionApprove, models.StatusEmergencyPending, models.StatusWardenApproved},
	{models.RoleWarden, ActionScheduleMeeting, models.StatusEmergencyPending, models.StatusMeetingScheduled},
	{models.RoleWarden, ActionReject, models.StatusEmergencyPending, models.StatusRejected},
	{models.RoleWarden, ActionApprove, models.StatusMeetingScheduled, models.StatusWardenApproved},
	{models.RoleWarden, ActionReject, models.StatusMeetingScheduled, models.StatusRejected},

	{models.RoleParent, ActionConfirmArrival, models.StatusWardenApproved, models.StatusCompleted},
}

// Next returns the status a leave moves to when role performs action on a
// leave currently in from.
//
// It fails with apperrors.ErrPermissionDenied when role may never perform
// action, and with apperrors.ErrInvalidTransition when the action exists for
// the role but not from the current status.
func Next(role models.RoleType, action Action, from models.LeaveStatus) (models.LeaveStatus, error) {
	permitted := false
	for _, r := range table {
		if r.role != role || r.action != action {
			continue
		}
		permitted = true
		if r.from == from {
			return r.to, nil
		}
	}

	if !permitted {
		return "", apperrors.NewForbiddenError(fmt.Sprintf("a %s cannot %s a leave", role, humanize(action)))
	}
	return "", apperrors.NewInvalidTransitionError(fmt.Sprintf("cannot %s a leave that is %s", humanize(action), from))
}

// Sources lists the statuses from which role may perform action
func Sources(role models.RoleType, action Action) []models.LeaveStatus {
	var out []models.LeaveStatus
	for _, r := range table {
		if r.role == role && r.action == action {
			out = append(out, r.from)
		}
	}
	return out
}

// Available lists the actions role may perform on a leave in status
func Available(role models.RoleType, status models.LeaveStatus) []Action {
	var out []Action
	seen := make(map[Action]bool)
	for _, r := range table {
		if r.role == role && r.from == status && !seen[r.action] {
			seen[r.action] = true
			out = append(out, r.action)
		}
	}
	return out
}

// QueueStatuses are the statuses in which role has pending work
func QueueStatuses(role models.RoleType) []models.LeaveStatus {
	var out []models.LeaveStatus
	seen := make(map[models.LeaveStatus]bool)
	for _, r := range table {
		if r.role == role && !seen[r.from] {
			seen[r.from] = true
			out = append(out, r.from)
		}
	}
	return out
}

// LogAction is the activity-log action name for a transition
func LogAction(role models.RoleType, action Action) string {
	return fmt.Sprintf("leave.%s.%s", role, action)
}

func humanize(a Action) string {
	switch a {
	case ActionScheduleMeeting:
		return "schedule a meeting for"
	case ActionConfirmArrival:
		return "confirm arrival for"
	default:
		return string(a)
	}
}
