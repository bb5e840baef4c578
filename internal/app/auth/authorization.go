// Package auth holds the static operation to role allow-list. Relation checks
// (a parent acting on their own child's leave) live in the services.
package auth

import (
	"fmt"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
)

// Operation names a protected API operation
type Operation string

const (
	OpViewProfile     Operation = "profile.view"
	OpApplyLeave      Operation = "leave.apply"
	OpListOwnLeaves   Operation = "leave.list_mine"
	OpViewLeave       Operation = "leave.view"
	OpParentDecision  Operation = "leave.parent_decision"
	OpAdvisorReview   Operation = "leave.advisor_review"
	OpWardenDecision  Operation = "leave.warden_decision"
	OpConfirmArrival  Operation = "leave.confirm_arrival"
	OpSubmitProof     Operation = "leave.submit_proof"
	OpVerifyProof     Operation = "leave.verify_proof"
	OpViewStats       Operation = "admin.stats"
	OpManageUsers     Operation = "admin.users"
	OpListAllLeaves   Operation = "admin.leaves"
	OpViewActivityLog Operation = "admin.logs"
	OpViewAnalytics   Operation = "admin.analytics"
	OpManageCampus    Operation = "admin.campus"
)

var everyone = models.AllRoles

var policy = map[Operation][]models.RoleType{
	OpViewProfile:     everyone,
	OpApplyLeave:      {models.RoleStudent},
	OpListOwnLeaves:   everyone,
	OpViewLeave:       everyone,
	OpParentDecision:  {models.RoleParent},
	OpAdvisorReview:   {models.RoleAdvisor},
	OpWardenDecision:  {models.RoleWarden},
	OpConfirmArrival:  {models.RoleParent},
	OpSubmitProof:     {models.RoleStudent},
	OpVerifyProof:     {models.RoleAdvisor},
	OpViewStats:       {models.RoleAdmin},
	OpManageUsers:     {models.RoleAdmin},
	OpListAllLeaves:   {models.RoleAdmin},
	OpViewActivityLog: {models.RoleAdmin},
	OpViewAnalytics:   {models.RoleAdmin},
	OpManageCampus:    {models.RoleAdmin},
}

// RolesFor returns the roles allowed to perform op
func RolesFor(op Operation) []models.RoleType {
	return policy[op]
}

// Allowed reports whether role may perform op. Unknown operations are denied.
func Allowed(op Operation, role models.RoleType) bool {
	for _, r := range policy[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns a permission error unless role may perform op
func Authorize(op Operation, role models.RoleType) error {
	if Allowed(op, role) {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("role %q is not allowed to perform this operation", role))
}
