package dto

import "github.com/campusleave/leavedesk/internal/app/models"

// CreateUserRequest is an admin-side account creation; any role is allowed
type CreateUserRequest struct {
	Name       string          `json:"name" binding:"required,min=2,max=100"`
	Email      string          `json:"email" binding:"required,email"`
	Password   string          `json:"password" binding:"required,min=8"`
	Role       models.RoleType `json:"role" binding:"required,oneof=student parent advisor warden admin"`
	RollNumber *string         `json:"rollNumber,omitempty"`
	Division   *string         `json:"division,omitempty"`
	BranchID   *int64          `json:"branchId,omitempty" binding:"omitempty,min=1"`
	HostelID   *int64          `json:"hostelId,omitempty" binding:"omitempty,min=1"`
	ParentID   *int64          `json:"parentId,omitempty" binding:"omitempty,min=1"`
}

// UpdateUserRequest is a partial admin update; nil fields are left unchanged
type UpdateUserRequest struct {
	Name       *string            `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Email      *string            `json:"email,omitempty" binding:"omitempty,email"`
	Role       *models.RoleType   `json:"role,omitempty" binding:"omitempty,oneof=student parent advisor warden admin"`
	Status     *models.UserStatus `json:"status,omitempty" binding:"omitempty,oneof=active inactive"`
	RollNumber *string            `json:"rollNumber,omitempty"`
	Division   *string            `json:"division,omitempty"`
	BranchID   *int64             `json:"branchId,omitempty" binding:"omitempty,min=1"`
	HostelID   *int64             `json:"hostelId,omitempty" binding:"omitempty,min=1"`
	ParentID   *int64             `json:"parentId,omitempty" binding:"omitempty,min=1"`
}

// UserListQuery binds admin user listing filters
type UserListQuery struct {
	Role   string `form:"role" binding:"omitempty,oneof=student parent advisor warden admin"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search string `form:"q"`
}

// LeaveListQuery binds admin leave listing filters
type LeaveListQuery struct {
	Status string `form:"status"`
	Type   string `form:"type" binding:"omitempty,oneof=normal emergency"`
}

// CreateHostelRequest creates a hostel
type CreateHostelRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"North Block"`
	Capacity *int   `json:"capacity,omitempty" binding:"omitempty,min=1" example:"240"`
}

// CreateBranchRequest creates a branch
type CreateBranchRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100" example:"Computer Science"`
	Code string `json:"code" binding:"required" example:"CSE"`
}
