package dto

import (
	"time"

	"github.com/campusleave/leavedesk/internal/app/models"
)

// SignupRequest represents a self-registration request
type SignupRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=100" example:"Asha Rao"`
	Email       string          `json:"email" binding:"required,email" example:"asha@campus.edu"`
	Password    string          `json:"password" binding:"required,min=8" example:"secret123"`
	Role        models.RoleType `json:"role" binding:"required,oneof=student parent advisor warden" example:"student"`
	RollNumber  *string         `json:"rollNumber,omitempty" example:"CS21-042"`
	Division    *string         `json:"division,omitempty" example:"A"`
	BranchID    *int64          `json:"branchId,omitempty" binding:"omitempty,min=1"`
	HostelID    *int64          `json:"hostelId,omitempty" binding:"omitempty,min=1"`
	ParentEmail *string         `json:"parentEmail,omitempty" binding:"omitempty,email" example:"parent@mail.com"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"asha@campus.edu"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// UserResponse represents a user as returned by the API
type UserResponse struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       models.RoleType   `json:"role"`
	RollNumber *string           `json:"rollNumber,omitempty"`
	Division   *string           `json:"division,omitempty"`
	BranchID   *int64            `json:"branchId,omitempty"`
	HostelID   *int64            `json:"hostelId,omitempty"`
	ParentID   *int64            `json:"parentId,omitempty"`
	Status     models.UserStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(u *models.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		RollNumber: u.RollNumber,
		Division:   u.Division,
		BranchID:   u.BranchID,
		HostelID:   u.HostelID,
		ParentID:   u.ParentID,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
	}
}

// FromUsers converts a slice of users
func FromUsers(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

// SignupResponse is returned with 201 on signup
type SignupResponse struct {
	User UserResponse `json:"user"`
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType" example:"Bearer"`
	ExpiresIn int64        `json:"expiresIn" example:"86400"`
	User      UserResponse `json:"user"`
}

// ProfileResponse is returned by GET /auth/me
type ProfileResponse struct {
	User UserResponse `json:"user"`
}
