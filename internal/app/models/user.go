package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID         int64      `json:"id" db:"id" example:"1"`
	Name       string     `json:"name" db:"name" example:"Asha Rao"`
	Email      string     `json:"email" db:"email" example:"asha@campus.edu"`
	Password   string     `json:"-" db:"password_hash"`
	Role       RoleType   `json:"role" db:"role" example:"student"`
	RollNumber *string    `json:"rollNumber,omitempty" db:"roll_number" example:"CS21-042"`
	Division   *string    `json:"division,omitempty" db:"division" example:"A"`
	BranchID   *int64     `json:"branchId,omitempty" db:"branch_id" example:"1"`
	HostelID   *int64     `json:"hostelId,omitempty" db:"hostel_id" example:"2"`
	ParentID   *int64     `json:"parentId,omitempty" db:"parent_id" example:"9"` // linked parent of a student
	Status     UserStatus `json:"status" db:"status" example:"active"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the account may log in
func (u *User) IsActive() bool {
	return u.Status == UserActive
}

// UserFilter narrows admin user listings
type UserFilter struct {
	Role   RoleType
	Status UserStatus
	Search string // matched against name and email
	Offset uint64
	Limit  uint64
}
