package models

import "time"

// Hostel is a residence a student may be assigned to
type Hostel struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"North Block"`
	Capacity  *int      `json:"capacity,omitempty" db:"capacity" example:"240"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Branch is an academic branch (department) a student belongs to
type Branch struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Computer Science"`
	Code      string    `json:"code" db:"code" example:"CSE"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
