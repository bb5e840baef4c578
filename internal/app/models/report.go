package models

import "time"

// KeyCount is one bucket of a grouped count
type KeyCount struct {
	Key   string `json:"key" db:"key" example:"pending"`
	Count int64  `json:"count" db:"count" example:"4"`
}

// MonthCount is the number of leaves created in one calendar month
type MonthCount struct {
	Month time.Time `json:"-" db:"month"`
	Label string    `json:"month" db:"-" example:"2024-03"`
	Count int64     `json:"count" db:"count" example:"17"`
}

// StudentLeaveCount is the number of leaves a single student applied for
type StudentLeaveCount struct {
	StudentID int64  `json:"studentId" db:"student_id"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"`
	Count     int64  `json:"count" db:"count"`
}

// Anomaly is a student whose leave count is unusually high
type Anomaly struct {
	StudentLeaveCount
	ZScore float64 `json:"zScore" example:"2.4"`
}

// Stats is the admin dashboard summary
type Stats struct {
	TotalUsers     int64      `json:"totalUsers"`
	TotalLeaves    int64      `json:"totalLeaves"`
	PendingLeaves  int64      `json:"pendingLeaves"`
	UsersByRole    []KeyCount `json:"usersByRole"`
	LeavesByStatus []KeyCount `json:"leavesByStatus"`
	LeavesByType   []KeyCount `json:"leavesByType"`
}
