package models

import "time"

// ActivityLog records one mutation for the admin audit view
type ActivityLog struct {
	ID        int64     `json:"id" db:"id"`
	ActorID   *int64    `json:"actorId,omitempty" db:"actor_id"`
	ActorRole RoleType  `json:"actorRole" db:"actor_role"`
	Action    string    `json:"action" db:"action" example:"leave.parent.approve"`
	Entity    string    `json:"entity" db:"entity" example:"leave"`
	EntityID  int64     `json:"entityId" db:"entity_id"`
	Detail    string    `json:"detail" db:"detail"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Activity log entity names
const (
	EntityLeave  = "leave"
	EntityUser   = "user"
	EntityHostel = "hostel"
	EntityBranch = "branch"
)
