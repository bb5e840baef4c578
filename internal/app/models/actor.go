package models

// Actor is the authenticated caller of an operation, taken from the session token
type Actor struct {
	ID   int64
	Role RoleType
}

// Is reports whether the actor has role
func (a Actor) Is(role RoleType) bool {
	return a.Role == role
}
