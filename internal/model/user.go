package model

import (
	"time"
)

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User rows are administered by the external identity system; this service
// only reads them to resolve actors and approvers.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	ManagerID *string   `db:"manager_id" json:"managerId,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Actor is the authenticated identity attached to a request.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsManager() bool { return a.Role == RoleManager }
