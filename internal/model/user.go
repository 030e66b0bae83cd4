package model

import "time"

type Role string

const (
	RoleSuperAdmin            Role = "super_admin"
	RoleEventAdmin            Role = "event_admin"
	RoleRegistrationCommittee Role = "registration_committee"
	RoleParticipant           Role = "participant"
)

// ValidRole reports whether r is one of the four portal roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleEventAdmin, RoleRegistrationCommittee, RoleParticipant:
		return true
	}
	return false
}

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Username  string    `json:"username" gorm:"not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	FullName  string    `json:"full_name" gorm:"not null"`
	Role      Role      `json:"role" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Caller is the resolved identity of a request, furnished by the auth middleware.
// Participant sessions are scoped to a single event; EventID is 0 for other roles.
type Caller struct {
	UserID  uint
	Role    Role
	EventID uint
}

func (c Caller) IsParticipant() bool { return c.Role == RoleParticipant }
