package domain

import "time"

const RoleAdmin = "admin"

type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin compares the stored role exactly; "Admin" or "" are not admins.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
