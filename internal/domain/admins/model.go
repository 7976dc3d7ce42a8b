package admins

import "time"

type Role string

const (
	RoleSuper Role = "super"
	RoleAdmin Role = "admin"
)

// Grant is one elevated-role assignment. At most one per user.
type Grant struct {
	UserID    int64
	Role      Role
	GrantedBy int64
	CreatedAt time.Time
}
