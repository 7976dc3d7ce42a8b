package users

import "time"

type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	IsActive  bool
	IsBanned  bool
	BanReason string
	JoinedAt  time.Time
	LastSeen  time.Time
	UpdatedAt time.Time
}

// EishAccount is the external-platform credential linked to one user.
// Removal is a soft delete so the username stays traceable.
type EishAccount struct {
	UserID    int64
	Username  string
	Password  string
	CreatedAt time.Time
	DeletedAt *time.Time
}
