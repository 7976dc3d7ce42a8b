package pool

import "time"

type Status string

const (
	StatusAvailable Status = "available"
	StatusAssigned  Status = "assigned"
)

// Entry is a spare external-platform credential. Entries are recycled on
// release, never deleted.
type Entry struct {
	ID         int64
	Username   string
	Password   string
	Status     Status
	AssignedTo *int64
	AssignedAt *time.Time
	CreatedAt  time.Time
}
