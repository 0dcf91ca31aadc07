package entity

import "time"

// Task priorities. Stored as-is; the API rejects anything else.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task belongs to exactly one user. OwnerID never changes after creation;
// every repository lookup is scoped by it.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
