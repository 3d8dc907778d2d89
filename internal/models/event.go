package models

import (
	"fmt"
	"time"
)

// Importance classifies an event's priority. It is a closed set; values
// outside it are rejected at the API boundary rather than defaulted.
type Importance string

const (
	ImportanceNormal    Importance = "normal"
	ImportanceImportant Importance = "important"
	ImportanceCritical  Importance = "critical"
)

// ParseImportance validates a raw importance string.
func ParseImportance(s string) (Importance, error) {
	switch Importance(s) {
	case ImportanceNormal, ImportanceImportant, ImportanceCritical:
		return Importance(s), nil
	}
	return "", fmt.Errorf("unknown importance %q", s)
}

// Event represents a single calendar entry belonging to one user.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"` // Nullable for open-ended events
	Importance  Importance `json:"importance"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
