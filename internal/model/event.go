package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is an organizer's party/function. StartsAt is stored in UTC and
// authored in the business timezone; EntryLimit is a wall-clock HH:mm
// cutoff in that zone.
type Event struct {
	ID          int        `json:"id" db:"id"`
	EventID     uuid.UUID  `json:"event_id" db:"event_id"`
	OrganizerID int        `json:"organizer_id" db:"organizer_id"`
	Name        string     `json:"name" db:"name"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EntryLimit  *string    `json:"entry_limit,omitempty" db:"entry_limit"`
	Capacity    int        `json:"capacity" db:"capacity"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	ClosedAt    *time.Time `json:"closed_at,omitempty" db:"closed_at"`
	ClosedBy    *int       `json:"closed_by,omitempty" db:"closed_by"`
	CloseReason *string    `json:"close_reason,omitempty" db:"close_reason"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (e *Event) IsDeleted() bool {
	return e.DeletedAt != nil
}

// IsClosed reports whether the event reached its terminal soft state.
func (e *Event) IsClosed() bool {
	return e.ClosedAt != nil
}

type UpdateEventParams struct {
	Name       *string
	StartsAt   *time.Time
	EntryLimit *string
	Capacity   *int
}

// CloseEventResult carries the per-step counts of a close operation.
type CloseEventResult struct {
	CodesDeactivated     int `json:"codes_deactivated"`
	ReservationsArchived int `json:"reservations_archived"`
}
