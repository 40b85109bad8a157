package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// VenueTable is a sellable table in the venue layout.
type VenueTable struct {
	ID        int             `json:"id" db:"id"`
	EventID   int             `json:"event_id" db:"event_id"`
	Name      string          `json:"name" db:"name"`
	Capacity  int             `json:"capacity" db:"capacity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (t *VenueTable) IsDeleted() bool {
	return t.DeletedAt != nil
}

// ReservationStatus tracks a table booking's lifecycle.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusArchived  ReservationStatus = "archived"
)

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo enforces the booking lifecycle; archived is terminal.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	transitions := map[ReservationStatus][]ReservationStatus{
		ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusArchived},
		ReservationStatusConfirmed: {ReservationStatusArchived},
		ReservationStatusArchived:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Reservation is a table booking, optionally linked to the table-type
// access code issued for it.
type Reservation struct {
	ID            int               `json:"id" db:"id"`
	EventID       int               `json:"event_id" db:"event_id"`
	TableID       int               `json:"table_id" db:"table_id"`
	CodeID        *int              `json:"code_id,omitempty" db:"code_id"`
	Status        ReservationStatus `json:"status" db:"status"`
	PurchaserName string            `json:"purchaser_name" db:"purchaser_name"`
	PurchaserDNI  string            `json:"purchaser_dni" db:"purchaser_dni"`
	Price         decimal.Decimal   `json:"price" db:"price"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time        `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (r *Reservation) IsDeleted() bool {
	return r.DeletedAt != nil
}
