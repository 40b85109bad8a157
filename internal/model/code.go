package model

import (
	"time"

	"github.com/google/uuid"
)

// CodeType classifies an access code.
type CodeType string

const (
	CodeTypeGeneral  CodeType = "general"
	CodeTypeCourtesy CodeType = "courtesy"
	CodeTypeTable    CodeType = "table"
	CodeTypeFree     CodeType = "free"
)

func (t CodeType) IsValid() bool {
	switch t {
	case CodeTypeGeneral, CodeTypeCourtesy, CodeTypeTable, CodeTypeFree:
		return true
	}
	return false
}

// SubjectToEntryCutoff reports whether the type is refused after the
// event's entry window closes. Only general codes are; free codes carry
// their own absolute expiry instead.
func (t CodeType) SubjectToEntryCutoff() bool {
	return t == CodeTypeGeneral
}

// Code is a human-entered or scanned access code. A code belongs to
// exactly one event; Uses only ever grows and never exceeds MaxUses when
// MaxUses is set.
type Code struct {
	ID         int        `json:"id" db:"id"`
	Code       string     `json:"code" db:"code"`
	Type       CodeType   `json:"type" db:"type"`
	EventID    int        `json:"event_id" db:"event_id"`
	IsActive   bool       `json:"is_active" db:"is_active"`
	MaxUses    *int       `json:"max_uses,omitempty" db:"max_uses"`
	Uses       int        `json:"uses" db:"uses"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	PromoterID *int       `json:"promoter_id,omitempty" db:"promoter_id"`
	BatchID    *uuid.UUID `json:"batch_id,omitempty" db:"batch_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (c *Code) IsDeleted() bool {
	return c.DeletedAt != nil
}

// IsExpiredAt checks the code's own absolute expiry against now.
func (c *Code) IsExpiredAt(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// IsExhausted reports whether the use counter reached its cap.
func (c *Code) IsExhausted() bool {
	return c.MaxUses != nil && c.Uses >= *c.MaxUses
}
