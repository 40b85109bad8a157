package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanRequest is the door scanner's preview payload.
type ScanRequest struct {
	Code    string    `json:"code" binding:"required"`
	EventID uuid.UUID `json:"event_id" binding:"required"`
}

// ScanResponse is the classification of one scan. Success mirrors
// Result == valid so simple clients can branch on one field.
type ScanResponse struct {
	Success    bool        `json:"success"`
	Result     ScanResult  `json:"result"`
	Reason     string      `json:"reason,omitempty"`
	MatchType  MatchType   `json:"match_type"`
	OtherEvent *OtherEvent `json:"other_event,omitempty"`
	CodeID     *int        `json:"code_id,omitempty"`
	TicketID   *int        `json:"ticket_id,omitempty"`
	CodeType   *CodeType   `json:"code_type,omitempty"`
	Uses       *int        `json:"uses,omitempty"`
	MaxUses    *int        `json:"max_uses,omitempty"`
	ExpiredAt  *time.Time  `json:"expired_at,omitempty"`
	Person     *Person     `json:"person,omitempty"`
	TicketUsed bool        `json:"ticket_used"`
}

// ConfirmRequest consumes a previously previewed code or ticket. At
// least one id is required.
type ConfirmRequest struct {
	CodeID   *int `json:"code_id"`
	TicketID *int `json:"ticket_id"`
}

type ConfirmResponse struct {
	Success    bool   `json:"success"`
	Result     string `json:"result"`
	CodeID     *int   `json:"code_id,omitempty"`
	TicketID   *int   `json:"ticket_id,omitempty"`
	Uses       *int   `json:"uses,omitempty"`
	MaxUses    *int   `json:"max_uses,omitempty"`
	TicketUsed *bool  `json:"ticket_used,omitempty"`
}
