package model

import "time"

// ScanResult is the outcome vocabulary of the door scanner. The variants
// are mutually exclusive; every scan attempt resolves to exactly one.
type ScanResult string

const (
	ScanResultValid     ScanResult = "valid"
	ScanResultDuplicate ScanResult = "duplicate"
	ScanResultExpired   ScanResult = "expired"
	ScanResultInactive  ScanResult = "inactive"
	ScanResultExhausted ScanResult = "exhausted"
	ScanResultInvalid   ScanResult = "invalid"
	ScanResultNotFound  ScanResult = "not_found"
)

func (r ScanResult) IsValid() bool {
	switch r {
	case ScanResultValid, ScanResultDuplicate, ScanResultExpired,
		ScanResultInactive, ScanResultExhausted, ScanResultInvalid,
		ScanResultNotFound:
		return true
	}
	return false
}

// Reasons that qualify a result.
const (
	ReasonEntryCutoff   = "entry_cutoff"
	ReasonEventMismatch = "event_mismatch"
	ReasonNotFound      = "not_found"
)

// MatchType reports which lookup path resolved a scanned value.
type MatchType string

const (
	MatchTypeCode   MatchType = "code"
	MatchTypeTicket MatchType = "ticket"
	MatchTypeNone   MatchType = "none"
)

// ScanLog is one append-only row per scan attempt. Rows are never updated
// or deleted.
type ScanLog struct {
	ID        int        `json:"id" db:"id"`
	EventID   int        `json:"event_id" db:"event_id"`
	CodeID    *int       `json:"code_id,omitempty" db:"code_id"`
	TicketID  *int       `json:"ticket_id,omitempty" db:"ticket_id"`
	RawValue  string     `json:"raw_value" db:"raw_value"`
	Result    ScanResult `json:"result" db:"result"`
	ScannedBy *int       `json:"scanned_by_staff_id,omitempty" db:"scanned_by_staff_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// OtherEvent identifies the event a cross-event match belongs to, so the
// door can tell the holder where their code is actually valid.
type OtherEvent struct {
	EventID int    `json:"event_id"`
	Name    string `json:"name"`
}

// AttendanceReport aggregates an event's scan log.
type AttendanceReport struct {
	EventID        int                `json:"event_id"`
	TotalScans     int                `json:"total_scans"`
	ResultCounts   map[ScanResult]int `json:"result_counts"`
	UniqueAdmitted int                `json:"unique_admitted"`
}
