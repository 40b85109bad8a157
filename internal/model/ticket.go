package model

import "time"

// Ticket is a personal QR entry pass. QRToken is the opaque redemption
// secret, distinct from the owning code's value; a ticket may exist
// without an originating code. Used is monotonic and UsedAt is set if and
// only if Used is true.
type Ticket struct {
	ID        int        `json:"id" db:"id"`
	QRToken   string     `json:"qr_token" db:"qr_token"`
	CodeID    *int       `json:"code_id,omitempty" db:"code_id"`
	EventID   int        `json:"event_id" db:"event_id"`
	FullName  string     `json:"full_name" db:"full_name"`
	DNI       string     `json:"dni" db:"dni"`
	Email     string     `json:"email" db:"email"`
	Phone     string     `json:"phone" db:"phone"`
	Used      bool       `json:"used" db:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty" db:"used_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Person is the identity block surfaced to door staff on a scan.
type Person struct {
	FullName string `json:"full_name"`
	DNI      string `json:"dni"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (t *Ticket) Person() Person {
	return Person{
		FullName: t.FullName,
		DNI:      t.DNI,
		Email:    t.Email,
		Phone:    t.Phone,
	}
}
