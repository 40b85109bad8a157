package apperrors

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventClosed         = errors.New("event already closed")
	ErrCodeNotFound        = errors.New("code not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrCodeInactive  = errors.New("code is inactive")
	ErrCodeExpired   = errors.New("code expired")
	ErrCodeExhausted = errors.New("code has no uses left")
	ErrEntryCutoff   = errors.New("entry window has closed")
	ErrTicketUsed    = errors.New("ticket already used")

	ErrCodeCollision = errors.New("could not generate a unique code")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid status transition")
	ErrRateLimited   = errors.New("rate limit exceeded")

	ErrInternalServerError = errors.New("internal server error")
)
