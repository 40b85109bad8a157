package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCodeTypeIsValid(t *testing.T) {
	for _, codeType := range []CodeType{CodeTypeGeneral, CodeTypeCourtesy, CodeTypeTable, CodeTypeFree} {
		assert.True(t, codeType.IsValid())
	}
	assert.False(t, CodeType("vip").IsValid())
	assert.False(t, CodeType("").IsValid())
}

func TestCodeTypeSubjectToEntryCutoff(t *testing.T) {
	assert.True(t, CodeTypeGeneral.SubjectToEntryCutoff())
	assert.False(t, CodeTypeCourtesy.SubjectToEntryCutoff())
	assert.False(t, CodeTypeTable.SubjectToEntryCutoff())
	assert.False(t, CodeTypeFree.SubjectToEntryCutoff())
}

func TestCodeIsExhausted(t *testing.T) {
	code := Code{Uses: 10}
	assert.False(t, code.IsExhausted(), "nil max_uses means unlimited")

	maxUses := 10
	code.MaxUses = &maxUses
	assert.True(t, code.IsExhausted())

	code.Uses = 9
	assert.False(t, code.IsExhausted())
}

func TestCodeIsExpiredAt(t *testing.T) {
	now := time.Date(2025, 3, 16, 3, 0, 0, 0, time.UTC)

	code := Code{}
	assert.False(t, code.IsExpiredAt(now))

	past := now.Add(-time.Second)
	code.ExpiresAt = &past
	assert.True(t, code.IsExpiredAt(now))

	future := now.Add(time.Second)
	code.ExpiresAt = &future
	assert.False(t, code.IsExpiredAt(now))
}

func TestScanResultIsValid(t *testing.T) {
	for _, result := range []ScanResult{
		ScanResultValid, ScanResultDuplicate, ScanResultExpired,
		ScanResultInactive, ScanResultExhausted, ScanResultInvalid,
		ScanResultNotFound,
	} {
		assert.True(t, result.IsValid())
	}
	assert.False(t, ScanResult("ok").IsValid())
}

func TestReservationStatusTransitions(t *testing.T) {
	assert.True(t, ReservationStatusPending.CanTransitionTo(ReservationStatusConfirmed))
	assert.True(t, ReservationStatusPending.CanTransitionTo(ReservationStatusArchived))
	assert.True(t, ReservationStatusConfirmed.CanTransitionTo(ReservationStatusArchived))

	assert.False(t, ReservationStatusConfirmed.CanTransitionTo(ReservationStatusPending))
	assert.False(t, ReservationStatusArchived.CanTransitionTo(ReservationStatusPending))
	assert.False(t, ReservationStatusArchived.CanTransitionTo(ReservationStatusConfirmed))
}

func TestEventIsClosed(t *testing.T) {
	event := Event{}
	assert.False(t, event.IsClosed())

	closedAt := time.Now()
	event.ClosedAt = &closedAt
	assert.True(t, event.IsClosed())
}
