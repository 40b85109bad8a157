// Package scan holds the redemption state machine. Classify is pure:
// it sees already-resolved rows plus an injected clock and never touches
// the store, so the precedence rules are unit-testable without fixtures.
package scan

import (
	"ticket-backoffice/internal/entrywindow"
	"ticket-backoffice/internal/model"
	"time"
)

// Outcome is the tagged classification of one scan.
type Outcome struct {
	Result model.ScanResult
	Reason string
}

// ClassifyCode applies the precedence rules for a code match. ticket, if
// non-nil, is the latest ticket issued from the code within the same
// event; a used ticket is terminal and overrides the code's own state.
// cutoff, if non-nil, is the event's entry deadline and only constrains
// general-type codes.
func ClassifyCode(code *model.Code, ticket *model.Ticket, cutoff *entrywindow.Cutoff, now time.Time) Outcome {
	out := classifyCodeState(code, cutoff, now)

	if ticket != nil && ticket.Used {
		return Outcome{Result: model.ScanResultDuplicate}
	}

	return out
}

func classifyCodeState(code *model.Code, cutoff *entrywindow.Cutoff, now time.Time) Outcome {
	if !code.IsActive {
		return Outcome{Result: model.ScanResultInactive}
	}

	if code.IsExpiredAt(now) {
		return Outcome{Result: model.ScanResultExpired}
	}

	if code.IsExhausted() {
		return Outcome{Result: model.ScanResultExhausted}
	}

	if code.Type.SubjectToEntryCutoff() && cutoff != nil && cutoff.Passed(now) {
		return Outcome{Result: model.ScanResultExpired, Reason: model.ReasonEntryCutoff}
	}

	return Outcome{Result: model.ScanResultValid}
}

// ClassifyTicket handles a ticket matched directly by its QR token.
// codeType is the type of the originating code when there is one; tickets
// with no code are never cutoff-limited.
func ClassifyTicket(ticket *model.Ticket, codeType model.CodeType, cutoff *entrywindow.Cutoff, now time.Time) Outcome {
	if ticket.Used {
		return Outcome{Result: model.ScanResultDuplicate}
	}

	if codeType.SubjectToEntryCutoff() && cutoff != nil && cutoff.Passed(now) {
		return Outcome{Result: model.ScanResultExpired, Reason: model.ReasonEntryCutoff}
	}

	return Outcome{Result: model.ScanResultValid}
}
