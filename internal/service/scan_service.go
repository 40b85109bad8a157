package service

import (
	"context"
	"errors"
	"ticket-backoffice/config"
	"ticket-backoffice/internal/entrywindow"
	"ticket-backoffice/internal/model"
	"ticket-backoffice/internal/repository"
	"ticket-backoffice/internal/scan"
	"ticket-backoffice/monitoring"
	apperrors "ticket-backoffice/pkg/app_errors"
	"ticket-backoffice/pkg/logger"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScanService interface {
	// Preview classifies a raw scanned value without consuming anything.
	// Every classified scan appends exactly one log row, whatever the
	// verdict; store failures during resolution surface as errors instead
	// of verdicts.
	Preview(ctx context.Context, eventID uuid.UUID, rawValue string, staffID *int) (*model.ScanResponse, error)
	// Confirm performs the at-most-once consumption. It re-validates from
	// scratch; a prior Preview result is never trusted. Rejections append
	// no log row, successes append exactly one.
	Confirm(ctx context.Context, req model.ConfirmRequest, staffID *int) (*model.ConfirmResponse, error)
}

type ScanServiceImpl struct {
	eventRepo   repository.EventRepository
	codeRepo    repository.CodeRepository
	ticketRepo  repository.TicketRepository
	scanLogRepo repository.ScanLogRepository
	scanCfg     config.ScanConfig

	// now is swappable for tests
	now func() time.Time
}

func NewScanService(
	eventRepo repository.EventRepository,
	codeRepo repository.CodeRepository,
	ticketRepo repository.TicketRepository,
	scanLogRepo repository.ScanLogRepository,
	scanCfg config.ScanConfig,
) ScanService {
	return &ScanServiceImpl{
		eventRepo:   eventRepo,
		codeRepo:    codeRepo,
		ticketRepo:  ticketRepo,
		scanLogRepo: scanLogRepo,
		scanCfg:     scanCfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// eventCutoff computes the event's entry deadline, or nil when neither
// the event limit nor the configured fallback parses.
func (s *ScanServiceImpl) eventCutoff(event *model.Event) *entrywindow.Cutoff {
	limit := ""
	if event.EntryLimit != nil {
		limit = *event.EntryLimit
	}

	cutoff, ok := entrywindow.Compute(event.StartsAt, limit, s.scanCfg.DefaultEntryLimit, s.scanCfg.BusinessLocation())
	if !ok {
		return nil
	}
	return &cutoff
}

func (s *ScanServiceImpl) Preview(ctx context.Context, eventID uuid.UUID, rawValue string, staffID *int) (*model.ScanResponse, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := s.eventCutoff(event)

	resp, err := s.resolveAndClassify(ctx, event, rawValue, cutoff, now)
	if err != nil {
		return nil, err
	}

	// The audit trail records every attempt. A failed append must not
	// turn a completed read-only classification into an error at the
	// door, so it is logged and swallowed.
	scanLog := &model.ScanLog{
		EventID:   event.ID,
		CodeID:    resp.CodeID,
		TicketID:  resp.TicketID,
		RawValue:  rawValue,
		Result:    resp.Result,
		ScannedBy: staffID,
	}
	if _, err := s.scanLogRepo.Append(ctx, scanLog); err != nil {
		logger.WithComponent("service").Error("failed to append scan log",
			zap.Int("event_id", event.ID), zap.Error(err))
	}

	monitoring.RecordScan(resp.Result)

	return resp, nil
}

// resolveAndClassify walks the resolver precedence: same-event code,
// same-event ticket by QR token, then the diagnostic cross-event lookup.
// Store failures are not verdicts: anything but a not-found sentinel
// propagates so the caller surfaces it instead of turning a guest away.
func (s *ScanServiceImpl) resolveAndClassify(ctx context.Context, event *model.Event, rawValue string, cutoff *entrywindow.Cutoff, now time.Time) (*model.ScanResponse, error) {
	code, err := s.codeRepo.FindByValueAndEvent(ctx, rawValue, event.ID)
	if err == nil {
		return s.classifyCodeMatch(ctx, event, code, cutoff, now)
	}
	if !errors.Is(err, apperrors.ErrCodeNotFound) {
		return nil, err
	}

	ticket, err := s.ticketRepo.FindByTokenAndEvent(ctx, rawValue, event.ID)
	if err == nil {
		return s.classifyTicketMatch(ctx, ticket, cutoff, now)
	}
	if !errors.Is(err, apperrors.ErrTicketNotFound) {
		return nil, err
	}

	return s.diagnoseMiss(ctx, event, rawValue)
}

func (s *ScanServiceImpl) classifyCodeMatch(ctx context.Context, event *model.Event, code *model.Code, cutoff *entrywindow.Cutoff, now time.Time) (*model.ScanResponse, error) {
	// the latest ticket issued from this code attaches identity info and
	// detects prior consumption even when the redemption unit is the code
	ticket, err := s.ticketRepo.LatestByCode(ctx, code.ID, event.ID)
	if err != nil {
		return nil, err
	}

	outcome := scan.ClassifyCode(code, ticket, cutoff, now)

	codeType := code.Type
	resp := &model.ScanResponse{
		Success:   outcome.Result == model.ScanResultValid,
		Result:    outcome.Result,
		Reason:    outcome.Reason,
		MatchType: model.MatchTypeCode,
		CodeID:    &code.ID,
		CodeType:  &codeType,
		Uses:      &code.Uses,
		MaxUses:   code.MaxUses,
		ExpiredAt: code.ExpiresAt,
	}

	if ticket != nil {
		resp.TicketID = &ticket.ID
		resp.TicketUsed = ticket.Used
		person := ticket.Person()
		resp.Person = &person
	}

	return resp, nil
}

func (s *ScanServiceImpl) classifyTicketMatch(ctx context.Context, ticket *model.Ticket, cutoff *entrywindow.Cutoff, now time.Time) (*model.ScanResponse, error) {
	var codeType model.CodeType
	var codeID *int
	if ticket.CodeID != nil {
		code, err := s.codeRepo.FindByID(ctx, *ticket.CodeID)
		if err != nil && !errors.Is(err, apperrors.ErrCodeNotFound) {
			return nil, err
		}
		if err == nil {
			codeType = code.Type
			codeID = &code.ID
		}
	}

	outcome := scan.ClassifyTicket(ticket, codeType, cutoff, now)

	person := ticket.Person()
	resp := &model.ScanResponse{
		Success:    outcome.Result == model.ScanResultValid,
		Result:     outcome.Result,
		Reason:     outcome.Reason,
		MatchType:  model.MatchTypeTicket,
		CodeID:     codeID,
		TicketID:   &ticket.ID,
		Person:     &person,
		TicketUsed: ticket.Used,
	}
	if codeType != "" {
		resp.CodeType = &codeType
	}

	return resp, nil
}

// diagnoseMiss looks for the same value under another event so staff can
// tell the holder where their code actually belongs.
func (s *ScanServiceImpl) diagnoseMiss(ctx context.Context, event *model.Event, rawValue string) (*model.ScanResponse, error) {
	_, other, err := s.codeRepo.FindByValueElsewhere(ctx, rawValue, event.ID)
	if err == nil {
		return eventMismatchResponse(other), nil
	}
	if !errors.Is(err, apperrors.ErrCodeNotFound) {
		return nil, err
	}

	_, other, err = s.ticketRepo.FindByTokenElsewhere(ctx, rawValue, event.ID)
	if err == nil {
		return eventMismatchResponse(other), nil
	}
	if !errors.Is(err, apperrors.ErrTicketNotFound) {
		return nil, err
	}

	return &model.ScanResponse{
		Result:    model.ScanResultNotFound,
		Reason:    model.ReasonNotFound,
		MatchType: model.MatchTypeNone,
	}, nil
}

func eventMismatchResponse(other *model.OtherEvent) *model.ScanResponse {
	return &model.ScanResponse{
		Result:     model.ScanResultInvalid,
		Reason:     model.ReasonEventMismatch,
		MatchType:  model.MatchTypeNone,
		OtherEvent: other,
	}
}

func (s *ScanServiceImpl) Confirm(ctx context.Context, req model.ConfirmRequest, staffID *int) (*model.ConfirmResponse, error) {
	if req.TicketID == nil && req.CodeID == nil {
		return nil, apperrors.ErrInvalidInput
	}

	var resp *model.ConfirmResponse
	var err error
	if req.TicketID != nil {
		resp, err = s.confirmTicket(ctx, *req.TicketID, staffID)
	} else {
		resp, err = s.confirmCode(ctx, *req.CodeID, staffID)
	}

	if err != nil {
		monitoring.RecordConfirm("rejected")
		return nil, err
	}

	monitoring.RecordConfirm("confirmed")
	return resp, nil
}

func (s *ScanServiceImpl) confirmTicket(ctx context.Context, ticketID int, staffID *int) (*model.ConfirmResponse, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if ticket.Used {
		return nil, apperrors.ErrTicketUsed
	}

	now := s.now()
	if err := s.checkTicketCutoff(ctx, ticket, now); err != nil {
		return nil, err
	}

	// the conditional flag flip is authoritative: a concurrent confirm
	// that lost the race surfaces here as ErrTicketUsed regardless of the
	// read above
	updated, err := s.ticketRepo.MarkUsed(ctx, ticket.ID, now)
	if err != nil {
		return nil, err
	}

	s.appendConfirmLog(ctx, updated.EventID, updated.CodeID, &updated.ID, updated.QRToken, staffID)

	used := true
	return &model.ConfirmResponse{
		Success:    true,
		Result:     "confirmed",
		TicketID:   &updated.ID,
		TicketUsed: &used,
	}, nil
}

// checkTicketCutoff re-applies the entry window to tickets whose
// originating code is general-typed.
func (s *ScanServiceImpl) checkTicketCutoff(ctx context.Context, ticket *model.Ticket, now time.Time) error {
	if ticket.CodeID == nil {
		return nil
	}

	code, err := s.codeRepo.FindByID(ctx, *ticket.CodeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCodeNotFound) {
			return nil
		}
		return err
	}
	if !code.Type.SubjectToEntryCutoff() {
		return nil
	}

	event, err := s.eventRepo.FindByID(ctx, ticket.EventID)
	if err != nil {
		return err
	}

	if cutoff := s.eventCutoff(event); cutoff != nil && cutoff.Passed(now) {
		return apperrors.ErrEntryCutoff
	}
	return nil
}

func (s *ScanServiceImpl) confirmCode(ctx context.Context, codeID int, staffID *int) (*model.ConfirmResponse, error) {
	code, err := s.codeRepo.FindByID(ctx, codeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !code.IsActive {
		return nil, apperrors.ErrCodeInactive
	}
	if code.IsExpiredAt(now) {
		return nil, apperrors.ErrCodeExpired
	}
	if code.Type.SubjectToEntryCutoff() {
		event, err := s.eventRepo.FindByID(ctx, code.EventID)
		if err != nil {
			return nil, err
		}
		if cutoff := s.eventCutoff(event); cutoff != nil && cutoff.Passed(now) {
			return nil, apperrors.ErrEntryCutoff
		}
	}

	// the conditional increment is authoritative for the cap; the checks
	// above only exist to name pre-existing rejections precisely
	updated, err := s.codeRepo.ConsumeUse(ctx, code.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCodeExhausted) {
			return nil, s.nameConsumeRejection(ctx, code.ID)
		}
		return nil, err
	}

	s.appendConfirmLog(ctx, updated.EventID, &updated.ID, nil, updated.Code, staffID)

	return &model.ConfirmResponse{
		Success: true,
		Result:  "confirmed",
		CodeID:  &updated.ID,
		Uses:    &updated.Uses,
		MaxUses: updated.MaxUses,
	}, nil
}

// nameConsumeRejection re-reads a code whose conditional increment
// touched zero rows, to report the precise cause.
func (s *ScanServiceImpl) nameConsumeRejection(ctx context.Context, codeID int) error {
	code, err := s.codeRepo.FindByID(ctx, codeID)
	if err != nil {
		return apperrors.ErrCodeExhausted
	}
	if !code.IsActive {
		return apperrors.ErrCodeInactive
	}
	return apperrors.ErrCodeExhausted
}

func (s *ScanServiceImpl) appendConfirmLog(ctx context.Context, eventID int, codeID, ticketID *int, rawValue string, staffID *int) {
	scanLog := &model.ScanLog{
		EventID:   eventID,
		CodeID:    codeID,
		TicketID:  ticketID,
		RawValue:  rawValue,
		Result:    model.ScanResultValid,
		ScannedBy: staffID,
	}
	if _, err := s.scanLogRepo.Append(ctx, scanLog); err != nil {
		logger.WithComponent("service").Error("failed to append confirm log",
			zap.Int("event_id", eventID), zap.Error(err))
	}
}
