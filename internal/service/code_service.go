package service

import (
	"context"
	"ticket-backoffice/internal/codegen"
	"ticket-backoffice/internal/model"
	"ticket-backoffice/internal/repository"
	"ticket-backoffice/monitoring"
	apperrors "ticket-backoffice/pkg/app_errors"
	"time"

	"github.com/google/uuid"
)

// IssueBatchParams describes one batch of codes to generate for an event.
type IssueBatchParams struct {
	Type       model.CodeType
	Quantity   int
	MaxUses    *int
	ExpiresAt  *time.Time
	PromoterID *int
}

// IssueTicketParams carries the attendee identity for a new QR ticket.
type IssueTicketParams struct {
	CodeID   *int
	FullName string
	DNI      string
	Email    string
	Phone    string
}

type CodeService interface {
	// ListByEvent lists an event's codes, optionally narrowed to one type.
	ListByEvent(ctx context.Context, eventID uuid.UUID, typeFilter *model.CodeType) ([]*model.Code, error)
	// IssueBatch generates friendly codes seeded from the event name; all
	// codes of the batch share one batch id.
	IssueBatch(ctx context.Context, eventID uuid.UUID, params IssueBatchParams) ([]*model.Code, error)
	// IssueTicket creates a QR ticket, optionally linked to a code.
	IssueTicket(ctx context.Context, eventID uuid.UUID, params IssueTicketParams) (*model.Ticket, error)
	ListTicketsByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Ticket, error)
}

type CodeServiceImpl struct {
	eventRepo  repository.EventRepository
	codeRepo   repository.CodeRepository
	ticketRepo repository.TicketRepository
}

func NewCodeService(
	eventRepo repository.EventRepository,
	codeRepo repository.CodeRepository,
	ticketRepo repository.TicketRepository,
) CodeService {
	return &CodeServiceImpl{
		eventRepo:  eventRepo,
		codeRepo:   codeRepo,
		ticketRepo: ticketRepo,
	}
}

func (s *CodeServiceImpl) ListByEvent(ctx context.Context, eventID uuid.UUID, typeFilter *model.CodeType) ([]*model.Code, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	codes, err := s.codeRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if typeFilter == nil {
		return codes, nil
	}
	filtered := make([]*model.Code, 0, len(codes))
	for _, code := range codes {
		if code.Type == *typeFilter {
			filtered = append(filtered, code)
		}
	}
	return filtered, nil
}

func (s *CodeServiceImpl) IssueBatch(ctx context.Context, eventID uuid.UUID, params IssueBatchParams) ([]*model.Code, error) {
	if !params.Type.IsValid() || params.Quantity < 1 {
		return nil, apperrors.ErrInvalidInput
	}
	if params.MaxUses != nil && *params.MaxUses < 1 {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsClosed() {
		return nil, apperrors.ErrEventClosed
	}

	batchID := uuid.New()
	codes := make([]*model.Code, 0, params.Quantity)
	exists := s.codeValueTaken(event.ID, params.Type)

	for i := 0; i < params.Quantity; i++ {
		value, err := codegen.Generate(ctx, event.Name, exists)
		if err != nil {
			return nil, err
		}

		code := &model.Code{
			Code:       value,
			Type:       params.Type,
			EventID:    event.ID,
			MaxUses:    params.MaxUses,
			ExpiresAt:  params.ExpiresAt,
			PromoterID: params.PromoterID,
			BatchID:    &batchID,
		}

		created, err := s.codeRepo.Create(ctx, code)
		if err != nil {
			return nil, err
		}
		codes = append(codes, created)
	}

	monitoring.RecordCodesIssued(params.Type, len(codes))

	return codes, nil
}

// codeValueTaken scopes codegen uniqueness: any code value must be
// unique within its event, and general codes must additionally be unique
// across events since they are typed in by hand.
func (s *CodeServiceImpl) codeValueTaken(eventID int, codeType model.CodeType) codegen.ExistsFunc {
	return func(ctx context.Context, value string) (bool, error) {
		taken, err := s.codeRepo.ExistsInEvent(ctx, value, eventID)
		if err != nil || taken {
			return taken, err
		}
		if codeType == model.CodeTypeGeneral {
			return s.codeRepo.ExistsGeneral(ctx, value)
		}
		return false, nil
	}
}

func (s *CodeServiceImpl) IssueTicket(ctx context.Context, eventID uuid.UUID, params IssueTicketParams) (*model.Ticket, error) {
	if params.FullName == "" {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsClosed() {
		return nil, apperrors.ErrEventClosed
	}

	if params.CodeID != nil {
		code, err := s.codeRepo.FindByID(ctx, *params.CodeID)
		if err != nil {
			return nil, err
		}
		// codes never cross events
		if code.EventID != event.ID {
			return nil, apperrors.ErrInvalidInput
		}
	}

	ticket := &model.Ticket{
		QRToken:  uuid.NewString(),
		CodeID:   params.CodeID,
		EventID:  event.ID,
		FullName: params.FullName,
		DNI:      params.DNI,
		Email:    params.Email,
		Phone:    params.Phone,
	}

	return s.ticketRepo.Create(ctx, ticket)
}

func (s *CodeServiceImpl) ListTicketsByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Ticket, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.ticketRepo.ListByEvent(ctx, event.ID)
}
