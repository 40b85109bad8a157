package service

import (
	"context"
	"fmt"
	"ticket-backoffice/internal/entrywindow"
	"ticket-backoffice/internal/model"
	"ticket-backoffice/internal/repository"
	apperrors "ticket-backoffice/pkg/app_errors"
	"ticket-backoffice/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	// Close is the terminal transition: deactivate the event's codes,
	// archive its reservations and close the event, all in one
	// transaction.
	Close(ctx context.Context, eventID uuid.UUID, closedBy int, reason *string) (*model.CloseEventResult, error)
}

type EventServiceImpl struct {
	pool            *pgxpool.Pool
	repo            repository.EventRepository
	codeRepo        repository.CodeRepository
	reservationRepo repository.ReservationRepository
}

func NewEventService(
	pool *pgxpool.Pool,
	repo repository.EventRepository,
	codeRepo repository.CodeRepository,
	reservationRepo repository.ReservationRepository,
) EventService {
	return &EventServiceImpl{
		pool:            pool,
		repo:            repo,
		codeRepo:        codeRepo,
		reservationRepo: reservationRepo,
	}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.EntryLimit != nil {
		if _, ok := entrywindow.ParseLimit(*event.EntryLimit); !ok {
			return nil, apperrors.ErrInvalidInput
		}
	}
	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	if params.EntryLimit != nil {
		if _, ok := entrywindow.ParseLimit(*params.EntryLimit); !ok {
			return nil, apperrors.ErrInvalidInput
		}
	}
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsClosed() {
		return nil, apperrors.ErrEventClosed
	}
	return s.repo.Update(ctx, event.ID, params)
}

func (s *EventServiceImpl) Close(ctx context.Context, eventID uuid.UUID, closedBy int, reason *string) (*model.CloseEventResult, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsClosed() {
		return nil, apperrors.ErrEventClosed
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	codesDeactivated, err := s.codeRepo.DeactivateByEventTx(ctx, tx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("close event: deactivate codes: %w", err)
	}

	reservationsArchived, err := s.reservationRepo.ArchiveByEventTx(ctx, tx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("close event: archive reservations: %w", err)
	}

	if err := s.repo.CloseTx(ctx, tx, event.ID, closedBy, reason); err != nil {
		return nil, fmt.Errorf("close event: mark closed: %w", err)
	}

	logger.WithComponent("service").Info("closing event",
		zap.Int("event_id", event.ID),
		zap.Int("codes_deactivated", codesDeactivated),
		zap.Int("reservations_archived", reservationsArchived),
		zap.Int("closed_by", closedBy),
	)

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &model.CloseEventResult{
		CodesDeactivated:     codesDeactivated,
		ReservationsArchived: reservationsArchived,
	}, nil
}
