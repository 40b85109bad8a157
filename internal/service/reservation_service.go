package service

import (
	"context"
	"ticket-backoffice/internal/codegen"
	"ticket-backoffice/internal/model"
	"ticket-backoffice/internal/repository"
	apperrors "ticket-backoffice/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReserveParams books a table; when IssueCode is set a table-type access
// code is generated alongside the booking.
type ReserveParams struct {
	TableID       int
	PurchaserName string
	PurchaserDNI  string
	IssueCode     bool
}

type ReservationService interface {
	CreateTable(ctx context.Context, eventID uuid.UUID, name string, capacity int, price decimal.Decimal) (*model.VenueTable, error)
	ListTables(ctx context.Context, eventID uuid.UUID) ([]*model.VenueTable, error)
	Reserve(ctx context.Context, eventID uuid.UUID, params ReserveParams) (*model.Reservation, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Reservation, error)
	Confirm(ctx context.Context, id int) (*model.Reservation, error)
	Archive(ctx context.Context, id int) (*model.Reservation, error)
}

type ReservationServiceImpl struct {
	eventRepo repository.EventRepository
	tableRepo repository.TableRepository
	repo      repository.ReservationRepository
	codeRepo  repository.CodeRepository
}

func NewReservationService(
	eventRepo repository.EventRepository,
	tableRepo repository.TableRepository,
	repo repository.ReservationRepository,
	codeRepo repository.CodeRepository,
) ReservationService {
	return &ReservationServiceImpl{
		eventRepo: eventRepo,
		tableRepo: tableRepo,
		repo:      repo,
		codeRepo:  codeRepo,
	}
}

func (s *ReservationServiceImpl) CreateTable(ctx context.Context, eventID uuid.UUID, name string, capacity int, price decimal.Decimal) (*model.VenueTable, error) {
	if name == "" || capacity < 1 || price.IsNegative() {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsClosed() {
		return nil, apperrors.ErrEventClosed
	}

	table := &model.VenueTable{
		EventID:  event.ID,
		Name:     name,
		Capacity: capacity,
		Price:    price,
	}
	return s.tableRepo.Create(ctx, table)
}

func (s *ReservationServiceImpl) ListTables(ctx context.Context, eventID uuid.UUID) ([]*model.VenueTable, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.tableRepo.ListByEvent(ctx, event.ID)
}

func (s *ReservationServiceImpl) Reserve(ctx context.Context, eventID uuid.UUID, params ReserveParams) (*model.Reservation, error) {
	if params.PurchaserName == "" {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsClosed() {
		return nil, apperrors.ErrEventClosed
	}

	table, err := s.tableRepo.FindByID(ctx, params.TableID)
	if err != nil {
		return nil, err
	}
	if table.EventID != event.ID {
		return nil, apperrors.ErrInvalidInput
	}

	var codeID *int
	if params.IssueCode {
		// table codes only need to be unique within their event
		value, err := codegen.Generate(ctx, table.Name, func(ctx context.Context, v string) (bool, error) {
			return s.codeRepo.ExistsInEvent(ctx, v, event.ID)
		})
		if err != nil {
			return nil, err
		}
		code, err := s.codeRepo.Create(ctx, &model.Code{
			Code:    value,
			Type:    model.CodeTypeTable,
			EventID: event.ID,
		})
		if err != nil {
			return nil, err
		}
		codeID = &code.ID
	}

	reservation := &model.Reservation{
		EventID:       event.ID,
		TableID:       table.ID,
		CodeID:        codeID,
		Status:        model.ReservationStatusPending,
		PurchaserName: params.PurchaserName,
		PurchaserDNI:  params.PurchaserDNI,
		Price:         table.Price,
	}
	return s.repo.Create(ctx, reservation)
}

func (s *ReservationServiceImpl) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Reservation, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, event.ID)
}

func (s *ReservationServiceImpl) Confirm(ctx context.Context, id int) (*model.Reservation, error) {
	return s.transition(ctx, id, model.ReservationStatusConfirmed)
}

func (s *ReservationServiceImpl) Archive(ctx context.Context, id int) (*model.Reservation, error) {
	return s.transition(ctx, id, model.ReservationStatusArchived)
}

func (s *ReservationServiceImpl) transition(ctx context.Context, id int, target model.ReservationStatus) (*model.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reservation.Status.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, reservation.Status, target)
}
