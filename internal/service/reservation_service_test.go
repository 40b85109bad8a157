package service

import (
	"context"
	"testing"
	"ticket-backoffice/internal/model"
	apperrors "ticket-backoffice/pkg/app_errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTableRepo struct{ mock.Mock }

func (m *mockTableRepo) Create(ctx context.Context, table *model.VenueTable) (*model.VenueTable, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VenueTable), args.Error(1)
}

func (m *mockTableRepo) ListByEvent(ctx context.Context, eventID int) ([]*model.VenueTable, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.VenueTable), args.Error(1)
}

func (m *mockTableRepo) FindByID(ctx context.Context, id int) (*model.VenueTable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VenueTable), args.Error(1)
}

type reservationFixture struct {
	events       *mockEventRepo
	tables       *mockTableRepo
	reservations *mockReservationRepo
	codes        *mockCodeRepo
	svc          ReservationService
}

func newReservationFixture() *reservationFixture {
	f := &reservationFixture{
		events:       &mockEventRepo{},
		tables:       &mockTableRepo{},
		reservations: &mockReservationRepo{},
		codes:        &mockCodeRepo{},
	}
	f.svc = NewReservationService(f.events, f.tables, f.reservations, f.codes)
	return f
}

func fixtureTable() *model.VenueTable {
	return &model.VenueTable{
		ID:       5,
		EventID:  1,
		Name:     "Mesa VIP",
		Capacity: 8,
		Price:    decimal.NewFromInt(500),
	}
}

func TestCreateTable_RejectsNegativePrice(t *testing.T) {
	f := newReservationFixture()

	_, err := f.svc.CreateTable(context.Background(), fixtureEvent().EventID, "Mesa", 4, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	f.tables.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReserve_PendingWithTablePrice(t *testing.T) {
	f := newReservationFixture()
	event := fixtureEvent()
	table := fixtureTable()

	f.events.On("FindByEventID", mock.Anything, event.EventID).Return(event, nil)
	f.tables.On("FindByID", mock.Anything, 5).Return(table, nil)
	f.reservations.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Reservation) bool {
		return r.Status == model.ReservationStatusPending &&
			r.TableID == 5 &&
			r.Price.Equal(table.Price) &&
			r.CodeID == nil
	})).Return(&model.Reservation{ID: 1}, nil)

	_, err := f.svc.Reserve(context.Background(), event.EventID, ReserveParams{
		TableID:       5,
		PurchaserName: "Ana",
	})
	require.NoError(t, err)
	f.reservations.AssertExpectations(t)
}

func TestReserve_IssuesTableCode(t *testing.T) {
	f := newReservationFixture()
	event := fixtureEvent()
	table := fixtureTable()

	f.events.On("FindByEventID", mock.Anything, event.EventID).Return(event, nil)
	f.tables.On("FindByID", mock.Anything, 5).Return(table, nil)
	f.codes.On("ExistsInEvent", mock.Anything, mock.Anything, 1).Return(false, nil)
	f.codes.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Code) bool {
		return c.Type == model.CodeTypeTable && c.EventID == 1
	})).Return(&model.Code{ID: 33, Type: model.CodeTypeTable}, nil)
	f.reservations.On("Create", mock.Anything, mock.MatchedBy(func(r *model.Reservation) bool {
		return r.CodeID != nil && *r.CodeID == 33
	})).Return(&model.Reservation{ID: 1}, nil)

	_, err := f.svc.Reserve(context.Background(), event.EventID, ReserveParams{
		TableID:       5,
		PurchaserName: "Ana",
		IssueCode:     true,
	})
	require.NoError(t, err)
	f.codes.AssertExpectations(t)
	// table-code uniqueness is event-scoped, not general-namespace
	f.codes.AssertNotCalled(t, "ExistsGeneral", mock.Anything, mock.Anything)
}

func TestReserve_RejectsForeignTable(t *testing.T) {
	f := newReservationFixture()
	event := fixtureEvent()
	table := fixtureTable()
	table.EventID = 99

	f.events.On("FindByEventID", mock.Anything, event.EventID).Return(event, nil)
	f.tables.On("FindByID", mock.Anything, 5).Return(table, nil)

	_, err := f.svc.Reserve(context.Background(), event.EventID, ReserveParams{
		TableID:       5,
		PurchaserName: "Ana",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestReservationTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current model.ReservationStatus
		confirm bool
		wantErr error
	}{
		{"pending confirms", model.ReservationStatusPending, true, nil},
		{"pending archives", model.ReservationStatusPending, false, nil},
		{"confirmed archives", model.ReservationStatusConfirmed, false, nil},
		{"confirmed cannot reconfirm", model.ReservationStatusConfirmed, true, apperrors.ErrInvalidStatus},
		{"archived is terminal", model.ReservationStatusArchived, true, apperrors.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReservationFixture()
			f.reservations.On("FindByID", mock.Anything, 1).
				Return(&model.Reservation{ID: 1, Status: tt.current}, nil)

			target := model.ReservationStatusArchived
			if tt.confirm {
				target = model.ReservationStatusConfirmed
			}
			if tt.wantErr == nil {
				f.reservations.On("UpdateStatus", mock.Anything, 1, tt.current, target).
					Return(&model.Reservation{ID: 1, Status: target}, nil)
			}

			var err error
			if tt.confirm {
				_, err = f.svc.Confirm(context.Background(), 1)
			} else {
				_, err = f.svc.Archive(context.Background(), 1)
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.reservations.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
