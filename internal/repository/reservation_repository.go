package repository

import (
	"context"
	"ticket-backoffice/internal/model"
	apperrors "ticket-backoffice/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error)
	ListByEvent(ctx context.Context, eventID int) ([]*model.Reservation, error)
	FindByID(ctx context.Context, id int) (*model.Reservation, error)
	// UpdateStatus is conditional on the expected current status so a
	// stale caller cannot skip the lifecycle.
	UpdateStatus(ctx context.Context, id int, from, to model.ReservationStatus) (*model.Reservation, error)

	// Transaction methods
	ArchiveByEventTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
}

type ReservationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &ReservationRepositoryImpl{
		pool: pool,
	}
}

const reservationColumns = `id, event_id, table_id, code_id, status, purchaser_name, purchaser_dni,
		price, created_at, updated_at, deleted_at`

func scanReservation(row pgx.Row, reservation *model.Reservation) error {
	return row.Scan(
		&reservation.ID,
		&reservation.EventID,
		&reservation.TableID,
		&reservation.CodeID,
		&reservation.Status,
		&reservation.PurchaserName,
		&reservation.PurchaserDNI,
		&reservation.Price,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
		&reservation.DeletedAt,
	)
}

func (r *ReservationRepositoryImpl) Create(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error) {
	query := `
		INSERT INTO reservations (event_id, table_id, code_id, status, purchaser_name, purchaser_dni, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + reservationColumns

	err := scanReservation(r.pool.QueryRow(ctx, query,
		reservation.EventID, reservation.TableID, reservation.CodeID,
		reservation.Status, reservation.PurchaserName, reservation.PurchaserDNI,
		reservation.Price,
	), reservation)
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (r *ReservationRepositoryImpl) ListByEvent(ctx context.Context, eventID int) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE event_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]*model.Reservation, 0)
	for rows.Next() {
		var reservation model.Reservation
		if err := scanReservation(rows, &reservation); err != nil {
			return nil, err
		}
		reservations = append(reservations, &reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *ReservationRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1 AND deleted_at IS NULL
	`

	var reservation model.Reservation
	err := scanReservation(r.pool.QueryRow(ctx, query, id), &reservation)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrReservationNotFound
		}
		return nil, err
	}

	return &reservation, nil
}

func (r *ReservationRepositoryImpl) UpdateStatus(ctx context.Context, id int, from, to model.ReservationStatus) (*model.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND deleted_at IS NULL
		RETURNING ` + reservationColumns

	var reservation model.Reservation
	err := scanReservation(r.pool.QueryRow(ctx, query, to, time.Now().UTC(), id, from), &reservation)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrInvalidStatus
		}
		return nil, err
	}

	return &reservation, nil
}

// ArchiveByEventTx tags every live, non-archived reservation as archived
// during event close.
func (r *ReservationRepositoryImpl) ArchiveByEventTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = $2
		WHERE event_id = $3 AND status <> $1 AND deleted_at IS NULL
	`

	result, err := tx.Exec(ctx, query, model.ReservationStatusArchived, time.Now().UTC(), eventID)
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}
