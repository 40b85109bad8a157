package repository

import (
	"context"
	"fmt"
	"strings"
	"ticket-backoffice/internal/model"
	apperrors "ticket-backoffice/pkg/app_errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)

	// Transaction methods
	CloseTx(ctx context.Context, tx pgx.Tx, id int, closedBy int, reason *string) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, event_id, organizer_id, name, starts_at, entry_limit, capacity,
		is_active, closed_at, closed_by, close_reason, created_at, updated_at, deleted_at`

func scanEvent(row pgx.Row, event *model.Event) error {
	return row.Scan(
		&event.ID,
		&event.EventID,
		&event.OrganizerID,
		&event.Name,
		&event.StartsAt,
		&event.EntryLimit,
		&event.Capacity,
		&event.IsActive,
		&event.ClosedAt,
		&event.ClosedBy,
		&event.CloseReason,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.DeletedAt,
	)
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (event_id, organizer_id, name, starts_at, entry_limit, capacity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING ` + eventColumns

	err := scanEvent(r.pool.QueryRow(ctx, query,
		event.EventID, event.OrganizerID, event.Name,
		event.StartsAt, event.EntryLimit, event.Capacity,
	), event)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE deleted_at IS NULL
		ORDER BY starts_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		var event model.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND deleted_at IS NULL
	`

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, id), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE event_id = $1 AND deleted_at IS NULL
	`

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, eventID), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}

	if params.StartsAt != nil {
		sets = append(sets, fmt.Sprintf("starts_at = $%d", argPos))
		args = append(args, *params.StartsAt)
		argPos++
	}

	if params.EntryLimit != nil {
		sets = append(sets, fmt.Sprintf("entry_limit = $%d", argPos))
		args = append(args, *params.EntryLimit)
		argPos++
	}

	if params.Capacity != nil {
		sets = append(sets, fmt.Sprintf("capacity = $%d", argPos))
		args = append(args, *params.Capacity)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d AND deleted_at IS NULL AND closed_at IS NULL
		RETURNING `+eventColumns, strings.Join(sets, ", "), argPos)

	var event model.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, args...), &event)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &event, nil
}

// CloseTx flips the event into its terminal soft state. The WHERE guard
// makes a second close observe zero rows instead of re-closing.
func (r *EventRepositoryImpl) CloseTx(ctx context.Context, tx pgx.Tx, id int, closedBy int, reason *string) error {
	query := `
		UPDATE events
		SET is_active = FALSE, closed_at = $1, closed_by = $2, close_reason = $3, updated_at = $1
		WHERE id = $4 AND deleted_at IS NULL AND closed_at IS NULL
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), closedBy, reason, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventClosed
	}

	return nil
}
