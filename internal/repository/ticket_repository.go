package repository

import (
	"context"
	"ticket-backoffice/internal/model"
	apperrors "ticket-backoffice/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	ListByEvent(ctx context.Context, eventID int) ([]*model.Ticket, error)
	FindByID(ctx context.Context, id int) (*model.Ticket, error)
	// FindByTokenAndEvent is the resolver's QR path.
	FindByTokenAndEvent(ctx context.Context, token string, eventID int) (*model.Ticket, error)
	// FindByTokenElsewhere is the diagnostic cross-event lookup.
	FindByTokenElsewhere(ctx context.Context, token string, excludeEventID int) (*model.Ticket, *model.OtherEvent, error)
	// LatestByCode returns the most recently created ticket issued from a
	// code within the event, or nil when none exists.
	LatestByCode(ctx context.Context, codeID int, eventID int) (*model.Ticket, error)
	// MarkUsed is the single conditional flag flip behind confirm. Zero
	// rows affected means another confirm got there first.
	MarkUsed(ctx context.Context, id int, now time.Time) (*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

const ticketColumns = `id, qr_token, code_id, event_id, full_name, dni, email, phone,
		used, used_at, created_at`

func scanTicket(row pgx.Row, ticket *model.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.QRToken,
		&ticket.CodeID,
		&ticket.EventID,
		&ticket.FullName,
		&ticket.DNI,
		&ticket.Email,
		&ticket.Phone,
		&ticket.Used,
		&ticket.UsedAt,
		&ticket.CreatedAt,
	)
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (qr_token, code_id, event_id, full_name, dni, email, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + ticketColumns

	err := scanTicket(r.pool.QueryRow(ctx, query,
		ticket.QRToken, ticket.CodeID, ticket.EventID,
		ticket.FullName, ticket.DNI, ticket.Email, ticket.Phone,
	), ticket)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRepositoryImpl) ListByEvent(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE event_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		var ticket model.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`

	var ticket model.Ticket
	err := scanTicket(r.pool.QueryRow(ctx, query, id), &ticket)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) FindByTokenAndEvent(ctx context.Context, token string, eventID int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE qr_token = $1 AND event_id = $2
	`

	var ticket model.Ticket
	err := scanTicket(r.pool.QueryRow(ctx, query, token, eventID), &ticket)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) FindByTokenElsewhere(ctx context.Context, token string, excludeEventID int) (*model.Ticket, *model.OtherEvent, error) {
	query := `
		SELECT ` + prefixColumns("t", ticketColumns) + `, e.id, e.name
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.qr_token = $1 AND t.event_id <> $2 AND e.deleted_at IS NULL
		ORDER BY t.created_at DESC
		LIMIT 1
	`

	var ticket model.Ticket
	var other model.OtherEvent
	err := r.pool.QueryRow(ctx, query, token, excludeEventID).Scan(
		&ticket.ID,
		&ticket.QRToken,
		&ticket.CodeID,
		&ticket.EventID,
		&ticket.FullName,
		&ticket.DNI,
		&ticket.Email,
		&ticket.Phone,
		&ticket.Used,
		&ticket.UsedAt,
		&ticket.CreatedAt,
		&other.EventID,
		&other.Name,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.ErrTicketNotFound
		}
		return nil, nil, err
	}

	return &ticket, &other, nil
}

func (r *TicketRepositoryImpl) LatestByCode(ctx context.Context, codeID int, eventID int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE code_id = $1 AND event_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var ticket model.Ticket
	err := scanTicket(r.pool.QueryRow(ctx, query, codeID, eventID), &ticket)
	if err != nil {
		if err == pgx.ErrNoRows {
			// a code without tickets is the normal case
			return nil, nil
		}
		return nil, err
	}

	return &ticket, nil
}

// MarkUsed only succeeds on the false -> true transition; a concurrent
// second confirm observes zero rows and fails with ErrTicketUsed.
func (r *TicketRepositoryImpl) MarkUsed(ctx context.Context, id int, now time.Time) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET used = TRUE, used_at = $1
		WHERE id = $2 AND used = FALSE
		RETURNING ` + ticketColumns

	var ticket model.Ticket
	err := scanTicket(r.pool.QueryRow(ctx, query, now, id), &ticket)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketUsed
		}
		return nil, err
	}

	return &ticket, nil
}
