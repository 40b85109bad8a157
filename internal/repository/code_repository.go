package repository

import (
	"context"
	"ticket-backoffice/internal/model"
	apperrors "ticket-backoffice/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CodeRepository interface {
	Create(ctx context.Context, code *model.Code) (*model.Code, error)
	ListByEvent(ctx context.Context, eventID int) ([]*model.Code, error)
	FindByID(ctx context.Context, id int) (*model.Code, error)
	// FindByValueAndEvent is the resolver's primary lookup.
	FindByValueAndEvent(ctx context.Context, value string, eventID int) (*model.Code, error)
	// FindByValueElsewhere is the diagnostic cross-event lookup; it also
	// reports which event the match belongs to.
	FindByValueElsewhere(ctx context.Context, value string, excludeEventID int) (*model.Code, *model.OtherEvent, error)
	// ExistsGeneral checks a value against every general code, hand-typed
	// values being unique across events.
	ExistsGeneral(ctx context.Context, value string) (bool, error)
	// ExistsInEvent checks a value against all of one event's codes,
	// whatever their type, so the resolver never sees two matches.
	ExistsInEvent(ctx context.Context, value string, eventID int) (bool, error)
	// ConsumeUse is the single conditional increment behind confirm. Zero
	// rows affected means the cap was hit at commit time.
	ConsumeUse(ctx context.Context, id int) (*model.Code, error)

	// Transaction methods
	DeactivateByEventTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error)
}

type CodeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewCodeRepository(pool *pgxpool.Pool) CodeRepository {
	return &CodeRepositoryImpl{
		pool: pool,
	}
}

const codeColumns = `id, code, type, event_id, is_active, max_uses, uses, expires_at,
		promoter_id, batch_id, created_at, updated_at, deleted_at`

func scanCode(row pgx.Row, code *model.Code) error {
	return row.Scan(
		&code.ID,
		&code.Code,
		&code.Type,
		&code.EventID,
		&code.IsActive,
		&code.MaxUses,
		&code.Uses,
		&code.ExpiresAt,
		&code.PromoterID,
		&code.BatchID,
		&code.CreatedAt,
		&code.UpdatedAt,
		&code.DeletedAt,
	)
}

func (r *CodeRepositoryImpl) Create(ctx context.Context, code *model.Code) (*model.Code, error) {
	query := `
		INSERT INTO codes (code, type, event_id, is_active, max_uses, expires_at, promoter_id, batch_id)
		VALUES ($1, $2, $3, TRUE, $4, $5, $6, $7)
		RETURNING ` + codeColumns

	err := scanCode(r.pool.QueryRow(ctx, query,
		code.Code, code.Type, code.EventID,
		code.MaxUses, code.ExpiresAt, code.PromoterID, code.BatchID,
	), code)
	if err != nil {
		return nil, err
	}
	return code, nil
}

func (r *CodeRepositoryImpl) ListByEvent(ctx context.Context, eventID int) ([]*model.Code, error) {
	query := `
		SELECT ` + codeColumns + `
		FROM codes
		WHERE event_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make([]*model.Code, 0)
	for rows.Next() {
		var code model.Code
		if err := scanCode(rows, &code); err != nil {
			return nil, err
		}
		codes = append(codes, &code)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

func (r *CodeRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Code, error) {
	query := `
		SELECT ` + codeColumns + `
		FROM codes
		WHERE id = $1 AND deleted_at IS NULL
	`

	var code model.Code
	err := scanCode(r.pool.QueryRow(ctx, query, id), &code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCodeNotFound
		}
		return nil, err
	}

	return &code, nil
}

func (r *CodeRepositoryImpl) FindByValueAndEvent(ctx context.Context, value string, eventID int) (*model.Code, error) {
	query := `
		SELECT ` + codeColumns + `
		FROM codes
		WHERE code = $1 AND event_id = $2 AND deleted_at IS NULL
	`

	var code model.Code
	err := scanCode(r.pool.QueryRow(ctx, query, value, eventID), &code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCodeNotFound
		}
		return nil, err
	}

	return &code, nil
}

func (r *CodeRepositoryImpl) FindByValueElsewhere(ctx context.Context, value string, excludeEventID int) (*model.Code, *model.OtherEvent, error) {
	query := `
		SELECT ` + prefixColumns("c", codeColumns) + `, e.id, e.name
		FROM codes c
		JOIN events e ON e.id = c.event_id
		WHERE c.code = $1 AND c.event_id <> $2 AND c.deleted_at IS NULL AND e.deleted_at IS NULL
		ORDER BY c.created_at DESC
		LIMIT 1
	`

	var code model.Code
	var other model.OtherEvent
	err := r.pool.QueryRow(ctx, query, value, excludeEventID).Scan(
		&code.ID,
		&code.Code,
		&code.Type,
		&code.EventID,
		&code.IsActive,
		&code.MaxUses,
		&code.Uses,
		&code.ExpiresAt,
		&code.PromoterID,
		&code.BatchID,
		&code.CreatedAt,
		&code.UpdatedAt,
		&code.DeletedAt,
		&other.EventID,
		&other.Name,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.ErrCodeNotFound
		}
		return nil, nil, err
	}

	return &code, &other, nil
}

func (r *CodeRepositoryImpl) ExistsGeneral(ctx context.Context, value string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM codes
			WHERE code = $1 AND type = 'general' AND deleted_at IS NULL
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, value).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *CodeRepositoryImpl) ExistsInEvent(ctx context.Context, value string, eventID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM codes
			WHERE code = $1 AND event_id = $2 AND deleted_at IS NULL
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, value, eventID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// ConsumeUse increments uses by exactly one, conditional on the cap at
// commit time. Concurrent confirms serialize on the row, so uses can
// never pass max_uses no matter how the calls interleave.
func (r *CodeRepositoryImpl) ConsumeUse(ctx context.Context, id int) (*model.Code, error) {
	query := `
		UPDATE codes
		SET uses = uses + 1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL AND is_active
			AND (max_uses IS NULL OR uses < max_uses)
		RETURNING ` + codeColumns

	var code model.Code
	err := scanCode(r.pool.QueryRow(ctx, query, time.Now().UTC(), id), &code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCodeExhausted
		}
		return nil, err
	}

	return &code, nil
}

func (r *CodeRepositoryImpl) DeactivateByEventTx(ctx context.Context, tx pgx.Tx, eventID int) (int, error) {
	query := `
		UPDATE codes
		SET is_active = FALSE, updated_at = $1
		WHERE event_id = $2 AND is_active AND deleted_at IS NULL
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), eventID)
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}
