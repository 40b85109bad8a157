package repository

import (
	"context"
	"ticket-backoffice/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ScanLogRepository is append-only by contract: no update or delete
// methods exist on purpose.
type ScanLogRepository interface {
	Append(ctx context.Context, log *model.ScanLog) (*model.ScanLog, error)
	ListByEvent(ctx context.Context, eventID int) ([]*model.ScanLog, error)
	CountsByEvent(ctx context.Context, eventID int) (map[model.ScanResult]int, error)
	CountUniqueAdmitted(ctx context.Context, eventID int) (int, error)
}

type ScanLogRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewScanLogRepository(pool *pgxpool.Pool) ScanLogRepository {
	return &ScanLogRepositoryImpl{
		pool: pool,
	}
}

func (r *ScanLogRepositoryImpl) Append(ctx context.Context, log *model.ScanLog) (*model.ScanLog, error) {
	query := `
		INSERT INTO scan_logs (event_id, code_id, ticket_id, raw_value, result, scanned_by_staff_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		log.EventID, log.CodeID, log.TicketID,
		log.RawValue, log.Result, log.ScannedBy,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (r *ScanLogRepositoryImpl) ListByEvent(ctx context.Context, eventID int) ([]*model.ScanLog, error) {
	query := `
		SELECT id, event_id, code_id, ticket_id, raw_value, result, scanned_by_staff_id, created_at
		FROM scan_logs
		WHERE event_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*model.ScanLog, 0)
	for rows.Next() {
		var log model.ScanLog
		err := rows.Scan(
			&log.ID,
			&log.EventID,
			&log.CodeID,
			&log.TicketID,
			&log.RawValue,
			&log.Result,
			&log.ScannedBy,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *ScanLogRepositoryImpl) CountsByEvent(ctx context.Context, eventID int) (map[model.ScanResult]int, error) {
	query := `
		SELECT result, COUNT(*)
		FROM scan_logs
		WHERE event_id = $1
		GROUP BY result
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.ScanResult]int)
	for rows.Next() {
		var result model.ScanResult
		var count int
		if err := rows.Scan(&result, &count); err != nil {
			return nil, err
		}
		counts[result] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *ScanLogRepositoryImpl) CountUniqueAdmitted(ctx context.Context, eventID int) (int, error) {
	// distinct tickets plus distinct ticketless codes that produced at
	// least one valid scan
	query := `
		SELECT COUNT(DISTINCT ticket_id) + COUNT(DISTINCT code_id) FILTER (WHERE ticket_id IS NULL)
		FROM scan_logs
		WHERE event_id = $1 AND result = 'valid'
	`

	var count int
	err := r.pool.QueryRow(ctx, query, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
