package repository

import (
	"context"
	"ticket-backoffice/internal/model"
	apperrors "ticket-backoffice/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TableRepository interface {
	Create(ctx context.Context, table *model.VenueTable) (*model.VenueTable, error)
	ListByEvent(ctx context.Context, eventID int) ([]*model.VenueTable, error)
	FindByID(ctx context.Context, id int) (*model.VenueTable, error)
}

type TableRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTableRepository(pool *pgxpool.Pool) TableRepository {
	return &TableRepositoryImpl{
		pool: pool,
	}
}

const tableColumns = `id, event_id, name, capacity, price, created_at, updated_at, deleted_at`

func scanTable(row pgx.Row, table *model.VenueTable) error {
	return row.Scan(
		&table.ID,
		&table.EventID,
		&table.Name,
		&table.Capacity,
		&table.Price,
		&table.CreatedAt,
		&table.UpdatedAt,
		&table.DeletedAt,
	)
}

func (r *TableRepositoryImpl) Create(ctx context.Context, table *model.VenueTable) (*model.VenueTable, error) {
	query := `
		INSERT INTO tables (event_id, name, capacity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + tableColumns

	err := scanTable(r.pool.QueryRow(ctx, query,
		table.EventID, table.Name, table.Capacity, table.Price,
	), table)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (r *TableRepositoryImpl) ListByEvent(ctx context.Context, eventID int) ([]*model.VenueTable, error) {
	query := `
		SELECT ` + tableColumns + `
		FROM tables
		WHERE event_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]*model.VenueTable, 0)
	for rows.Next() {
		var table model.VenueTable
		if err := scanTable(rows, &table); err != nil {
			return nil, err
		}
		tables = append(tables, &table)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

func (r *TableRepositoryImpl) FindByID(ctx context.Context, id int) (*model.VenueTable, error) {
	query := `
		SELECT ` + tableColumns + `
		FROM tables
		WHERE id = $1 AND deleted_at IS NULL
	`

	var table model.VenueTable
	err := scanTable(r.pool.QueryRow(ctx, query, id), &table)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTableNotFound
		}
		return nil, err
	}

	return &table, nil
}
