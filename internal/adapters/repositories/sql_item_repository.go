package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/platform/obs"
)

// Postgres-backed implementation of the ItemRepository port.
type SQLItemRepository struct{ DB *sql.DB }

func NewSQLItemRepository(db *sql.DB) *SQLItemRepository {
	return &SQLItemRepository{DB: db}
}

// Return all item records ordered by id.
func (s *SQLItemRepository) ListItems(ctx context.Context) (_ []domain.ItemRecord, err error) {
	defer obs.Time(ctx, "items.ListItems")(&err)

	if s.DB == nil {
		return nil, errors.New("sql item repository: DB is nil")
	}

	query := `
	SELECT
		item_id,
		address,
		city,
		state,
		zip,
		deadline,
		weight,
		note
	FROM items
	ORDER BY item_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: query items table: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ItemRecord, 0, 64)
	for rows.Next() {
		var r domain.ItemRecord
		if err := rows.Scan(&r.ID, &r.Address, &r.City, &r.State, &r.Zip, &r.Deadline, &r.Weight, &r.Note); err != nil {
			return nil, fmt.Errorf("list items: scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: row iteration: %w", err)
	}

	return records, nil
}
