package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parcel-routing-service/internal/adapters/distance"
	"parcel-routing-service/internal/platform/obs"
)

// LoadDistanceMatrix reads the locations and distances tables into an
// in-memory matrix. Location indices must be contiguous from zero.
func LoadDistanceMatrix(ctx context.Context, db *sql.DB) (_ *distance.Matrix, err error) {
	defer obs.Time(ctx, "distance.LoadDistanceMatrix")(&err)

	if db == nil {
		return nil, errors.New("load distance matrix: db is nil")
	}

	locRows, err := db.QueryContext(ctx, `
	SELECT location_idx, address
	FROM locations
	ORDER BY location_idx;
	`)
	if err != nil {
		return nil, fmt.Errorf("load distance matrix: query locations table: %w", err)
	}
	defer locRows.Close()

	var addresses []string
	for locRows.Next() {
		var idx int
		var addr string
		if err := locRows.Scan(&idx, &addr); err != nil {
			return nil, fmt.Errorf("load distance matrix: scan location: %w", err)
		}
		if idx != len(addresses) {
			return nil, fmt.Errorf("load distance matrix: location index %d out of sequence, want %d", idx, len(addresses))
		}
		addresses = append(addresses, addr)
	}
	if err := locRows.Err(); err != nil {
		return nil, fmt.Errorf("load distance matrix: location iteration: %w", err)
	}

	rows := make([][]*float64, len(addresses))
	for i := range rows {
		rows[i] = make([]*float64, len(addresses))
	}

	distRows, err := db.QueryContext(ctx, `
	SELECT from_idx, to_idx, miles
	FROM distances;
	`)
	if err != nil {
		return nil, fmt.Errorf("load distance matrix: query distances table: %w", err)
	}
	defer distRows.Close()

	for distRows.Next() {
		var from, to int
		var miles float64
		if err := distRows.Scan(&from, &to, &miles); err != nil {
			return nil, fmt.Errorf("load distance matrix: scan distance: %w", err)
		}
		if from < 0 || from >= len(rows) || to < 0 || to >= len(rows) {
			return nil, fmt.Errorf("load distance matrix: distance %d -> %d outside %d locations", from, to, len(rows))
		}
		rows[from][to] = &miles
	}
	if err := distRows.Err(); err != nil {
		return nil, fmt.Errorf("load distance matrix: distance iteration: %w", err)
	}

	m, err := distance.NewMatrix(addresses, rows)
	if err != nil {
		return nil, fmt.Errorf("load distance matrix: %w", err)
	}
	return m, nil
}
