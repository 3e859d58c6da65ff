package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parcel-routing-service/internal/adapters/distance"
	"parcel-routing-service/internal/domain"
	"strings"
)

// Initialize the Postgres schema for items and the distance matrix.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createItemsQuery := `
	CREATE TABLE IF NOT EXISTS items (
		item_id INTEGER PRIMARY KEY,
		address TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zip TEXT NOT NULL DEFAULT '',
		deadline TEXT NOT NULL,
		weight INTEGER NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT ''
	);
	`

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		location_idx INTEGER PRIMARY KEY,
		address TEXT NOT NULL UNIQUE
	);
	`

	createDistancesQuery := `
	CREATE TABLE IF NOT EXISTS distances (
		from_idx INTEGER NOT NULL REFERENCES locations(location_idx),
		to_idx INTEGER NOT NULL REFERENCES locations(location_idx),
		miles DOUBLE PRECISION NOT NULL CHECK (miles >= 0),
		PRIMARY KEY (from_idx, to_idx)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distances_to_from
	ON distances(to_idx, from_idx);
	`

	statements := []string{
		createItemsQuery,
		createLocationsQuery,
		createDistancesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the items table from raw records, replacing rows with the same id.
func SeedItems(ctx context.Context, db *sql.DB, records []domain.ItemRecord) error {
	for i, r := range records {
		if r.ID <= 0 {
			return fmt.Errorf("seed items: invalid item id at index %d: %d", i+1, r.ID)
		}
		if strings.TrimSpace(r.Address) == "" {
			return fmt.Errorf("seed items: item %d: address cannot be empty", r.ID)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed items: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO items (item_id, address, city, state, zip, deadline, weight, note)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (item_id) DO UPDATE
	SET address = EXCLUDED.address,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		zip = EXCLUDED.zip,
		deadline = EXCLUDED.deadline,
		weight = EXCLUDED.weight,
		note = EXCLUDED.note;
	`)
	if err != nil {
		return fmt.Errorf("seed items: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, strings.TrimSpace(r.Address), r.City, r.State, r.Zip, r.Deadline, r.Weight, r.Note); err != nil {
			return fmt.Errorf("seed items: insert item_id=%d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed items: commit tx: %w", err)
	}

	return nil
}

// Populate locations and distances from a matrix seed. Absent cells are skipped.
func SeedMatrix(ctx context.Context, db *sql.DB, seed distance.MatrixSeed) error {
	// Reject malformed seeds before touching the database.
	if _, err := distance.NewMatrix(seed.Locations, seed.Distances); err != nil {
		return fmt.Errorf("seed matrix: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed matrix: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	locStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO locations (location_idx, address)
	VALUES ($1, $2)
	ON CONFLICT (location_idx) DO UPDATE
	SET address = EXCLUDED.address;
	`)
	if err != nil {
		return fmt.Errorf("seed matrix: prepare locations: %w", err)
	}
	defer locStmt.Close()

	for i, addr := range seed.Locations {
		if _, err := locStmt.ExecContext(ctx, i, strings.TrimSpace(addr)); err != nil {
			return fmt.Errorf("seed matrix: insert location %d: %w", i, err)
		}
	}

	distStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO distances (from_idx, to_idx, miles)
	VALUES ($1, $2, $3)
	ON CONFLICT (from_idx, to_idx) DO UPDATE
	SET miles = EXCLUDED.miles;
	`)
	if err != nil {
		return fmt.Errorf("seed matrix: prepare distances: %w", err)
	}
	defer distStmt.Close()

	for i, row := range seed.Distances {
		for j, cell := range row {
			if cell == nil {
				continue
			}
			if _, err := distStmt.ExecContext(ctx, i, j, *cell); err != nil {
				return fmt.Errorf("seed matrix: insert distance %d -> %d: %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed matrix: commit tx: %w", err)
	}

	return nil
}
