package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"parcel-routing-service/internal/domain"
)

// JSONItemSource serves item records from a seed file. It lets the server
// run without a database.
type JSONItemSource struct {
	Path string
}

func (s JSONItemSource) ListItems(ctx context.Context) ([]domain.ItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadItemRecords(s.Path)
}

// Load raw item records from a JSON file.
func LoadItemRecords(path string) ([]domain.ItemRecord, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load items: read %q: %w", path, err)
	}

	var records []domain.ItemRecord
	if err := json.Unmarshal(bytes, &records); err != nil {
		return nil, fmt.Errorf("load items: parse json: %w", err)
	}
	return records, nil
}
