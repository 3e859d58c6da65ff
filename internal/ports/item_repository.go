package ports

import (
	"context"
	"parcel-routing-service/internal/domain"
)

// Port: a boundary for retrieving raw item records from a data source.
type ItemRepository interface {
	// Retrieve all item records available for routing.
	ListItems(ctx context.Context) ([]domain.ItemRecord, error)
}
