package repositories_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"parcel-routing-service/internal/adapters/repositories"
	"parcel-routing-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONItemSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	body := `[
		{"id": 1, "address": "195 W Oakland Ave", "city": "Salt Lake City", "state": "UT", "zip": "84115", "deadline": "10:30 AM", "weight": 21},
		{"id": 3, "address": "233 Canyon Rd", "deadline": "EOD", "weight": 2, "note": "Can only be on truck 2"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	records, err := repositories.JSONItemSource{Path: path}.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.ItemRecord{
		ID: 1, Address: "195 W Oakland Ave", City: "Salt Lake City", State: "UT",
		Zip: "84115", Deadline: "10:30 AM", Weight: 21,
	}, records[0])
	assert.Equal(t, "Can only be on truck 2", records[1].Note)
}

func TestJSONItemSourceErrors(t *testing.T) {
	_, err := repositories.JSONItemSource{Path: filepath.Join(t.TempDir(), "missing.json")}.ListItems(context.Background())
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id": 1}`), 0o644))
	_, err = repositories.LoadItemRecords(bad)
	require.ErrorContains(t, err, "parse json")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repositories.JSONItemSource{Path: bad}.ListItems(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
