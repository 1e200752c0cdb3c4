package filestore

import (
	"catalog-import-service/internal/core/domain"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MissingFileIsEmptyCatalog(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "data", "db.json"))
	require.NoError(t, err)

	catalog, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, catalog.Version)
	assert.NotNil(t, catalog.Listings)
	assert.Empty(t, catalog.Complexes)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore(filepath.Join(t.TempDir(), "db.json"))

	catalog, err := store.Load(ctx)
	require.NoError(t, err)
	catalog.Listings = append(catalog.Listings, domain.Listing{
		ID: "1", SourceID: "s", ExternalID: "a", Price: 10, Status: domain.StatusActive,
		Metro: []string{"Сокол"}, Images: []string{}, UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, store.Save(ctx, catalog))
	assert.EqualValues(t, 1, catalog.Version)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloaded.Version)
	require.Len(t, reloaded.Listings, 1)
	assert.Equal(t, catalog.Listings[0], reloaded.Listings[0])
}

func TestStore_StaleSnapshotConflicts(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore(filepath.Join(t.TempDir(), "db.json"))

	first, _ := store.Load(ctx)
	second, _ := store.Load(ctx)

	require.NoError(t, store.Save(ctx, first))
	err := store.Save(ctx, second)
	assert.ErrorIs(t, err, domain.ErrCatalogConflict)
}

func TestStore_PreservesForeignKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"leads":[{"name":"x"}],"listings":[],"complexes":[]}`), 0o644))

	store, _ := NewStore(path)
	catalog, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, catalog))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, `[{"name":"x"}]`, string(doc["leads"]))
	assert.JSONEq(t, `1`, string(doc["version"]))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1,2]`), 0o644))

	store, _ := NewStore(path)
	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
