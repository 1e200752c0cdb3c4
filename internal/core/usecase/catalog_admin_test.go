package usecase

import (
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCatalogSummary(t *testing.T) {
	store := newMemStore()
	uc, _ := newImportUseCase(store, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, domain.ImportRequest{SourceID: "one", Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("a", 1), listingRow("b", 1)}})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, domain.ImportRequest{SourceID: "one", Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("a", 1)}})
	require.NoError(t, err)

	stats, err := NewGetCatalogSummaryUseCase(store).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "one", stats[0].SourceID)
	assert.Equal(t, 1, stats[0].Listings[domain.StatusActive])
	assert.Equal(t, 1, stats[0].Listings[domain.StatusHidden])
}

func TestPurgeCatalog(t *testing.T) {
	store := newMemStore()
	uc, _ := newImportUseCase(store, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, domain.ImportRequest{SourceID: "one", Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("a", 1)}})
	require.NoError(t, err)

	require.NoError(t, NewPurgeCatalogUseCase(store).Execute(ctx))
	assert.Empty(t, store.catalog.Listings)
	assert.Empty(t, store.catalog.Complexes)
	assert.Equal(t, int64(2), store.catalog.Version)
}

func TestPurgeCatalog_LoadError(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("boom")
	assert.ErrorContains(t, NewPurgeCatalogUseCase(store).Execute(context.Background()), "boom")
	assert.Equal(t, 0, store.saves)
}
