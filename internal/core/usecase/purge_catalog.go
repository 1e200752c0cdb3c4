package usecase

import (
	"catalog-import-service/internal/contextkeys"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/port"
	"context"
	"fmt"
)

// PurgeCatalogUseCase очищает каталог целиком, сохраняя токен версии
type PurgeCatalogUseCase struct {
	store port.CatalogStorePort
}

func NewPurgeCatalogUseCase(store port.CatalogStorePort) *PurgeCatalogUseCase {
	return &PurgeCatalogUseCase{store: store}
}

func (uc *PurgeCatalogUseCase) Execute(ctx context.Context) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "PurgeCatalog"})

	catalog, err := uc.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("purge catalog: failed to load catalog: %w", err)
	}
	removedListings, removedComplexes := len(catalog.Listings), len(catalog.Complexes)

	empty := domain.NewCatalog()
	empty.Version = catalog.Version
	if err := uc.store.Save(ctx, empty); err != nil {
		return fmt.Errorf("purge catalog: failed to save catalog: %w", err)
	}

	logger.Info("Catalog purged", port.Fields{
		"removed_listings":  removedListings,
		"removed_complexes": removedComplexes,
	})
	return nil
}
