package usecase

import (
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/port"
	"context"
	"fmt"
)

type GetCatalogSummaryUseCase struct {
	store port.CatalogStorePort
}

func NewGetCatalogSummaryUseCase(store port.CatalogStorePort) *GetCatalogSummaryUseCase {
	return &GetCatalogSummaryUseCase{store: store}
}

func (uc *GetCatalogSummaryUseCase) Execute(ctx context.Context) ([]domain.SourceStats, error) {
	catalog, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog summary: failed to load catalog: %w", err)
	}
	return catalog.Summary(), nil
}
