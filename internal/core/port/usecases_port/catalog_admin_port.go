package usecases_port

import (
	"catalog-import-service/internal/core/domain"
	"context"
)

type PurgeCatalogUseCase interface {
	Execute(ctx context.Context) error
}

type GetCatalogSummaryUseCase interface {
	Execute(ctx context.Context) ([]domain.SourceStats, error)
}
