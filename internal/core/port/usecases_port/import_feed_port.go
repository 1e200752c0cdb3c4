package usecases_port

import (
	"catalog-import-service/internal/core/domain"
	"context"
)

type ImportFeedUseCase interface {
	Execute(ctx context.Context, req domain.ImportRequest) (*domain.ImportReport, error)
}
