package usecases_port

import (
	"catalog-import-service/internal/core/domain"
	"context"
)

type PreviewFeedUseCase interface {
	Execute(ctx context.Context, req domain.ImportRequest) (*domain.Preview, error)
}
