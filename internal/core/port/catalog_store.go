package port

import (
	"catalog-import-service/internal/core/domain"
	"context"
)

// CatalogStorePort - контракт "прочитать весь каталог / записать весь каталог".
// Save проверяет версию снимка: если с момента Load каталог уже перезаписан,
// возвращается domain.ErrCatalogConflict.
type CatalogStorePort interface {
	Load(ctx context.Context) (*domain.Catalog, error)
	Save(ctx context.Context, catalog *domain.Catalog) error
}

// SourceLockerPort сериализует прогоны импорта одного источника.
// release нужно вызвать ровно один раз.
type SourceLockerPort interface {
	Lock(ctx context.Context, sourceID string) (release func(), err error)
}
