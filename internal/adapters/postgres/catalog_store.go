package postgres

import (
	"catalog-import-service/internal/contextkeys"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/port"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// catalogDocumentID - каталог хранится одной строкой таблицы
const catalogDocumentID = 1

const createCatalogTableSQL = `
	CREATE TABLE IF NOT EXISTS catalog_documents (
		id         SMALLINT PRIMARY KEY,
		version    BIGINT NOT NULL,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// DB - часть pgxpool.Pool, которая нужна хранилищу
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CatalogStore реализует port.CatalogStorePort поверх JSONB-документа.
// Запись условна по version, поэтому параллельный прогон не затрет чужие изменения.
type CatalogStore struct {
	db DB
}

func NewCatalogStore(db DB) (*CatalogStore, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres db cannot be nil")
	}
	return &CatalogStore{db: db}, nil
}

func (s *CatalogStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createCatalogTableSQL); err != nil {
		return fmt.Errorf("failed to create catalog_documents table: %w", err)
	}
	return nil
}

type catalogDocument struct {
	Listings  []domain.Listing `json:"listings"`
	Complexes []domain.Complex `json:"complexes"`
}

func (s *CatalogStore) Load(ctx context.Context) (*domain.Catalog, error) {
	var (
		version int64
		data    []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT version, data FROM catalog_documents WHERE id = $1`, catalogDocumentID,
	).Scan(&version, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		contextkeys.LoggerFromContext(ctx).Info("Catalog document not found, starting from empty catalog", nil)
		return domain.NewCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog document: %w", err)
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog document: %w", err)
	}

	catalog := domain.NewCatalog()
	catalog.Version = version
	if doc.Listings != nil {
		catalog.Listings = doc.Listings
	}
	if doc.Complexes != nil {
		catalog.Complexes = doc.Complexes
	}
	return catalog, nil
}

// Save заменяет listings и complexes в документе; остальные ключи jsonb сохраняются
func (s *CatalogStore) Save(ctx context.Context, catalog *domain.Catalog) error {
	payload, err := json.Marshal(catalogDocument{Listings: catalog.Listings, Complexes: catalog.Complexes})
	if err != nil {
		return fmt.Errorf("failed to encode catalog document: %w", err)
	}

	var tag pgconn.CommandTag
	if catalog.Version == 0 {
		tag, err = s.db.Exec(ctx, `
			INSERT INTO catalog_documents (id, version, data, updated_at)
			VALUES ($1, 1, $2::jsonb, now())
			ON CONFLICT (id) DO NOTHING`,
			catalogDocumentID, payload,
		)
	} else {
		tag, err = s.db.Exec(ctx, `
			UPDATE catalog_documents
			SET version = version + 1, data = data || $2::jsonb, updated_at = now()
			WHERE id = $1 AND version = $3`,
			catalogDocumentID, payload, catalog.Version,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to save catalog document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: snapshot version %d is stale", domain.ErrCatalogConflict, catalog.Version)
	}

	catalog.Version++
	contextkeys.LoggerFromContext(ctx).Debug("Catalog document saved", port.Fields{"version": catalog.Version})
	return nil
}
