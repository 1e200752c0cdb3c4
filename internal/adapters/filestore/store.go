// Package filestore хранит документ каталога в локальном JSON-файле.
package filestore

import (
	"catalog-import-service/internal/contextkeys"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/port"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store реализует port.CatalogStorePort. Ключи документа, о которых каталог
// не знает (например, лиды или настройки фидов), переживают запись без изменений.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("filestore: path cannot be empty")
	}
	return &Store{path: path}, nil
}

func (s *Store) Load(ctx context.Context) (*domain.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}

	catalog := domain.NewCatalog()
	if err := decodeKey(doc, "version", &catalog.Version); err != nil {
		return nil, err
	}
	if err := decodeKey(doc, "listings", &catalog.Listings); err != nil {
		return nil, err
	}
	if err := decodeKey(doc, "complexes", &catalog.Complexes); err != nil {
		return nil, err
	}
	if catalog.Listings == nil {
		catalog.Listings = []domain.Listing{}
	}
	if catalog.Complexes == nil {
		catalog.Complexes = []domain.Complex{}
	}

	contextkeys.LoggerFromContext(ctx).Debug("Catalog loaded from file", port.Fields{
		"path":      s.path,
		"version":   catalog.Version,
		"listings":  len(catalog.Listings),
		"complexes": len(catalog.Complexes),
	})
	return catalog, nil
}

// Save перезаписывает файл через временный файл и rename. Если версия файла
// уже не совпадает с версией загруженного снимка, возвращает domain.ErrCatalogConflict.
func (s *Store) Save(ctx context.Context, catalog *domain.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	var current int64
	if err := decodeKey(doc, "version", &current); err != nil {
		return err
	}
	if current != catalog.Version {
		return fmt.Errorf("%w: file version %d, snapshot version %d", domain.ErrCatalogConflict, current, catalog.Version)
	}

	next := catalog.Version + 1
	for key, value := range map[string]any{
		"version":   next,
		"listings":  catalog.Listings,
		"complexes": catalog.Complexes,
	} {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("filestore: failed to encode %s: %w", key, err)
		}
		doc[key] = raw
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: failed to encode catalog: %w", err)
	}
	if err := s.writeAtomic(data); err != nil {
		return err
	}
	catalog.Version = next

	contextkeys.LoggerFromContext(ctx).Debug("Catalog saved to file", port.Fields{"path": s.path, "version": next})
	return nil
}

// readDocument возвращает пустой документ, если файла еще нет
func (s *Store) readDocument() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: failed to read %s: %w", s.path, err)
	}

	doc := map[string]json.RawMessage{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("filestore: %s is not a json object: %w", s.path, err)
	}
	return doc, nil
}

func (s *Store) writeAtomic(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("filestore: failed to create data dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("filestore: failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("filestore: failed to replace %s: %w", s.path, err)
	}
	return nil
}

func decodeKey(doc map[string]json.RawMessage, key string, dst any) error {
	raw, ok := doc[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("filestore: invalid %q in catalog document: %w", key, err)
	}
	return nil
}
