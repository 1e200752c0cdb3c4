package rest

import (
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
)

// ImportRequestDTO - тело JSON-импорта и предпросмотра. SourceID читается только предпросмотром,
// для импорта источник берется из пути.
type ImportRequestDTO struct {
	SourceID string            `json:"source_id,omitempty"`
	Format   string            `json:"format"`
	Target   string            `json:"target"`
	Mapping  map[string]string `json:"mapping"`
	Rows     []feedrow.Row     `json:"rows"`
}

type CatalogSummaryResponse struct {
	Sources []domain.SourceStats `json:"sources"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
