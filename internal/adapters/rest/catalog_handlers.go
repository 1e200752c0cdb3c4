package rest

import (
	"catalog-import-service/internal/contextkeys"
	"catalog-import-service/internal/core/port"
	"catalog-import-service/internal/core/port/usecases_port"
	"net/http"
)

type CatalogHandlers struct {
	getSummaryUC   usecases_port.GetCatalogSummaryUseCase
	purgeCatalogUC usecases_port.PurgeCatalogUseCase
}

func NewCatalogHandlers(getSummaryUC usecases_port.GetCatalogSummaryUseCase, purgeCatalogUC usecases_port.PurgeCatalogUseCase) *CatalogHandlers {
	return &CatalogHandlers{
		getSummaryUC:   getSummaryUC,
		purgeCatalogUC: purgeCatalogUC,
	}
}

// GetSummary - GET /api/v1/catalog/summary
func (h *CatalogHandlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.getSummaryUC.Execute(r.Context())
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Failed to build catalog summary", err, nil)
		WriteJSONError(w, statusFromError(err), "Failed to build catalog summary")
		return
	}
	RespondWithJSON(w, http.StatusOK, CatalogSummaryResponse{Sources: stats})
}

// Purge - DELETE /api/v1/catalog
func (h *CatalogHandlers) Purge(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Purge"})

	if err := h.purgeCatalogUC.Execute(r.Context()); err != nil {
		logger.Error("Failed to purge catalog", err, nil)
		WriteJSONError(w, statusFromError(err), err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, StatusResponse{Status: "purged"})
}
