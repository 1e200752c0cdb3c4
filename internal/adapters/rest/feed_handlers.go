package rest

import (
	"catalog-import-service/internal/adapters/feeddecoder"
	"catalog-import-service/internal/contextkeys"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"catalog-import-service/internal/core/port"
	"catalog-import-service/internal/core/port/usecases_port"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	maxJSONBodyBytes   = 32 << 20
	maxUploadFileBytes = 64 << 20
)

type FeedHandlers struct {
	importFeedUC  usecases_port.ImportFeedUseCase
	previewFeedUC usecases_port.PreviewFeedUseCase
}

func NewFeedHandlers(importFeedUC usecases_port.ImportFeedUseCase, previewFeedUC usecases_port.PreviewFeedUseCase) *FeedHandlers {
	return &FeedHandlers{
		importFeedUC:  importFeedUC,
		previewFeedUC: previewFeedUC,
	}
}

// ImportRows - POST /api/v1/sources/{sourceID}/import, строки приходят в JSON
func (h *FeedHandlers) ImportRows(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "sourceID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "ImportRows",
		"source_id": sourceID,
	})

	dto, err := decodeImportBody(w, r)
	if err != nil {
		logger.Warn("Invalid import request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := buildRequest(sourceID, dto.Format, dto.Target, dto.Mapping, dto.Rows)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.runImport(w, r, logger, req)
}

// ImportFile - POST /api/v1/sources/{sourceID}/import/file, multipart с полем file
// и необязательными format, target, mapping (JSON-объект), kind (json|csv|xlsx|xml)
func (h *FeedHandlers) ImportFile(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "sourceID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":   "ImportFile",
		"source_id": sourceID,
	})

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadFileBytes)
	if err := r.ParseMultipartForm(maxUploadFileBytes); err != nil {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid multipart form: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Field 'file' is required")
		return
	}
	defer file.Close()

	kind := feeddecoder.Kind(strings.ToLower(r.FormValue("kind")))
	if kind == "" {
		kind, err = feeddecoder.KindFromFilename(header.Filename)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rows, err := feeddecoder.Decode(kind, file)
	if err != nil {
		logger.Warn("Failed to decode feed file", port.Fields{"error": err.Error(), "file_name": header.Filename})
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Failed to decode feed file: %v", err))
		return
	}

	var mapping map[string]string
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Field 'mapping' must be a JSON object of strings")
			return
		}
	}

	format := r.FormValue("format")
	if format == "" {
		format = string(kind.DefaultFeedFormat())
	}

	req, err := buildRequest(sourceID, format, r.FormValue("target"), mapping, rows)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.runImport(w, r, logger.WithFields(port.Fields{"file_name": header.Filename}), req)
}

// Preview - POST /api/v1/preview
func (h *FeedHandlers) Preview(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Preview"})

	dto, err := decodeImportBody(w, r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	target := dto.Target
	if target == "" {
		target = string(domain.TargetAll)
	}
	req, err := buildRequest(dto.SourceID, dto.Format, target, dto.Mapping, dto.Rows)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	preview, err := h.previewFeedUC.Execute(r.Context(), req)
	if err != nil {
		logger.Error("Preview failed", err, nil)
		WriteJSONError(w, statusFromError(err), err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, preview)
}

func (h *FeedHandlers) runImport(w http.ResponseWriter, r *http.Request, logger port.LoggerPort, req domain.ImportRequest) {
	report, err := h.importFeedUC.Execute(r.Context(), req)
	if err != nil {
		status := statusFromError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Import failed", err, nil)
		} else {
			logger.Warn("Import rejected", port.Fields{"error": err.Error(), "status_code": status})
		}
		WriteJSONError(w, status, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, report)
}

func decodeImportBody(w http.ResponseWriter, r *http.Request) (ImportRequestDTO, error) {
	var dto ImportRequestDTO
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		if errors.Is(err, io.EOF) {
			return dto, errors.New("request body is empty")
		}
		return dto, fmt.Errorf("invalid request body: %v", err)
	}
	return dto, nil
}

func buildRequest(sourceID, format, target string, mapping map[string]string, rows []feedrow.Row) (domain.ImportRequest, error) {
	feedFormat, err := domain.ParseFeedFormat(format)
	if err != nil {
		return domain.ImportRequest{}, err
	}
	importTarget, err := domain.ParseImportTarget(target)
	if err != nil {
		return domain.ImportRequest{}, err
	}
	if rows == nil {
		rows = []feedrow.Row{}
	}
	return domain.ImportRequest{
		SourceID: sourceID,
		Format:   feedFormat,
		Target:   importTarget,
		Mapping:  feedrow.Mapping(mapping),
		Rows:     rows,
	}, nil
}
