package usecase

import (
	"catalog-import-service/internal/contextkeys"
	"catalog-import-service/internal/core/aggregate"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"catalog-import-service/internal/core/port"
	"catalog-import-service/internal/core/reconcile"
	"context"
	"fmt"
	"strings"
	"time"
)

// ImportFeedUseCase сверяет пачку строк одного источника с каталогом:
// одна загрузка, прогон комплексов, прогон лотов, одна запись.
type ImportFeedUseCase struct {
	store      port.CatalogStorePort
	locker     port.SourceLockerPort
	normalizer port.RowNormalizerPort
	ids        port.IdentityGenerator
	reporter   port.ImportReporterPort
	now        func() time.Time
}

// NewImportFeedUseCase создает use case. reporter может быть nil.
func NewImportFeedUseCase(
	store port.CatalogStorePort,
	locker port.SourceLockerPort,
	normalizer port.RowNormalizerPort,
	ids port.IdentityGenerator,
	reporter port.ImportReporterPort,
) *ImportFeedUseCase {
	return &ImportFeedUseCase{
		store:      store,
		locker:     locker,
		normalizer: normalizer,
		ids:        ids,
		reporter:   reporter,
		now:        time.Now,
	}
}

func (uc *ImportFeedUseCase) Execute(ctx context.Context, req domain.ImportRequest) (*domain.ImportReport, error) {
	sourceID := strings.TrimSpace(req.SourceID)
	if sourceID == "" {
		return nil, domain.ErrEmptySourceID
	}
	if req.Target == "" {
		req.Target = domain.TargetListings
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "ImportFeed",
		"source_id": sourceID,
		"format":    string(req.Format),
		"target":    string(req.Target),
	})

	release, err := uc.locker.Lock(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("import feed: failed to lock source %s: %w", sourceID, err)
	}
	defer release()

	startedAt := uc.now().UTC()
	rows := uc.prepareRows(req)
	logger.Info("Import started", port.Fields{"rows_total": len(rows)})

	catalog, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("import feed: failed to load catalog: %w", err)
	}

	report := &domain.ImportReport{
		SourceID:  sourceID,
		Format:    req.Format,
		Target:    req.Target,
		RowsTotal: len(rows),
		StartedAt: startedAt,
	}

	// комплексы идут первыми, чтобы лоты ссылались на уже сохраненные ID
	if req.Target.IncludesComplexes() {
		candidates, rowErrors := aggregate.Complexes(rows, sourceID, req.Mapping, uc.ids, startedAt)
		result := reconcile.Run(catalog.Complexes, sourceID, candidates, uc.ids.NewID, startedAt)
		catalog.Complexes = result.Records
		report.Complexes = runReport(result.Inserted, result.Updated, result.Hidden, rowErrors)
	}

	if req.Target.IncludesListings() {
		builder := reconcile.ListingBuilder{
			SourceID:  sourceID,
			Mapping:   req.Mapping,
			Complexes: catalog.ComplexesBySource(sourceID),
			Slugs:     uc.ids,
			Now:       startedAt,
		}
		candidates, rowErrors, rejected := builder.Build(rows)
		result := reconcile.Run(catalog.Listings, sourceID, candidates, uc.ids.NewID, startedAt, rejected...)
		catalog.Listings = result.Records
		report.Listings = runReport(result.Inserted, result.Updated, result.Hidden, rowErrors)
	}

	if err := uc.store.Save(ctx, catalog); err != nil {
		return nil, fmt.Errorf("import feed: failed to save catalog: %w", err)
	}
	report.FinishedAt = uc.now().UTC()

	logger.Info("Import finished", summaryFields(report))

	if uc.reporter != nil {
		if err := uc.reporter.ReportImport(ctx, report); err != nil {
			logger.Warn("Failed to publish import report", port.Fields{"error": err.Error()})
		}
	}
	return report, nil
}

func (uc *ImportFeedUseCase) prepareRows(req domain.ImportRequest) []feedrow.Row {
	if req.Format != domain.FormatYandex || uc.normalizer == nil {
		return req.Rows
	}
	rows := make([]feedrow.Row, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = uc.normalizer.Normalize(row)
	}
	return rows
}

func runReport(inserted, updated, hidden int, rowErrors []domain.RowError) *domain.RunReport {
	r := domain.NewRunReport()
	r.Inserted, r.Updated, r.Hidden = inserted, updated, hidden
	if rowErrors != nil {
		r.Errors = rowErrors
	}
	return r
}

func summaryFields(report *domain.ImportReport) port.Fields {
	fields := port.Fields{"duration_ms": report.FinishedAt.Sub(report.StartedAt).Milliseconds()}
	if r := report.Listings; r != nil {
		fields["listings_inserted"] = r.Inserted
		fields["listings_updated"] = r.Updated
		fields["listings_hidden"] = r.Hidden
		fields["listings_errors"] = len(r.Errors)
	}
	if r := report.Complexes; r != nil {
		fields["complexes_inserted"] = r.Inserted
		fields["complexes_updated"] = r.Updated
		fields["complexes_hidden"] = r.Hidden
		fields["complexes_errors"] = len(r.Errors)
	}
	return fields
}
