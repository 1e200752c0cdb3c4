package port

import (
	"catalog-import-service/internal/core/domain"
	"context"
)

// ImportReporterPort публикует итог прогона импорта во внешнюю систему
type ImportReporterPort interface {
	ReportImport(ctx context.Context, report *domain.ImportReport) error
}
