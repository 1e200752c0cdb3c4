package port

import "catalog-import-service/internal/core/feedrow"

// RowNormalizerPort приводит вложенную строку фида поставщика к общему плоскому виду
type RowNormalizerPort interface {
	Normalize(row feedrow.Row) feedrow.Row
}
