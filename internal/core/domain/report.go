package domain

import (
	"time"
)

// RowError - ошибка обработки одной строки фида. RowIndex начинается с 1.
type RowError struct {
	RowIndex   int    `json:"row_index"`
	ExternalID string `json:"external_id,omitempty"`
	Error      string `json:"error"`
}

// RunReport - результат одного прогона сверки для одного типа сущностей
type RunReport struct {
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Hidden   int        `json:"hidden"`
	Errors   []RowError `json:"errors"`
}

func NewRunReport() *RunReport {
	return &RunReport{Errors: []RowError{}}
}

// ImportReport объединяет отчеты по лотам и комплексам одного импорта
type ImportReport struct {
	SourceID   string       `json:"source_id"`
	Format     FeedFormat   `json:"format"`
	Target     ImportTarget `json:"target"`
	RowsTotal  int          `json:"rows_total"`
	Listings   *RunReport   `json:"listings,omitempty"`
	Complexes  *RunReport   `json:"complexes,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Preview - результат разбора фида без записи в каталог
type Preview struct {
	SourceID  string     `json:"source_id"`
	RowsTotal int        `json:"rows_total"`
	Listings  []Listing  `json:"listings"`
	Complexes []Complex  `json:"complexes"`
	Errors    []RowError `json:"errors"`
}
