// Package reconcile сверяет свежевычисленные записи с сохраненным каталогом:
// вставка новых, перезапись найденных, скрытие пропавших.
package reconcile

import (
	"catalog-import-service/internal/core/domain"
	"time"
)

// Entity - запись каталога, которую умеет сверять Run.
// Все методы возвращают новое значение и не меняют получателя.
type Entity[T any] interface {
	Key() domain.RecordKey
	CurrentStatus() domain.Status
	MergeFrom(candidate T) T
	HiddenAt(at time.Time) T
	WithID(id string) T
}

// Result - новая коллекция записей одного типа и счетчики прогона
type Result[T any] struct {
	Records  []T
	Inserted int
	Updated  int
	Hidden   int
}

// Run выполняет один прогон сверки для одного источника и одного типа сущностей.
//
// Найденная по внешнему ID запись заменяется результатом MergeFrom на своем месте.
// Новые записи получают ID из newID и добавляются в начало коллекции (каждая
// следующая - перед предыдущей). Активные записи источника, которых нет среди
// кандидатов, скрываются. Записи других источников и уже скрытые/архивные записи
// не меняются. Ничего не удаляется.
//
// Повторы внешнего ID среди кандидатов схлопываются: побеждает последний,
// позиция берется от первого. Внешние ID из keep считаются увиденными: такие
// записи не скрываются и не меняются.
func Run[T Entity[T]](stored []T, sourceID string, candidates []T, newID func() string, now time.Time, keep ...string) Result[T] {
	records := make([]T, len(stored))
	copy(records, stored)

	positions := make(map[string]int)
	for i, rec := range records {
		if k := rec.Key(); k.SourceID == sourceID {
			positions[k.ExternalID] = i
		}
	}

	var res Result[T]
	seen := make(map[string]struct{}, len(candidates)+len(keep))
	for _, externalID := range keep {
		seen[externalID] = struct{}{}
	}
	var inserted []T

	for _, candidate := range dedupe(candidates) {
		externalID := candidate.Key().ExternalID
		seen[externalID] = struct{}{}

		if pos, ok := positions[externalID]; ok {
			records[pos] = records[pos].MergeFrom(candidate)
			res.Updated++
			continue
		}
		inserted = append(inserted, candidate.WithID(newID()))
		res.Inserted++
	}

	for i, rec := range records {
		k := rec.Key()
		if k.SourceID != sourceID {
			continue
		}
		if _, ok := seen[k.ExternalID]; ok {
			continue
		}
		if rec.CurrentStatus() == domain.StatusActive {
			records[i] = rec.HiddenAt(now)
			res.Hidden++
		}
	}

	res.Records = make([]T, 0, len(inserted)+len(records))
	for i := len(inserted) - 1; i >= 0; i-- {
		res.Records = append(res.Records, inserted[i])
	}
	res.Records = append(res.Records, records...)
	return res
}

func dedupe[T Entity[T]](candidates []T) []T {
	index := make(map[string]int, len(candidates))
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		id := c.Key().ExternalID
		if pos, ok := index[id]; ok {
			out[pos] = c
			continue
		}
		index[id] = len(out)
		out = append(out, c)
	}
	return out
}
