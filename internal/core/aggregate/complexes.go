// Package aggregate сворачивает строки лотов в сводные записи по комплексам.
package aggregate

import (
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"time"
)

// Slugifier строит URL-безопасный слаг из заголовка
type Slugifier interface {
	Slugify(title string) string
}

// ErrMissingGroupKey - текст ошибки строки, у которой нет ни ключа комплекса, ни собственного ID
const ErrMissingGroupKey = "missing complex_external_id and external_id"

type group struct {
	key          string
	minPrice     float64
	minArea      float64
	title        string
	images       orderedSet
	metro        orderedSet
	developer    string
	handoverDate string
	district     string
	description  string
	lat, lon     float64
	hasGeo       bool
}

// Complexes группирует строки по ключу комплекса (или по собственному ID строки,
// если ключа нет) и сворачивает каждую группу в один Complex. Группы идут в порядке
// первого появления ключа. Строки без какого-либо ID не попадают в группы и
// возвращаются как ошибки строк.
func Complexes(rows []feedrow.Row, sourceID string, mapping feedrow.Mapping, slugs Slugifier, now time.Time) ([]domain.Complex, []domain.RowError) {
	groups := make(map[string]*group)
	order := make([]string, 0)
	rowErrors := make([]domain.RowError, 0)

	for i, row := range rows {
		key := feedrow.ComplexExternalID.String(row, mapping)
		isChild := key != ""
		if !isChild {
			key = feedrow.ExternalID.String(row, mapping)
		}
		if key == "" {
			rowErrors = append(rowErrors, domain.RowError{RowIndex: i + 1, Error: ErrMissingGroupKey})
			continue
		}

		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
			order = append(order, key)
		}
		g.absorb(row, mapping, isChild)
	}

	result := make([]domain.Complex, 0, len(order))
	for _, key := range order {
		result = append(result, groups[key].complex(sourceID, slugs, now))
	}
	return result, rowErrors
}

func (g *group) absorb(row feedrow.Row, mapping feedrow.Mapping, isChild bool) {
	// цена/площадь уровня комплекса предпочтительнее цены/площади лота
	if price, ok := numberWithFallback(row, mapping, feedrow.PriceFrom, feedrow.Price); ok {
		g.minPrice = positiveMin(g.minPrice, price)
	}
	if area, ok := numberWithFallback(row, mapping, feedrow.AreaFrom, feedrow.AreaTotal); ok {
		g.minArea = positiveMin(g.minArea, area)
	}

	complexTitle := feedrow.ComplexTitle.String(row, mapping)
	rowTitle := feedrow.Title.String(row, mapping)
	switch {
	case complexTitle != "":
		g.title = complexTitle
	case g.title == "" && rowTitle != "" && !isChild:
		g.title = rowTitle
	case g.title == "":
		g.title = g.key
	}

	g.images.add(feedrow.Images.Strings(row, mapping)...)
	g.metro.add(feedrow.Metro.Strings(row, mapping)...)

	if v := feedrow.Developer.String(row, mapping); v != "" {
		g.developer = v
	}
	if v := feedrow.HandoverDate.String(row, mapping); v != "" {
		g.handoverDate = v
	}
	if v := feedrow.District.String(row, mapping); v != "" {
		g.district = v
	}
	if v := feedrow.Description.String(row, mapping); v != "" && g.description == "" {
		g.description = v
	}

	if !g.hasGeo {
		if lat, lon, ok := feedrow.Coordinates(row, mapping); ok && domain.ValidCoordinates(lat, lon) {
			g.lat, g.lon, g.hasGeo = lat, lon, true
		}
	}
}

func (g *group) complex(sourceID string, slugs Slugifier, now time.Time) domain.Complex {
	title := g.title
	if title == "" {
		title = g.key
	}

	cx := domain.Complex{
		SourceID:     sourceID,
		ExternalID:   g.key,
		Slug:         slugs.Slugify(title),
		Title:        title,
		Category:     domain.CategoryNewbuild,
		District:     g.district,
		Metro:        g.metro.items(),
		Images:       g.images.items(),
		Developer:    g.developer,
		HandoverDate: g.handoverDate,
		Description:  g.description,
		Status:       domain.StatusActive,
		LastSeenAt:   now,
		UpdatedAt:    now,
	}
	if g.minPrice > 0 {
		price := g.minPrice
		cx.PriceFrom = &price
	}
	if g.minArea > 0 {
		area := g.minArea
		cx.AreaFrom = &area
	}
	if g.hasGeo {
		lat, lon := g.lat, g.lon
		cx.GeoLat, cx.GeoLon = &lat, &lon
		cx.Geohash = domain.Geohash(lat, lon)
	}
	return cx
}

// numberWithFallback читает primary, а fallback - только если primary отсутствует или null
func numberWithFallback(row feedrow.Row, mapping feedrow.Mapping, primary, fallback feedrow.FieldSpec) (float64, bool) {
	v, ok := primary.Present(row, mapping)
	if !ok {
		v, ok = fallback.Present(row, mapping)
	}
	if !ok {
		return 0, false
	}
	return feedrow.Number(v)
}

// positiveMin учитывает только строго положительные значения; 0 в current означает "еще нет"
func positiveMin(current, candidate float64) float64 {
	if candidate <= 0 {
		return current
	}
	if current == 0 || candidate < current {
		return candidate
	}
	return current
}

type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func (s *orderedSet) add(values ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, v := range values {
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.order = append(s.order, v)
	}
}

func (s *orderedSet) items() []string {
	return append([]string{}, s.order...)
}
