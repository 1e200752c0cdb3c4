package reconcile

import (
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// Slugifier строит URL-безопасный слаг из заголовка
type Slugifier interface {
	Slugify(title string) string
}

const (
	errMissingExternalID = "missing external_id"
	absentValue          = "<absent>"
)

var validate = validator.New()

// requiredListingFields - поля, без которых строка лота не попадает в каталог
type requiredListingFields struct {
	ExternalID string   `validate:"required"`
	Bedrooms   *float64 `validate:"required,gte=0"`
	Price      *float64 `validate:"required,gt=0"`
	Area       *float64 `validate:"required,gt=0"`
}

// ListingBuilder превращает строки фида в кандидатов-лоты одного источника
type ListingBuilder struct {
	SourceID string
	Mapping  feedrow.Mapping
	// Complexes - комплексы того же источника по внешнему ID, для проставления ссылки
	Complexes map[string]domain.Complex
	Slugs     Slugifier
	Now       time.Time
}

// Build проверяет строки по порядку. Невалидная строка пропускается и дает
// одну ошибку с номером строки (с 1). Внешние ID строк, отклоненных только из-за
// чисел, возвращаются в rejected: такие записи прогон не скрывает.
func (b ListingBuilder) Build(rows []feedrow.Row) (listings []domain.Listing, rowErrors []domain.RowError, rejected []string) {
	listings = make([]domain.Listing, 0, len(rows))
	rowErrors = make([]domain.RowError, 0)

	for i, row := range rows {
		listing, rowErr, invalidNumbers := b.buildRow(row)
		if rowErr != nil {
			rowErr.RowIndex = i + 1
			rowErrors = append(rowErrors, *rowErr)
			if invalidNumbers {
				rejected = append(rejected, rowErr.ExternalID)
			}
			continue
		}
		listings = append(listings, listing)
	}
	return listings, rowErrors, rejected
}

func (b ListingBuilder) buildRow(row feedrow.Row) (listing domain.Listing, rowErr *domain.RowError, invalidNumbers bool) {
	defer func() {
		if r := recover(); r != nil {
			rowErr = &domain.RowError{
				ExternalID: feedrow.ExternalID.String(row, b.Mapping),
				Error:      fmt.Sprintf("unexpected error: %v", r),
			}
			invalidNumbers = false
		}
	}()

	input := requiredListingFields{
		ExternalID: feedrow.ExternalID.String(row, b.Mapping),
		Bedrooms:   optionalNumber(feedrow.Bedrooms.Number(row, b.Mapping)),
		Price:      optionalNumber(feedrow.Price.Number(row, b.Mapping)),
		Area:       optionalNumber(feedrow.AreaTotal.Number(row, b.Mapping)),
	}
	if input.ExternalID == "" {
		return domain.Listing{}, &domain.RowError{Error: errMissingExternalID}, false
	}
	if err := validate.Struct(input); err != nil {
		return domain.Listing{}, &domain.RowError{
			ExternalID: input.ExternalID,
			Error: fmt.Sprintf("invalid data - bedrooms: %s, price: %s, area: %s",
				formatOptional(input.Bedrooms), formatOptional(input.Price), formatOptional(input.Area)),
		}, true
	}

	return b.listing(row, input), nil, false
}

func (b ListingBuilder) listing(row feedrow.Row, input requiredListingFields) domain.Listing {
	title := feedrow.Title.String(row, b.Mapping)
	if title == "" {
		title = input.ExternalID
	}
	dealType := domain.DealType(feedrow.DealTypeOf(lookup(row, feedrow.DealType, b.Mapping)))

	l := domain.Listing{
		SourceID:    b.SourceID,
		ExternalID:  input.ExternalID,
		Slug:        b.Slugs.Slugify(title),
		LotNumber:   feedrow.LotNumber.String(row, b.Mapping),
		DealType:    dealType,
		Category:    domain.Category(feedrow.CategoryOf(lookup(row, feedrow.Category, b.Mapping))),
		Title:       title,
		Bedrooms:    domain.RoundBedrooms(*input.Bedrooms),
		Price:       *input.Price,
		AreaTotal:   *input.Area,
		District:    feedrow.District.String(row, b.Mapping),
		Metro:       feedrow.Metro.Strings(row, b.Mapping),
		Images:      feedrow.Images.Strings(row, b.Mapping),
		Description: feedrow.Description.String(row, b.Mapping),
		Renovation:  feedrow.Renovation.String(row, b.Mapping),
		Floor:       optionalInt(feedrow.Floor.Number(row, b.Mapping)),
		FloorsTotal: optionalInt(feedrow.FloorsTotal.Number(row, b.Mapping)),
		Status:      domain.Status(feedrow.StatusOf(lookup(row, feedrow.Status, b.Mapping))),
		LastSeenAt:  b.Now,
		UpdatedAt:   b.Now,
	}
	if dealType == domain.DealRent {
		l.PricePeriod = domain.PricePeriodMonth
	}

	if complexExternal := feedrow.ComplexExternalID.String(row, b.Mapping); complexExternal != "" {
		l.ComplexExternalID = complexExternal
		if cx, ok := b.Complexes[complexExternal]; ok {
			l.ComplexID = cx.ID
		}
	}

	if lat, lon, ok := feedrow.Coordinates(row, b.Mapping); ok && domain.ValidCoordinates(lat, lon) {
		l.GeoLat, l.GeoLon = &lat, &lon
		l.Geohash = domain.Geohash(lat, lon)
	}
	return l
}

func lookup(row feedrow.Row, field feedrow.FieldSpec, mapping feedrow.Mapping) feedrow.Value {
	v, _ := field.Lookup(row, mapping)
	return v
}

func optionalNumber(n float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &n
}

func optionalInt(n float64, ok bool) *int {
	if !ok {
		return nil
	}
	i := int(math.Round(n))
	return &i
}

func formatOptional(n *float64) string {
	if n == nil {
		return absentValue
	}
	return feedrow.FormatNumber(*n)
}
