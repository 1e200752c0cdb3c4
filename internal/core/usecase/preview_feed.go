package usecase

import (
	"catalog-import-service/internal/core/aggregate"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"catalog-import-service/internal/core/port"
	"context"
	"strings"
	"time"
)

const (
	previewSourceID  = "preview"
	untitledFallback = "Без названия"
	districtFallback = "Не указан"
)

// PreviewFeedUseCase показывает, во что превратятся строки фида, ничего не записывая.
// В отличие от импорта строки не отбрасываются: пропущенные числа становятся нулями.
type PreviewFeedUseCase struct {
	normalizer port.RowNormalizerPort
	slugs      aggregate.Slugifier
	now        func() time.Time
}

func NewPreviewFeedUseCase(normalizer port.RowNormalizerPort, slugs aggregate.Slugifier) *PreviewFeedUseCase {
	return &PreviewFeedUseCase{normalizer: normalizer, slugs: slugs, now: time.Now}
}

func (uc *PreviewFeedUseCase) Execute(ctx context.Context, req domain.ImportRequest) (*domain.Preview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sourceID := strings.TrimSpace(req.SourceID)
	if sourceID == "" {
		sourceID = previewSourceID
	}
	rows := req.Rows
	if req.Format == domain.FormatYandex && uc.normalizer != nil {
		rows = make([]feedrow.Row, len(req.Rows))
		for i, row := range req.Rows {
			rows[i] = uc.normalizer.Normalize(row)
		}
	}
	now := uc.now().UTC()

	preview := &domain.Preview{
		SourceID:  sourceID,
		RowsTotal: len(rows),
		Listings:  []domain.Listing{},
		Complexes: []domain.Complex{},
		Errors:    []domain.RowError{},
	}

	if req.Target.IncludesComplexes() {
		complexes, rowErrors := aggregate.Complexes(rows, sourceID, req.Mapping, uc.slugs, now)
		for i := range complexes {
			complexes[i].ID = complexes[i].ExternalID
			if complexes[i].District == "" {
				complexes[i].District = districtFallback
			}
		}
		preview.Complexes = complexes
		preview.Errors = append(preview.Errors, rowErrors...)
	}

	if req.Target.IncludesListings() {
		for _, row := range rows {
			preview.Listings = append(preview.Listings, uc.previewListing(row, sourceID, req.Mapping, now))
		}
	}
	return preview, nil
}

func (uc *PreviewFeedUseCase) previewListing(row feedrow.Row, sourceID string, mapping feedrow.Mapping, now time.Time) domain.Listing {
	externalID := feedrow.ExternalID.String(row, mapping)
	title := feedrow.Title.String(row, mapping)
	if title == "" {
		title = externalID
	}
	if title == "" {
		title = untitledFallback
	}
	district := feedrow.District.String(row, mapping)
	if district == "" {
		district = districtFallback
	}
	bedrooms, _ := feedrow.Bedrooms.Number(row, mapping)
	price, _ := feedrow.Price.Number(row, mapping)
	area, _ := feedrow.AreaTotal.Number(row, mapping)

	l := domain.Listing{
		ID:                externalID,
		SourceID:          sourceID,
		ExternalID:        externalID,
		Slug:              uc.slugs.Slugify(title),
		LotNumber:         feedrow.LotNumber.String(row, mapping),
		ComplexExternalID: feedrow.ComplexExternalID.String(row, mapping),
		DealType:          domain.DealType(feedrow.DealTypeOf(value(row, feedrow.DealType, mapping))),
		Category:          domain.Category(feedrow.CategoryOf(value(row, feedrow.Category, mapping))),
		Title:             title,
		Bedrooms:          domain.RoundBedrooms(bedrooms),
		Price:             price,
		AreaTotal:         area,
		District:          district,
		Metro:             feedrow.Metro.Strings(row, mapping),
		Images:            feedrow.Images.Strings(row, mapping),
		Status:            domain.Status(feedrow.StatusOf(value(row, feedrow.Status, mapping))),
		LastSeenAt:        now,
		UpdatedAt:         now,
	}
	if l.DealType == domain.DealRent {
		l.PricePeriod = domain.PricePeriodMonth
	}
	return l
}

func value(row feedrow.Row, field feedrow.FieldSpec, mapping feedrow.Mapping) feedrow.Value {
	v, _ := field.Lookup(row, mapping)
	return v
}
