package usecase

import (
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upperTitleNormalizer struct{ calls int }

func (n *upperTitleNormalizer) Normalize(row feedrow.Row) feedrow.Row {
	n.calls++
	out := feedrow.Row{}
	for k, v := range row {
		out[k] = v
	}
	out["title"] = feedrow.Str("normalized")
	return out
}

func listingRow(id string, price float64) feedrow.Row {
	return feedrow.Row{
		"external_id": feedrow.Str(id),
		"title":       feedrow.Str("Flat " + id),
		"bedrooms":    feedrow.Num(2),
		"price":       feedrow.Num(price),
		"area_total":  feedrow.Num(54.5),
	}
}

func newImportUseCase(store *memStore, reporter *fakeReporter) (*ImportFeedUseCase, *fakeLocker) {
	locker := &fakeLocker{}
	uc := NewImportFeedUseCase(store, locker, &upperTitleNormalizer{}, &seqIDs{}, nil)
	if reporter != nil {
		uc.reporter = reporter
	}
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return clock }
	return uc, locker
}

func TestImportFeed_InsertsThenIsIdempotent(t *testing.T) {
	store := newMemStore()
	uc, locker := newImportUseCase(store, nil)
	req := domain.ImportRequest{
		SourceID: "src",
		Target:   domain.TargetListings,
		Rows:     []feedrow.Row{listingRow("a", 100), listingRow("b", 200)},
	}

	report, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Listings.Inserted)
	assert.Nil(t, report.Complexes)
	assert.Equal(t, []string{"src"}, locker.locked)
	assert.Equal(t, 1, locker.released)

	first := store.catalog.Listings
	require.Len(t, first, 2)
	assert.Equal(t, "b", first[0].ExternalID)

	report, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Listings.Inserted)
	assert.Equal(t, 2, report.Listings.Updated)
	assert.Equal(t, 0, report.Listings.Hidden)

	second := store.catalog.Listings
	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].CreatedAt, second[i].CreatedAt)
	}
	assert.Equal(t, 2, store.saves)
}

func TestImportFeed_HidesDisappeared(t *testing.T) {
	store := newMemStore()
	uc, _ := newImportUseCase(store, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, domain.ImportRequest{SourceID: "src", Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("a", 100), listingRow("b", 200)}})
	require.NoError(t, err)

	report, err := uc.Execute(ctx, domain.ImportRequest{SourceID: "src", Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("a", 100)}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Listings.Hidden)

	report, err = uc.Execute(ctx, domain.ImportRequest{SourceID: "src", Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("a", 100)}})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Listings.Hidden)
}

func TestImportFeed_RowErrorsDoNotFailRun(t *testing.T) {
	store := newMemStore()
	uc, _ := newImportUseCase(store, nil)

	bad := listingRow("bad", 0)
	delete(bad, "price")
	report, err := uc.Execute(context.Background(), domain.ImportRequest{
		SourceID: "src",
		Target:   domain.TargetListings,
		Rows:     []feedrow.Row{listingRow("a", 100), bad},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Listings.Inserted)
	require.Len(t, report.Listings.Errors, 1)
	assert.Equal(t, 2, report.Listings.Errors[0].RowIndex)
	assert.Equal(t, "bad", report.Listings.Errors[0].ExternalID)
}

func TestImportFeed_ComplexesBeforeListings(t *testing.T) {
	store := newMemStore()
	uc, _ := newImportUseCase(store, nil)

	row := listingRow("lot-1", 5_000_000)
	row["complex_external_id"] = feedrow.Str("zk-1")
	row["complex_title"] = feedrow.Str("Sunrise")

	report, err := uc.Execute(context.Background(), domain.ImportRequest{
		SourceID: "src",
		Target:   domain.TargetAll,
		Rows:     []feedrow.Row{row},
	})
	require.NoError(t, err)
	require.NotNil(t, report.Complexes)
	assert.Equal(t, 1, report.Complexes.Inserted)
	assert.Equal(t, 1, report.Listings.Inserted)

	require.Len(t, store.catalog.Complexes, 1)
	require.Len(t, store.catalog.Listings, 1)
	assert.Equal(t, store.catalog.Complexes[0].ID, store.catalog.Listings[0].ComplexID)
	assert.Equal(t, 1, store.saves)
}

func TestImportFeed_NormalizesVendorRows(t *testing.T) {
	store := newMemStore()
	uc, _ := newImportUseCase(store, nil)
	normalizer := uc.normalizer.(*upperTitleNormalizer)

	_, err := uc.Execute(context.Background(), domain.ImportRequest{
		SourceID: "src", Format: domain.FormatGeneric, Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("a", 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, normalizer.calls)

	_, err = uc.Execute(context.Background(), domain.ImportRequest{
		SourceID: "src", Format: domain.FormatYandex, Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("a", 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, normalizer.calls)
	assert.Equal(t, "normalized", store.catalog.Listings[0].Title)
}

func TestImportFeed_StoreFailures(t *testing.T) {
	t.Run("empty source id", func(t *testing.T) {
		uc, _ := newImportUseCase(newMemStore(), nil)
		_, err := uc.Execute(context.Background(), domain.ImportRequest{SourceID: "  "})
		assert.ErrorIs(t, err, domain.ErrEmptySourceID)
	})

	t.Run("lock", func(t *testing.T) {
		store := newMemStore()
		uc, locker := newImportUseCase(store, nil)
		locker.err = domain.ErrSourceLocked
		_, err := uc.Execute(context.Background(), domain.ImportRequest{SourceID: "src", Target: domain.TargetListings})
		assert.ErrorIs(t, err, domain.ErrSourceLocked)
		assert.Equal(t, 0, store.loads)
	})

	t.Run("load", func(t *testing.T) {
		store := newMemStore()
		store.loadErr = errors.New("disk gone")
		uc, locker := newImportUseCase(store, nil)
		_, err := uc.Execute(context.Background(), domain.ImportRequest{SourceID: "src", Target: domain.TargetListings})
		assert.ErrorContains(t, err, "disk gone")
		assert.Equal(t, 1, locker.released)
	})

	t.Run("conflict", func(t *testing.T) {
		store := newMemStore()
		store.saveErr = domain.ErrCatalogConflict
		uc, _ := newImportUseCase(store, nil)
		report, err := uc.Execute(context.Background(), domain.ImportRequest{
			SourceID: "src", Target: domain.TargetListings, Rows: []feedrow.Row{listingRow("a", 1)},
		})
		assert.ErrorIs(t, err, domain.ErrCatalogConflict)
		assert.Nil(t, report)
	})
}

func TestImportFeed_ReporterFailureIsNotFatal(t *testing.T) {
	reporter := &fakeReporter{err: errors.New("broker down")}
	uc, _ := newImportUseCase(newMemStore(), reporter)

	report, err := uc.Execute(context.Background(), domain.ImportRequest{
		SourceID: "src", Target: domain.TargetListings, Rows: []feedrow.Row{listingRow("a", 1)},
	})
	require.NoError(t, err)
	require.Len(t, reporter.reports, 1)
	assert.Same(t, report, reporter.reports[0])
	assert.Equal(t, "src", report.SourceID)
	assert.Equal(t, 1, report.RowsTotal)
}

func TestImportFeed_OtherSourcesUntouched(t *testing.T) {
	store := newMemStore()
	uc, _ := newImportUseCase(store, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, domain.ImportRequest{SourceID: "one", Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("a", 1)}})
	require.NoError(t, err)

	report, err := uc.Execute(ctx, domain.ImportRequest{SourceID: "two", Target: domain.TargetListings})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Listings.Hidden)
	assert.Equal(t, domain.StatusActive, store.catalog.Listings[0].Status)
}

func TestImportFeed_EmptyTargetMeansListings(t *testing.T) {
	store := newMemStore()
	uc, _ := newImportUseCase(store, nil)

	report, err := uc.Execute(context.Background(), domain.ImportRequest{
		SourceID: "src",
		Rows:     []feedrow.Row{listingRow("a", 100)},
	})
	require.NoError(t, err)
	require.NotNil(t, report.Listings)
	assert.Nil(t, report.Complexes)
	assert.Equal(t, domain.TargetListings, report.Target)
	assert.Equal(t, 1, report.Listings.Inserted)
	assert.Len(t, store.catalog.Listings, 1)
}

func TestImportFeed_InvalidNumbersDoNotHide(t *testing.T) {
	store := newMemStore()
	uc, _ := newImportUseCase(store, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, domain.ImportRequest{SourceID: "src", Target: domain.TargetListings,
		Rows: []feedrow.Row{listingRow("p", 100)}})
	require.NoError(t, err)

	onRequest := listingRow("p", 0)
	onRequest["price"] = feedrow.Str("по запросу")
	report, err := uc.Execute(ctx, domain.ImportRequest{SourceID: "src", Target: domain.TargetListings,
		Rows: []feedrow.Row{onRequest}})
	require.NoError(t, err)
	assert.Len(t, report.Listings.Errors, 1)
	assert.Equal(t, 0, report.Listings.Hidden)
	assert.Equal(t, domain.StatusActive, store.catalog.Listings[0].Status)
	assert.Equal(t, 100.0, store.catalog.Listings[0].Price)
}
