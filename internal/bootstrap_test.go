package internal

import (
	"bytes"
	"catalog-import-service/internal/configs"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileBackendConfig(t *testing.T) *configs.AppConfig {
	return &configs.AppConfig{
		AppName: "catalog-import-test",
		Catalog: configs.CatalogConfig{
			Backend:  configs.BackendFile,
			FilePath: filepath.Join(t.TempDir(), "data", "db.json"),
		},
		StdoutLogger: configs.StdoutLogConfig{Level: "error", IsJSON: true},
	}
}

func TestNewCore_FileBackendEndToEnd(t *testing.T) {
	cfg := fileBackendConfig(t)
	var logs bytes.Buffer
	logger, closeLogger, err := NewLogger(cfg, &logs)
	require.NoError(t, err)
	defer closeLogger()

	core, err := NewCore(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer core.Close()

	ctx := context.Background()
	report, err := core.ImportFeed.Execute(ctx, domain.ImportRequest{
		SourceID: "file-src",
		Target:   domain.TargetAll,
		Rows: []feedrow.Row{{
			"id":                  feedrow.Str("7"),
			"complex_external_id": feedrow.Str("zk"),
			"rooms":               feedrow.Str("1"),
			"price":               feedrow.Str("3 100 000"),
			"area":                feedrow.Str("31,5"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Listings.Inserted)
	assert.Equal(t, 1, report.Complexes.Inserted)

	stats, err := core.CatalogSummary.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Listings[domain.StatusActive])
	assert.Equal(t, 1, stats[0].Complexes[domain.StatusActive])

	require.NoError(t, core.PurgeCatalog.Execute(ctx))
	stats, err = core.CatalogSummary.Execute(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestNewCore_UnknownBackend(t *testing.T) {
	cfg := fileBackendConfig(t)
	cfg.Catalog.Backend = "mongo"
	logger, closeLogger, err := NewLogger(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	defer closeLogger()

	_, err = NewCore(context.Background(), cfg, logger)
	assert.ErrorContains(t, err, "unknown catalog backend")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}
