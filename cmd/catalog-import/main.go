// Команда catalog-import выполняет один прогон импорта локального файла фида
// в хранилище каталога из конфигурации и печатает отчет в JSON.
package main

import (
	"catalog-import-service/internal"
	"catalog-import-service/internal/adapters/feeddecoder"
	"catalog-import-service/internal/configs"
	"catalog-import-service/internal/contextkeys"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/feedrow"
	"catalog-import-service/internal/core/port"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

func main() {
	sourceID := flag.String("source", "", "Required: source id")
	filePath := flag.String("file", "", "Required: feed file (.json, .csv, .xlsx, .xml)")
	format := flag.String("format", "", "Row schema: generic or yandex (default by file type)")
	target := flag.String("target", "listings", "What to build: listings, complexes or all")
	mappingJSON := flag.String("mapping", "", `Field mapping as JSON, e.g. {"price":"cost"}`)
	preview := flag.Bool("preview", false, "Only show mapped rows, do not write the catalog")
	envFile := flag.String("env", "", "Optional .env file")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" || (!*preview && strings.TrimSpace(*sourceID) == "") {
		fmt.Fprintln(os.Stderr, "--file and --source are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*sourceID, *filePath, *format, *target, *mappingJSON, *preview, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(sourceID, filePath, format, target, mappingJSON string, preview bool, envFile string) error {
	var envPaths []string
	if envFile != "" {
		envPaths = append(envPaths, envFile)
	}
	cfg, err := configs.LoadConfig(envPaths...)
	if err != nil {
		return err
	}

	kind, err := feeddecoder.KindFromFilename(filePath)
	if err != nil {
		return err
	}
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()

	rows, err := feeddecoder.Decode(kind, f)
	if err != nil {
		return fmt.Errorf("failed to decode feed file: %w", err)
	}

	var mapping feedrow.Mapping
	if mappingJSON != "" {
		if err := json.Unmarshal([]byte(mappingJSON), &mapping); err != nil {
			return fmt.Errorf("invalid --mapping: %w", err)
		}
	}
	if format == "" {
		format = string(kind.DefaultFeedFormat())
	}
	feedFormat, err := domain.ParseFeedFormat(format)
	if err != nil {
		return err
	}
	importTarget, err := domain.ParseImportTarget(target)
	if err != nil {
		return err
	}
	req := domain.ImportRequest{
		SourceID: sourceID,
		Format:   feedFormat,
		Target:   importTarget,
		Mapping:  mapping,
		Rows:     rows,
	}

	logger, closeLogger, err := internal.NewLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = contextkeys.ContextWithTraceID(ctx, uuid.NewString())
	ctx = contextkeys.ContextWithLogger(ctx, logger.WithFields(port.Fields{"trace_id": contextkeys.TraceIDFromContext(ctx)}))

	core, err := internal.NewCore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer core.Close()

	var result any
	if preview {
		result, err = core.PreviewFeed.Execute(ctx, req)
	} else {
		result, err = core.ImportFeed.Execute(ctx, req)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
