package internal

import (
	"catalog-import-service/internal/adapters/rest"
	"catalog-import-service/internal/configs"
	"catalog-import-service/internal/core/port"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 15 * time.Second

// App – HTTP-сервис импорта
type App struct {
	config      *configs.AppConfig
	core        *Core
	apiServer   *rest.Server
	logger      port.LoggerPort
	closeLogger func()
}

// NewApp - composition root сервиса
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	baseLogger, closeLogger, err := NewLogger(appConfig, os.Stdout)
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	core, err := NewCore(context.Background(), appConfig, baseLogger)
	if err != nil {
		appLogger.Error("Failed to initialize core", err, nil)
		closeLogger()
		return nil, err
	}

	feedHandlers := rest.NewFeedHandlers(core.ImportFeed, core.PreviewFeed)
	catalogHandlers := rest.NewCatalogHandlers(core.CatalogSummary, core.PurgeCatalog)
	apiServer := rest.NewServer(appConfig.Rest.PORT, feedHandlers, catalogHandlers, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return &App{
		config:      appConfig,
		core:        core,
		apiServer:   apiServer,
		logger:      appLogger,
		closeLogger: closeLogger,
	}, nil
}

// Run запускает HTTP-сервер и ждет сигнала или ошибки сервера
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}

		a.core.Close()
		a.logger.Info("Application shut down gracefully.", nil)
		a.closeLogger()
	}()

	errorsCh := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", port.Fields{"port": a.config.Rest.PORT})
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
		return err
	}
}
