// Package app wires configuration, storage, services and HTTP handlers
// into a running application.
package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/common"
	"github.com/ternarybob/videre/internal/handlers"
	"github.com/ternarybob/videre/internal/interfaces"
	"github.com/ternarybob/videre/internal/services/analyzer"
	"github.com/ternarybob/videre/internal/services/llm"
	"github.com/ternarybob/videre/internal/services/pdf"
	"github.com/ternarybob/videre/internal/services/reports"
	"github.com/ternarybob/videre/internal/services/stocks"
	"github.com/ternarybob/videre/internal/services/sweeper"
	"github.com/ternarybob/videre/internal/services/youtube"
	badgerstore "github.com/ternarybob/videre/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB      *badgerstore.BadgerDB
	Storage interfaces.AnalysisStorage

	// Services
	Provider       llm.Provider
	YouTubeService interfaces.YouTubeService
	StockService   interfaces.StockService
	ReportService  *reports.Service
	PDFService     interfaces.PDFService
	Analyzer       *analyzer.Service
	Sweeper        *sweeper.Sweeper

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	AnalyzeHandler  *handlers.AnalyzeHandler
	VideoHandler    *handlers.VideoHandler
	StockHandler    *handlers.StockHandler
	ExtractHandler  *handlers.ExtractHandler
	DownloadHandler *handlers.DownloadHandler
	LogHub          *handlers.LogHub
}

// New creates and wires the application
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	if err := a.initStorage(); err != nil {
		return nil, err
	}
	a.initServices()
	a.initHandlers()

	if err := a.Sweeper.Start(); err != nil {
		return nil, fmt.Errorf("failed to start cache sweeper: %w", err)
	}

	logger.Info().
		Str("badger_path", config.Storage.Badger.Path).
		Str("default_provider", string(config.LLM.DefaultProvider)).
		Msg("Application initialized")

	return a, nil
}

func (a *App) initStorage() error {
	db, err := badgerstore.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open badger database: %w", err)
	}
	a.DB = db
	a.Storage = badgerstore.NewAnalysisStorage(db, a.Logger)
	return nil
}

func (a *App) initServices() {
	a.Provider = llm.NewProviderFactory(
		&a.Config.Gemini,
		&a.Config.Claude,
		&a.Config.LLM,
		a.Logger,
	)
	a.YouTubeService = youtube.NewService(&a.Config.YouTube, a.Logger)
	a.StockService = stocks.NewService(&a.Config.Stocks, a.Logger)
	a.ReportService = reports.NewService(a.Logger)
	a.PDFService = pdf.NewService(a.Logger)
	a.Analyzer = analyzer.NewService(
		a.Provider,
		a.StockService,
		a.Storage,
		a.ReportService,
		&a.Config.Analysis,
		a.Logger,
	)
	a.Sweeper = sweeper.New(a.Storage, a.Config, a.Logger)
}

func (a *App) initHandlers() {
	a.LogHub = handlers.NewLogHub()
	a.APIHandler = handlers.NewAPIHandler()
	a.AnalyzeHandler = handlers.NewAnalyzeHandler(a.Analyzer, a.LogHub)
	a.VideoHandler = handlers.NewVideoHandler(a.YouTubeService)
	a.StockHandler = handlers.NewStockHandler(a.StockService)
	a.ExtractHandler = handlers.NewExtractHandler(a.Analyzer)
	a.DownloadHandler = handlers.NewDownloadHandler(a.Storage, a.ReportService, a.PDFService)
}

// Close releases application resources in reverse dependency order
func (a *App) Close() error {
	a.Logger.Info().Msg("Shutting down application")

	if a.Sweeper != nil {
		a.Sweeper.Stop()
	}
	if a.Provider != nil {
		if err := a.Provider.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Provider close failed")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close badger database: %w", err)
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
