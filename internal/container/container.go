// Package container wires the application's dependency graph.
package container

import (
	"fmt"
	"net/http"

	"influencer-insights-go/internal/analyzer"
	"influencer-insights-go/internal/cache"
	"influencer-insights-go/internal/config"
	"influencer-insights-go/internal/logger"
	"influencer-insights-go/internal/repository"
	"influencer-insights-go/internal/scraper"
	"influencer-insights-go/internal/service"
	"influencer-insights-go/internal/storage"
	"influencer-insights-go/internal/transport"
)

// Container holds all application dependencies.
type Container struct {
	config            *config.Config
	repo              repository.InfluencerRepository
	mediaFetcher      storage.MediaFetcher
	engine            analyzer.ImageAnalyzer
	resultCache       cache.ResultCache
	scraperClient     scraper.Client
	workerPool        *service.WorkerPool
	influencerService service.InfluencerService
	analysisService   service.AnalysisService
	handler           http.Handler
}

// NewContainer builds the dependency graph from configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	repo, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var fetcher storage.MediaFetcher
	if cfg.AzureEnabled() {
		azureFetcher, err := storage.NewAzureMediaFetcher(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.MaxMediaBytes)
		if err != nil {
			return nil, fmt.Errorf("init azure fetcher: %w", err)
		}
		fetcher = azureFetcher
		logger.Info("Using Azure Blob media fetcher")
	} else {
		fetcher = storage.NewHTTPMediaFetcher(cfg.MediaFetchTimeout, cfg.MaxMediaBytes)
	}

	engine := analyzer.NewImageAnalyzer()

	var resultCache cache.ResultCache
	if cfg.CacheEnabled() {
		resultCache, err = cache.NewRedisCache(cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("init result cache: %w", err)
		}
		logger.WithField("addr", cfg.RedisAddr).Info("Analysis result cache enabled")
	}

	scraperClient := scraper.NewApifyClient(cfg.ApifyBaseURL, cfg.ApifyToken, cfg.ApifyTimeout)

	pool := service.NewWorkerPool(cfg.AnalysisWorkers)
	pool.Start()

	analysisOptions := analyzer.DefaultOptions().WithMaxDimension(cfg.AnalysisMaxDimension)
	analysisService := service.NewAnalysisService(repo, fetcher, engine, resultCache, pool, service.AnalysisConfig{
		Options:      analysisOptions,
		FetchTimeout: cfg.MediaFetchTimeout,
	})
	influencerService := service.NewInfluencerService(repo, scraperClient)

	handler := transport.NewHandler(influencerService, analysisService, fetcher, cfg)

	return &Container{
		config:            cfg,
		repo:              repo,
		mediaFetcher:      fetcher,
		engine:            engine,
		resultCache:       resultCache,
		scraperClient:     scraperClient,
		workerPool:        pool,
		influencerService: influencerService,
		analysisService:   analysisService,
		handler:           handler,
	}, nil
}

// Handler returns the HTTP handler.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases pooled resources. Safe to call once at shutdown.
func (c *Container) Close() {
	c.workerPool.Close()
	if c.resultCache != nil {
		if err := c.resultCache.Close(); err != nil {
			logger.WithError(err).Warn("Closing result cache failed")
		}
	}
}
