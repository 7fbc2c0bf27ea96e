package commands

import (
	"fmt"

	"github.com/wonny/marcus/internal/analysis"
	"github.com/wonny/marcus/internal/contracts"
	"github.com/wonny/marcus/internal/external/fundamentus"
	"github.com/wonny/marcus/internal/external/yahoo"
	"github.com/wonny/marcus/internal/fetcher"
	"github.com/wonny/marcus/internal/indicators"
	"github.com/wonny/marcus/internal/strategy"
	"github.com/wonny/marcus/internal/universe"
	"github.com/wonny/marcus/pkg/config"
	"github.com/wonny/marcus/pkg/logger"
	"github.com/wonny/marcus/pkg/redis"
)

// app holds the wired dependencies shared by the commands
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	service *analysis.Service
	close   func()
}

// newApp loads config and wires provider -> fetcher -> analysis service
func newApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Redis (optional)
	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	limiter := redis.NewRateLimiter(rdb, "marcus")
	cache := redis.NewCache(rdb, "marcus")

	// 4. Universe
	u, err := universe.Load(cfg.UniverseFile)
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("load universe: %w", err)
	}

	// 5. Providers
	provider := yahoo.NewClient(newYahooHTTP(cfg, log, limiter), cfg.Yahoo.BaseURL, log)

	var enrichers []contracts.Enricher
	if cfg.Fundamentus.Enabled {
		enrichers = append(enrichers, fundamentus.NewClient(newFundamentusHTTP(cfg, log, limiter), cfg.Fundamentus.BaseURL, log))
	}

	// 6. Fetcher
	mode, err := indicators.ParseMomentumMode(cfg.MomentumMode)
	if err != nil {
		rdb.Close()
		return nil, err
	}
	f := fetcher.New(
		provider,
		indicators.NewCalculator(mode, log),
		fetcher.NewLimiter(cfg.Fetch),
		fetcher.PolicyFromConfig(cfg.Fetch),
		log,
	).WithEnrichers(enrichers...)
	if rdb.Enabled() {
		f = f.WithCache(cache, cfg.Redis.CacheTTL)
	}

	// 7. Analysis service
	svc := analysis.NewService(u, strategy.NewRegistry(), f, log)

	log.WithFields(map[string]interface{}{
		"env":         cfg.Env,
		"redis":       rdb.Enabled(),
		"fundamentus": cfg.Fundamentus.Enabled,
		"momentum":    mode,
	}).Debug("Application wired")

	return &app{
		cfg:     cfg,
		log:     log,
		service: svc,
		close:   func() { rdb.Close() },
	}, nil
}
