package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bes-dev/youtube-caption-finder/internal/config"
	channelRepo "github.com/bes-dev/youtube-caption-finder/internal/repository/channel"
	"github.com/bes-dev/youtube-caption-finder/internal/repository/video"
	"github.com/bes-dev/youtube-caption-finder/internal/service/channel"
	"github.com/bes-dev/youtube-caption-finder/internal/service/common"
	"github.com/bes-dev/youtube-caption-finder/internal/service/search"
	"github.com/bes-dev/youtube-caption-finder/internal/service/youtube"
)

// ServiceFactory creates service instances from the loaded configuration.
// The search engine and the channel resolver share one HTTP client.
type ServiceFactory struct {
	cfg    *config.Config
	client common.HTTPClient
}

// NewServiceFactory loads configuration and creates the shared HTTP client
func NewServiceFactory() (*ServiceFactory, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := common.NewHTTPClient(cfg.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &ServiceFactory{cfg: cfg, client: client}, nil
}

// Engine creates the caption search engine
func (f *ServiceFactory) Engine() (*search.Engine, error) {
	engineConfig, err := f.cfg.EngineConfig(&log.Logger)
	if err != nil {
		return nil, err
	}
	return search.NewEngine(f.client, engineConfig)
}

// Resolver creates the channel resolver
func (f *ServiceFactory) Resolver() (*channel.Resolver, error) {
	return channel.NewResolver(f.client, f.cfg.ResolverConfig(&log.Logger))
}

// CreateArchiveService creates the archive service with database-backed repositories.
// The returned cleanup function closes the database pool.
func (f *ServiceFactory) CreateArchiveService(ctx context.Context) (youtube.YouTubeService, func(), error) {
	engine, err := f.Engine()
	if err != nil {
		return nil, nil, err
	}
	resolver, err := f.Resolver()
	if err != nil {
		return nil, nil, err
	}

	dbPool, err := config.NewDatabasePool(ctx, f.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	service := youtube.NewYouTubeService(
		engine,
		resolver,
		channelRepo.NewRepository(dbPool),
		video.NewRepository(dbPool),
	)

	cleanup := func() {
		config.CloseDatabasePool(dbPool)
	}
	return service, cleanup, nil
}
