package youtube

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bes-dev/youtube-caption-finder/internal/model"
	"github.com/bes-dev/youtube-caption-finder/internal/repository/channel"
	"github.com/bes-dev/youtube-caption-finder/internal/repository/video"
	"github.com/bes-dev/youtube-caption-finder/internal/service/search"
)

// YouTubeService is interface for archiving caption search hits and channels
type YouTubeService interface {
	ResolveChannel(ctx context.Context, channelURL string) (*model.Channel, error)
	SaveChannel(ctx context.Context, channelURL string) (*model.Channel, error)
	ListChannels(ctx context.Context, limit, offset int) ([]*model.Channel, error)
	SaveSearch(ctx context.Context, req search.Request, limit int) (*SaveResult, error)
	SavePage(ctx context.Context, req search.Request, pageIndex int) (*SaveResult, error)
	ListVideos(ctx context.Context, filter VideoFilter) ([]*model.Video, error)
}

// Searcher runs caption searches
type Searcher interface {
	SearchAll(ctx context.Context, req search.Request) (*search.Results, error)
	FetchPage(ctx context.Context, req search.Request, pageIndex int) (*search.Page, error)
}

// ChannelResolver maps channel URLs to channels with canonical IDs
type ChannelResolver interface {
	ResolveChannel(ctx context.Context, rawURL string) (*model.Channel, error)
}

// SaveResult summarizes one archived search
type SaveResult struct {
	Query    string `json:"query"`
	Saved    int    `json:"saved"`
	Pages    int    `json:"pages"`
	Warnings int    `json:"warnings"`
}

// VideoFilter selects archived videos. ChannelID takes precedence over Query.
type VideoFilter struct {
	ChannelID string
	Query     string
	Limit     int
	Offset    int
}

// youTubeService implements YouTubeService
type youTubeService struct {
	searcher    Searcher
	resolver    ChannelResolver
	channelRepo channel.Repository
	videoRepo   video.Repository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewYouTubeService creates a new YouTubeService
func NewYouTubeService(searcher Searcher, resolver ChannelResolver, channelRepo channel.Repository, videoRepo video.Repository) YouTubeService {
	return &youTubeService{
		searcher:    searcher,
		resolver:    resolver,
		channelRepo: channelRepo,
		videoRepo:   videoRepo,
		logger:      log.Logger.With().Str("component", "archive").Logger(),
		now:         time.Now,
	}
}
