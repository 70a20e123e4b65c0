package youtube

import (
	"context"
	"strings"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
	"github.com/bes-dev/youtube-caption-finder/internal/model"
)

// ResolveChannel resolves a channel URL to its canonical ID without touching the database
func (s *youTubeService) ResolveChannel(ctx context.Context, channelURL string) (*model.Channel, error) {
	if strings.TrimSpace(channelURL) == "" {
		return nil, errors.New(errors.CodeInvalidArg, "channel URL is required")
	}

	channel, err := s.resolver.ResolveChannel(ctx, channelURL)
	if err != nil {
		return nil, err
	}
	channel.ResolvedAt = s.now().UTC()
	return channel, nil
}

// SaveChannel resolves a channel URL and stores the result.
// The stored record is returned, so a name known from an earlier lookup survives
// a resolution that did not need the channel page.
func (s *youTubeService) SaveChannel(ctx context.Context, channelURL string) (*model.Channel, error) {
	channel, err := s.ResolveChannel(ctx, channelURL)
	if err != nil {
		return nil, err
	}

	if err := s.channelRepo.Upsert(ctx, channel); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to save channel to database")
	}

	stored, err := s.channelRepo.GetByID(ctx, channel.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read saved channel")
	}

	s.logger.Info().Str("channel_id", stored.ID).Str("url", stored.URL).Msg("Saved channel")
	return stored, nil
}

// ListChannels retrieves all saved channels with pagination
func (s *youTubeService) ListChannels(ctx context.Context, limit, offset int) ([]*model.Channel, error) {
	limit, offset = normalizePage(limit, offset)

	channels, err := s.channelRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list channels")
	}

	return channels, nil
}

// normalizePage applies the default page size and clamps negative offsets
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
