package video

import (
	"context"

	"github.com/bes-dev/youtube-caption-finder/internal/model"
)

// Repository defines operations for archived search hits
type Repository interface {
	// UpsertBatch stores the videos in one transaction, refreshing rows that already exist
	UpsertBatch(ctx context.Context, videos []*model.Video) error

	// GetByID retrieves a video by its ID
	GetByID(ctx context.Context, id string) (*model.Video, error)

	// GetByChannelID retrieves videos by channel ID with pagination
	GetByChannelID(ctx context.Context, channelID string, limit, offset int) ([]*model.Video, error)

	// GetByQuery retrieves videos archived for a search query with pagination
	GetByQuery(ctx context.Context, query string, limit, offset int) ([]*model.Video, error)

	// Delete deletes a video by its ID
	Delete(ctx context.Context, id string) error

	// List retrieves videos with pagination
	List(ctx context.Context, limit, offset int) ([]*model.Video, error)
}
