package channel

import (
	"context"

	"github.com/bes-dev/youtube-caption-finder/internal/model"
)

// Repository defines operations for Channel persistence
type Repository interface {
	// Upsert creates a channel or refreshes the stored one with the same ID
	Upsert(ctx context.Context, channel *model.Channel) error

	// GetByID retrieves a channel by its ID
	GetByID(ctx context.Context, id string) (*model.Channel, error)

	// GetByURL retrieves the most recently resolved channel for a URL
	GetByURL(ctx context.Context, url string) (*model.Channel, error)

	// Delete deletes a channel by its ID
	Delete(ctx context.Context, id string) error

	// List retrieves channels with pagination
	List(ctx context.Context, limit, offset int) ([]*model.Channel, error)
}
