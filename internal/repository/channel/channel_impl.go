package channel

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/bes-dev/youtube-caption-finder/internal/errors"
	"github.com/bes-dev/youtube-caption-finder/internal/model"
	"github.com/bes-dev/youtube-caption-finder/internal/repository/common"
)

const selectColumns = "SELECT id, name, url, resolved_at FROM channels"

// repository implements Repository using PostgreSQL
type repository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &repository{
		pool: pool,
	}
}

// Upsert creates a channel or refreshes the stored one with the same ID.
// An empty name never overwrites a known one.
func (r *repository) Upsert(ctx context.Context, channel *model.Channel) error {
	sql := `INSERT INTO channels (id, name, url, resolved_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
name = COALESCE(NULLIF(EXCLUDED.name, ''), channels.name),
url = EXCLUDED.url,
resolved_at = EXCLUDED.resolved_at`
	_, err := r.pool.Exec(ctx, sql, channel.ID, channel.Name, channel.URL, channel.ResolvedAt)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to save channel")
	}
	return nil
}

// GetByID retrieves a channel by its ID
func (r *repository) GetByID(ctx context.Context, id string) (*model.Channel, error) {
	row := r.pool.QueryRow(ctx, selectColumns+" WHERE id = $1", id)

	channel, err := scanChannel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "channel not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get channel")
	}
	return channel, nil
}

// GetByURL retrieves the most recently resolved channel for a URL
func (r *repository) GetByURL(ctx context.Context, url string) (*model.Channel, error) {
	row := r.pool.QueryRow(ctx, selectColumns+" WHERE url = $1 ORDER BY resolved_at DESC LIMIT 1", url)

	channel, err := scanChannel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "channel not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get channel by URL")
	}
	return channel, nil
}

// Delete deletes a channel by its ID
func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM channels WHERE id = $1", id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete channel")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "channel not found")
	}
	return nil
}

// List retrieves channels with pagination
func (r *repository) List(ctx context.Context, limit, offset int) ([]*model.Channel, error) {
	rows, err := r.pool.Query(ctx, selectColumns+" ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list channels")
	}
	defer rows.Close()

	channels := []*model.Channel{}
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan channel row")
		}
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate channel rows")
	}

	return channels, nil
}

func scanChannel(row pgx.Row) (*model.Channel, error) {
	var channel model.Channel
	if err := row.Scan(&channel.ID, &channel.Name, &channel.URL, &channel.ResolvedAt); err != nil {
		return nil, err
	}
	return &channel, nil
}
