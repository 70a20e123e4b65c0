package video

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	apperrors "github.com/bes-dev/youtube-caption-finder/internal/errors"
	"github.com/bes-dev/youtube-caption-finder/internal/model"
	"github.com/bes-dev/youtube-caption-finder/internal/repository/common"
)

const (
	selectColumns = "SELECT id, channel_id, channel_name, title, url, thumbnail_url, views, likes, upload_date, language, excerpt, query FROM videos"

	upsertSQL = `INSERT INTO videos (id, channel_id, channel_name, title, url, thumbnail_url, views, likes, upload_date, language, excerpt, query)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
channel_id = COALESCE(NULLIF(EXCLUDED.channel_id, ''), videos.channel_id),
channel_name = COALESCE(NULLIF(EXCLUDED.channel_name, ''), videos.channel_name),
title = EXCLUDED.title,
url = EXCLUDED.url,
thumbnail_url = EXCLUDED.thumbnail_url,
views = EXCLUDED.views,
likes = EXCLUDED.likes,
upload_date = COALESCE(EXCLUDED.upload_date, videos.upload_date),
language = EXCLUDED.language,
excerpt = EXCLUDED.excerpt,
query = EXCLUDED.query,
updated_at = NOW()`
)

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

// UpsertBatch stores the videos in one transaction, refreshing rows that already exist
func (r *repository) UpsertBatch(ctx context.Context, videos []*model.Video) error {
	if len(videos) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}

	for _, video := range videos {
		if _, err := tx.Exec(ctx, upsertSQL, upsertArgs(video)...); err != nil {
			_ = tx.Rollback(ctx)
			return common.HandlePostgreSQLError(err, "failed to save video "+video.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit videos")
	}
	return nil
}

// GetByID retrieves a video by its ID
func (r *repository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	row := r.pool.QueryRow(ctx, selectColumns+" WHERE id = $1", id)

	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "video not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get video")
	}
	return video, nil
}

// GetByChannelID retrieves videos by channel ID with pagination
func (r *repository) GetByChannelID(ctx context.Context, channelID string, limit, offset int) ([]*model.Video, error) {
	sql := selectColumns + " WHERE channel_id = $1 ORDER BY views DESC, id LIMIT $2 OFFSET $3"
	return r.query(ctx, "failed to get videos by channel ID", sql, channelID, limit, offset)
}

// GetByQuery retrieves videos archived for a search query with pagination
func (r *repository) GetByQuery(ctx context.Context, query string, limit, offset int) ([]*model.Video, error) {
	sql := selectColumns + " WHERE query = $1 ORDER BY views DESC, id LIMIT $2 OFFSET $3"
	return r.query(ctx, "failed to get videos by query", sql, query, limit, offset)
}

// Delete deletes a video by its ID
func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM videos WHERE id = $1", id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete video")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "video not found")
	}
	return nil
}

// List retrieves videos with pagination
func (r *repository) List(ctx context.Context, limit, offset int) ([]*model.Video, error) {
	sql := selectColumns + " ORDER BY views DESC, id LIMIT $1 OFFSET $2"
	return r.query(ctx, "failed to list videos", sql, limit, offset)
}

func (r *repository) query(ctx context.Context, operation, sql string, args ...any) ([]*model.Video, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, operation)
	}
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan video row")
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate video rows")
	}

	return videos, nil
}

func upsertArgs(video *model.Video) []any {
	return []any{
		video.ID, video.ChannelID, video.ChannelName, video.Title, video.URL, video.ThumbnailURL,
		video.Views, video.Likes, toDate(video.UploadDate), video.Language, video.Excerpt, video.Query,
	}
}

func scanVideo(row pgx.Row) (*model.Video, error) {
	var video model.Video
	var uploadDate pgtype.Date
	err := row.Scan(
		&video.ID, &video.ChannelID, &video.ChannelName, &video.Title, &video.URL, &video.ThumbnailURL,
		&video.Views, &video.Likes, &uploadDate, &video.Language, &video.Excerpt, &video.Query,
	)
	if err != nil {
		return nil, err
	}
	if uploadDate.Valid {
		video.UploadDate = uploadDate.Time
	}
	return &video, nil
}

// toDate maps an unknown (zero) upload date to NULL
func toDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), Valid: true}
}
