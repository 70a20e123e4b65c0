package video

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bes-dev/youtube-caption-finder/internal/errors"
	"github.com/bes-dev/youtube-caption-finder/internal/model"
)

var videoColumns = []string{
	"id", "channel_id", "channel_name", "title", "url", "thumbnail_url",
	"views", "likes", "upload_date", "language", "excerpt", "query",
}

func newMockRepository(t *testing.T) (pgxmock.PgxPoolIface, Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock)
}

func testVideo(id string) *model.Video {
	return &model.Video{
		ID:           id,
		ChannelID:    "UCx5XG1OV2P6uZZ5FSM9Ttw",
		ChannelName:  "Nomad Capitalist",
		Title:        "Second passports explained",
		URL:          "https://www.youtube.com/watch?v=" + id,
		ThumbnailURL: "https://i.ytimg.com/vi/" + id + "/mqdefault.jpg",
		Views:        1200000,
		Likes:        30000,
		UploadDate:   time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC),
		Language:     "en",
		Excerpt:      "the easiest passport to get",
		Query:        "passport",
	}
}

func expectedArgs(v *model.Video) []any {
	return []any{
		v.ID, v.ChannelID, v.ChannelName, v.Title, v.URL, v.ThumbnailURL,
		v.Views, v.Likes, toDate(v.UploadDate), v.Language, v.Excerpt, v.Query,
	}
}

func TestRepository_UpsertBatch(t *testing.T) {
	first := testVideo("dQw4w9WgXcQ")
	second := testVideo("9bZkp7q19f0")
	second.UploadDate = time.Time{}

	tests := []struct {
		name     string
		videos   []*model.Video
		setup    func(mock pgxmock.PgxPoolIface)
		wantCode string
	}{
		{
			name:   "empty batch touches nothing",
			videos: nil,
			setup:  func(mock pgxmock.PgxPoolIface) {},
		},
		{
			name:   "all rows in one transaction",
			videos: []*model.Video{first, second},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO videos .* ON CONFLICT \\(id\\) DO UPDATE").
					WithArgs(expectedArgs(first)...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec("INSERT INTO videos .* ON CONFLICT \\(id\\) DO UPDATE").
					WithArgs(expectedArgs(second)...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "failed row rolls back",
			videos: []*model.Video{first, second},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO videos").
					WithArgs(expectedArgs(first)...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec("INSERT INTO videos").
					WithArgs(expectedArgs(second)...).
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			wantCode: apperrors.CodeInternal,
		},
		{
			name:   "begin failure",
			videos: []*model.Video{first},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(assert.AnError)
			},
			wantCode: apperrors.CodeInternal,
		},
		{
			name:   "commit failure",
			videos: []*model.Video{first},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO videos").
					WithArgs(expectedArgs(first)...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit().WillReturnError(assert.AnError)
			},
			wantCode: apperrors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepository(t)
			tt.setup(mock)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err := repo.UpsertBatch(ctx, tt.videos)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tt.wantCode))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	want := testVideo("dQw4w9WgXcQ")

	tests := []struct {
		name     string
		setup    func(mock pgxmock.PgxPoolIface)
		want     *model.Video
		wantCode string
	}{
		{
			name: "video found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(videoColumns).AddRow(
					want.ID, want.ChannelID, want.ChannelName, want.Title, want.URL, want.ThumbnailURL,
					want.Views, want.Likes, pgtype.Date{Time: want.UploadDate, Valid: true},
					want.Language, want.Excerpt, want.Query,
				)
				mock.ExpectQuery("SELECT .* FROM videos WHERE id = \\$1").
					WithArgs(want.ID).
					WillReturnRows(rows)
			},
			want: want,
		},
		{
			name: "video not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT .* FROM videos WHERE id = \\$1").
					WithArgs(want.ID).
					WillReturnError(pgx.ErrNoRows)
			},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT .* FROM videos WHERE id = \\$1").
					WithArgs(want.ID).
					WillReturnError(assert.AnError)
			},
			wantCode: apperrors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepository(t)
			tt.setup(mock)

			got, err := repo.GetByID(context.Background(), want.ID)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.True(t, apperrors.HasCode(err, tt.wantCode))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Queries(t *testing.T) {
	row := func(rows *pgxmock.Rows, id string, uploadDate pgtype.Date) *pgxmock.Rows {
		v := testVideo(id)
		return rows.AddRow(v.ID, v.ChannelID, v.ChannelName, v.Title, v.URL, v.ThumbnailURL,
			v.Views, v.Likes, uploadDate, v.Language, v.Excerpt, v.Query)
	}
	dated := pgtype.Date{Time: time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC), Valid: true}

	tests := []struct {
		name  string
		sql   string
		args  []any
		call  func(repo Repository) ([]*model.Video, error)
		nulls bool
	}{
		{
			name: "GetByChannelID",
			sql:  "SELECT .* FROM videos WHERE channel_id = \\$1 ORDER BY views DESC, id LIMIT \\$2 OFFSET \\$3",
			args: []any{"UCx5XG1OV2P6uZZ5FSM9Ttw", 10, 0},
			call: func(repo Repository) ([]*model.Video, error) {
				return repo.GetByChannelID(context.Background(), "UCx5XG1OV2P6uZZ5FSM9Ttw", 10, 0)
			},
		},
		{
			name: "GetByQuery",
			sql:  "SELECT .* FROM videos WHERE query = \\$1 ORDER BY views DESC, id LIMIT \\$2 OFFSET \\$3",
			args: []any{"passport", 5, 5},
			call: func(repo Repository) ([]*model.Video, error) {
				return repo.GetByQuery(context.Background(), "passport", 5, 5)
			},
		},
		{
			name: "List with unknown upload dates",
			sql:  "SELECT .* FROM videos ORDER BY views DESC, id LIMIT \\$1 OFFSET \\$2",
			args: []any{20, 0},
			call: func(repo Repository) ([]*model.Video, error) {
				return repo.List(context.Background(), 20, 0)
			},
			nulls: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepository(t)

			date := dated
			if tt.nulls {
				date = pgtype.Date{}
			}
			rows := pgxmock.NewRows(videoColumns)
			row(rows, "dQw4w9WgXcQ", date)
			row(rows, "9bZkp7q19f0", date)
			mock.ExpectQuery(tt.sql).WithArgs(tt.args...).WillReturnRows(rows)

			got, err := tt.call(repo)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "dQw4w9WgXcQ", got[0].ID)
			assert.Equal(t, "9bZkp7q19f0", got[1].ID)
			assert.Equal(t, tt.nulls, got[0].UploadDate.IsZero())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_QueryError(t *testing.T) {
	mock, repo := newMockRepository(t)
	mock.ExpectQuery("SELECT .* FROM videos").WithArgs(10, 0).WillReturnError(assert.AnError)

	got, err := repo.List(context.Background(), 10, 0)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	mock, repo := newMockRepository(t)
	mock.ExpectExec("DELETE FROM videos WHERE id = \\$1").
		WithArgs("dQw4w9WgXcQ").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM videos WHERE id = \\$1").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	ctx := context.Background()
	require.NoError(t, repo.Delete(ctx, "dQw4w9WgXcQ"))
	assert.True(t, apperrors.HasCode(repo.Delete(ctx, "missing"), apperrors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToDate(t *testing.T) {
	assert.Equal(t, pgtype.Date{}, toDate(time.Time{}))

	tokyo := time.FixedZone("JST", 9*3600)
	got := toDate(time.Date(2024, 1, 31, 23, 30, 0, 0, tokyo))
	assert.True(t, got.Valid)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), got.Time)
}
