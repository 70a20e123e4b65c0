package youtube

import (
	"context"
	"slices"
	"strings"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
	"github.com/bes-dev/youtube-caption-finder/internal/model"
	"github.com/bes-dev/youtube-caption-finder/internal/service/search"
)

const saveBatchSize = 100

// SaveSearch runs a search and archives up to limit records (all of them when limit <= 0).
// Records fetched before a failing page are still saved; the failure is returned
// together with the result.
func (s *youTubeService) SaveSearch(ctx context.Context, req search.Request, limit int) (*SaveResult, error) {
	results, err := s.searcher.SearchAll(ctx, req)
	if err != nil {
		return nil, err
	}

	records, searchErr := results.Collect(ctx, limit)
	result := &SaveResult{
		Query:    strings.TrimSpace(req.Query),
		Pages:    results.PagesFetched(),
		Warnings: len(results.Warnings()),
	}
	if searchErr != nil && len(records) == 0 {
		return nil, searchErr
	}

	if err := s.archive(ctx, records, result); err != nil {
		return result, err
	}

	s.logger.Info().
		Str("query", result.Query).
		Int("saved", result.Saved).
		Int("pages", result.Pages).
		Int("warnings", result.Warnings).
		Msg("Saved search results")

	if searchErr != nil {
		s.logger.Warn().Err(searchErr).Str("query", result.Query).Msg("Search ended early")
		return result, searchErr
	}
	return result, nil
}

// SavePage archives the records of exactly one result page
func (s *youTubeService) SavePage(ctx context.Context, req search.Request, pageIndex int) (*SaveResult, error) {
	page, err := s.searcher.FetchPage(ctx, req, pageIndex)
	if err != nil {
		return nil, err
	}

	result := &SaveResult{
		Query:    strings.TrimSpace(req.Query),
		Pages:    1,
		Warnings: len(page.Warnings),
	}
	if err := s.archive(ctx, page.Records, result); err != nil {
		return result, err
	}

	s.logger.Info().
		Str("query", result.Query).
		Int("page", pageIndex).
		Int("saved", result.Saved).
		Int("warnings", result.Warnings).
		Msg("Saved result page")
	return result, nil
}

// archive stores records tagged with the result query, in batches, counting saved rows into result
func (s *youTubeService) archive(ctx context.Context, records []search.VideoRecord, result *SaveResult) error {
	videos := make([]*model.Video, 0, len(records))
	for _, rec := range records {
		v := rec.Model()
		v.Query = result.Query
		videos = append(videos, v)
	}

	for batch := range slices.Chunk(videos, saveBatchSize) {
		if err := s.videoRepo.UpsertBatch(ctx, batch); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to save videos to database")
		}
		result.Saved += len(batch)
	}
	return nil
}

// ListVideos retrieves archived videos with pagination
func (s *youTubeService) ListVideos(ctx context.Context, filter VideoFilter) ([]*model.Video, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset)

	var videos []*model.Video
	var err error
	switch {
	case filter.ChannelID != "":
		videos, err = s.videoRepo.GetByChannelID(ctx, filter.ChannelID, limit, offset)
	case strings.TrimSpace(filter.Query) != "":
		videos, err = s.videoRepo.GetByQuery(ctx, strings.TrimSpace(filter.Query), limit, offset)
	default:
		videos, err = s.videoRepo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to list videos")
	}

	return videos, nil
}
