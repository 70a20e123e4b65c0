package youtube

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bes-dev/youtube-caption-finder/internal/model"
	"github.com/bes-dev/youtube-caption-finder/internal/service/search"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// mockHTTPClient is a mock implementation of common.HTTPClient for testing
type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	args := m.Called(ctx, rawURL)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

// mockResolver is a mock implementation of ChannelResolver for testing
type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveChannel(ctx context.Context, rawURL string) (*model.Channel, error) {
	args := m.Called(ctx, rawURL)
	channel, _ := args.Get(0).(*model.Channel)
	return channel, args.Error(1)
}

// mockChannelRepository is a mock implementation of channel.Repository for testing
type mockChannelRepository struct {
	mock.Mock
}

func (m *mockChannelRepository) Upsert(ctx context.Context, channel *model.Channel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *mockChannelRepository) GetByID(ctx context.Context, id string) (*model.Channel, error) {
	args := m.Called(ctx, id)
	channel, _ := args.Get(0).(*model.Channel)
	return channel, args.Error(1)
}

func (m *mockChannelRepository) GetByURL(ctx context.Context, url string) (*model.Channel, error) {
	args := m.Called(ctx, url)
	channel, _ := args.Get(0).(*model.Channel)
	return channel, args.Error(1)
}

func (m *mockChannelRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockChannelRepository) List(ctx context.Context, limit, offset int) ([]*model.Channel, error) {
	args := m.Called(ctx, limit, offset)
	channels, _ := args.Get(0).([]*model.Channel)
	return channels, args.Error(1)
}

// mockVideoRepository is a mock implementation of video.Repository for testing
type mockVideoRepository struct {
	mock.Mock
}

func (m *mockVideoRepository) UpsertBatch(ctx context.Context, videos []*model.Video) error {
	args := m.Called(ctx, videos)
	return args.Error(0)
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	args := m.Called(ctx, id)
	video, _ := args.Get(0).(*model.Video)
	return video, args.Error(1)
}

func (m *mockVideoRepository) GetByChannelID(ctx context.Context, channelID string, limit, offset int) ([]*model.Video, error) {
	args := m.Called(ctx, channelID, limit, offset)
	videos, _ := args.Get(0).([]*model.Video)
	return videos, args.Error(1)
}

func (m *mockVideoRepository) GetByQuery(ctx context.Context, query string, limit, offset int) ([]*model.Video, error) {
	args := m.Called(ctx, query, limit, offset)
	videos, _ := args.Get(0).([]*model.Video)
	return videos, args.Error(1)
}

func (m *mockVideoRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockVideoRepository) List(ctx context.Context, limit, offset int) ([]*model.Video, error) {
	args := m.Called(ctx, limit, offset)
	videos, _ := args.Get(0).([]*model.Video)
	return videos, args.Error(1)
}

type testDeps struct {
	http     *mockHTTPClient
	resolver *mockResolver
	channels *mockChannelRepository
	videos   *mockVideoRepository
}

func (d *testDeps) assertExpectations(t *testing.T) {
	d.http.AssertExpectations(t)
	d.resolver.AssertExpectations(t)
	d.channels.AssertExpectations(t)
	d.videos.AssertExpectations(t)
}

// newTestService wires the service to a real search engine over a mocked HTTP client
func newTestService(t *testing.T) (*youTubeService, *testDeps) {
	t.Helper()
	deps := &testDeps{
		http:     new(mockHTTPClient),
		resolver: new(mockResolver),
		channels: new(mockChannelRepository),
		videos:   new(mockVideoRepository),
	}

	nop := zerolog.Nop()
	engine, err := search.NewEngine(deps.http, search.EngineConfig{BaseURL: "https://filmot.com", Logger: &nop})
	require.NoError(t, err)

	svc := NewYouTubeService(engine, deps.resolver, deps.channels, deps.videos).(*youTubeService)
	svc.logger = nop
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}

// forPage matches the request URL of the given 0-based page index
func forPage(pageIndex int) any {
	marker := fmt.Sprintf("/1/%d?", pageIndex+1)
	return mock.MatchedBy(func(u string) bool { return strings.Contains(u, marker) })
}

// renderResultsPage builds a result page with n well-formed cards numbered from start
func renderResultsPage(start, n int) []byte {
	var b strings.Builder
	b.WriteString(`<html><body><div id="searchResults">`)
	for i := start; i < start+n; i++ {
		fmt.Fprintf(&b, `<div id="vcard%d" idx="%d"><a class="fullpagelnk" vid="vid%05d"></a>`+
			`<div class="d-inline">Video %d</div><a href="/channel/UCtest">Test Channel</a></div>`, i, i, i, i)
	}
	b.WriteString(`</div></body></html>`)
	return []byte(b.String())
}
