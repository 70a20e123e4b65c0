package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of common.HTTPClient for testing
type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	args := m.Called(ctx, rawURL)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
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

func newTestEngine(t *testing.T, client *mockHTTPClient, signal PageSignal) *Engine {
	t.Helper()
	nop := zerolog.Nop()
	engine, err := NewEngine(client, EngineConfig{BaseURL: "https://filmot.com", Signal: signal, Logger: &nop})
	require.NoError(t, err)
	return engine
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}
