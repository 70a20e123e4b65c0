package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
	"github.com/bes-dev/youtube-caption-finder/internal/service/common"
)

// DefaultBaseURL is the root of the caption search index
const DefaultBaseURL = "https://filmot.com"

// Request describes one caption search
type Request struct {
	Query     string
	ChannelID string     // canonical channel ID, empty searches all channels
	Filters   *FilterSet // nil means no filters
	Sort      *SortSpec  // nil means DefaultSort
}

// EngineConfig configures an Engine
type EngineConfig struct {
	BaseURL string
	Signal  PageSignal
	Logger  *zerolog.Logger
}

// Page is one fetched result page
type Page struct {
	Index     int           `json:"index"`
	URL       string        `json:"url"`
	Records   []VideoRecord `json:"records"`
	Warnings  []Warning     `json:"warnings,omitempty"`
	Fragments int           `json:"fragments"`
	NextLink  bool          `json:"next_link"`
	HasMore   bool          `json:"has_more"`
}

// Engine issues searches against the remote index.
// It holds no per-search state and is safe for concurrent use.
type Engine struct {
	client common.HTTPClient
	base   *url.URL
	signal PageSignal
	logger zerolog.Logger
}

// preparedRequest is a validated request with its parameters frozen
type preparedRequest struct {
	query  string
	params url.Values
}

// NewEngine creates a new Engine
func NewEngine(client common.HTTPClient, cfg EngineConfig) (*Engine, error) {
	if client == nil {
		return nil, errors.New(errors.CodeInvalidArg, "HTTP client is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.New(errors.CodeInvalidArg, fmt.Sprintf("invalid base URL %q", baseURL))
	}

	signal := cfg.Signal
	if signal == nil {
		signal = FullPageSignal{Size: DefaultPageSize}
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Engine{
		client: client,
		base:   base,
		signal: signal,
		logger: logger.With().Str("component", "search").Logger(),
	}, nil
}

// Search returns the records of the first result page. It performs exactly one fetch.
func (e *Engine) Search(ctx context.Context, req Request) ([]VideoRecord, error) {
	prepared, err := e.prepare(req)
	if err != nil {
		return nil, err
	}

	page, err := e.fetchPage(ctx, prepared, 0)
	if err != nil {
		return nil, err
	}
	return page.Records, nil
}

// SearchAll validates the request and returns a lazy sequence over every result page.
// No request is sent until the first call to Results.Next.
func (e *Engine) SearchAll(ctx context.Context, req Request) (*Results, error) {
	prepared, err := e.prepare(req)
	if err != nil {
		return nil, err
	}
	return newResults(e, prepared), nil
}

// FetchPage fetches a single result page by its 0-based index
func (e *Engine) FetchPage(ctx context.Context, req Request, pageIndex int) (*Page, error) {
	if pageIndex < 0 {
		return nil, errors.New(errors.CodeInvalidArg, "page index must not be negative")
	}
	prepared, err := e.prepare(req)
	if err != nil {
		return nil, err
	}
	return e.fetchPage(ctx, prepared, pageIndex)
}

// GetFilters fetches the first result page of the request and returns the filter controls it offers
func (e *Engine) GetFilters(ctx context.Context, req Request) (*FilterOptions, error) {
	prepared, err := e.prepare(req)
	if err != nil {
		return nil, err
	}

	pageURL := e.pageURL(prepared, 0)
	body, err := e.get(ctx, pageURL, 0)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeResponseParse, "failed to parse filter options")
	}
	return parseFilterOptions(doc), nil
}

// ValidateQuery reports an INVALID_QUERY error for a query that cannot be searched
func ValidateQuery(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New(errors.CodeInvalidQuery, "search query is required")
	}
	// dot segments are rewritten by path normalization and would change the request path
	if query == "." || query == ".." {
		return errors.New(errors.CodeInvalidQuery, fmt.Sprintf("search query %q is not searchable", query))
	}
	return nil
}

func (e *Engine) prepare(req Request) (*preparedRequest, error) {
	if err := ValidateQuery(req.Query); err != nil {
		return nil, err
	}
	query := strings.TrimSpace(req.Query)

	sortSpec := DefaultSort
	if req.Sort != nil {
		sortSpec = *req.Sort
	}
	if _, ok := sortFieldTokens[sortSpec.Field]; !ok {
		return nil, errors.New(errors.CodeInvalidSortField, fmt.Sprintf("unknown sort field %d", int(sortSpec.Field)))
	}
	if _, ok := sortOrderTokens[sortSpec.Order]; !ok {
		return nil, errors.New(errors.CodeInvalidSortOrder, fmt.Sprintf("unknown sort order %d", int(sortSpec.Order)))
	}

	params := url.Values{}
	params.Set("gridView", "1")
	if channelID := strings.TrimSpace(req.ChannelID); channelID != "" {
		params.Set("channelID", channelID)
	}
	for k, v := range req.Filters.Parameters() {
		params.Set(k, v)
	}
	for k, v := range sortSpec.Parameters() {
		params.Set(k, v)
	}

	return &preparedRequest{query: query, params: params}, nil
}

// pageURL builds {base}/search/{query}/1/{page}?{params}; remote pages are numbered from 1
func (e *Engine) pageURL(req *preparedRequest, pageIndex int) string {
	page := strconv.Itoa(pageIndex + 1)
	u := *e.base
	u.Path = strings.TrimRight(e.base.Path, "/") + "/search/" + req.query + "/1/" + page
	u.RawPath = strings.TrimRight(e.base.EscapedPath(), "/") + "/search/" + url.PathEscape(req.query) + "/1/" + page
	u.RawQuery = req.params.Encode()
	u.Fragment = ""
	return u.String()
}

func (e *Engine) fetchPage(ctx context.Context, req *preparedRequest, pageIndex int) (*Page, error) {
	pageURL := e.pageURL(req, pageIndex)
	body, err := e.get(ctx, pageURL, pageIndex)
	if err != nil {
		return nil, err
	}

	parsed, err := parsePage(body, e.base)
	if err != nil {
		e.logger.Error().Err(err).Int("page", pageIndex).Msg("Failed to parse results page")
		return nil, errors.Wrap(err, errors.CodeResponseParse, fmt.Sprintf("failed to parse results page %d", pageIndex))
	}

	for _, w := range parsed.warnings {
		e.logger.Warn().
			Int("page", pageIndex).
			Str("card_id", w.CardID).
			Int("index", w.Index).
			Str("reason", w.Reason).
			Msg("Skipping malformed result card")
	}

	records := parsed.records
	if records == nil {
		records = []VideoRecord{}
	}
	page := &Page{
		Index:     pageIndex,
		URL:       pageURL,
		Records:   records,
		Warnings:  parsed.warnings,
		Fragments: parsed.fragments,
		NextLink:  parsed.nextLink,
	}
	page.HasMore = e.signal.HasMore(page)

	e.logger.Debug().
		Int("page", pageIndex).
		Int("records", len(page.Records)).
		Int("fragments", page.Fragments).
		Bool("has_more", page.HasMore).
		Msg("Fetched results page")

	return page, nil
}

func (e *Engine) get(ctx context.Context, pageURL string, pageIndex int) ([]byte, error) {
	e.logger.Debug().Str("url", pageURL).Int("page", pageIndex).Msg("Requesting results page")
	body, err := e.client.Get(ctx, pageURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeTransport, fmt.Sprintf("failed to fetch results page %d", pageIndex))
	}
	return body, nil
}
