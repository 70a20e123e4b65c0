package channel

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
	"github.com/bes-dev/youtube-caption-finder/internal/model"
	"github.com/bes-dev/youtube-caption-finder/internal/service/common"
)

const (
	// DefaultChannelBaseURL is used to expand bare handles such as "@name"
	DefaultChannelBaseURL = "https://www.youtube.com"

	defaultCacheSize = 256
)

var canonicalIDPattern = regexp.MustCompile(`^UC[0-9A-Za-z_-]+$`)

// ResolverConfig configures a Resolver
type ResolverConfig struct {
	ChannelBaseURL string
	CacheSize      int
	Logger         *zerolog.Logger
}

// Resolver maps channel URLs to canonical channel IDs.
// Canonical URLs are answered without I/O; vanity URLs cost one page fetch,
// after which the answer is cached for the lifetime of the Resolver.
type Resolver struct {
	client common.HTTPClient
	base   *url.URL
	cache  *lru.Cache[string, Metadata]
	logger zerolog.Logger
}

// NewResolver creates a new Resolver
func NewResolver(client common.HTTPClient, cfg ResolverConfig) (*Resolver, error) {
	if client == nil {
		return nil, errors.New(errors.CodeInvalidArg, "HTTP client is required")
	}

	baseURL := strings.TrimSpace(cfg.ChannelBaseURL)
	if baseURL == "" {
		baseURL = DefaultChannelBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.New(errors.CodeInvalidArg, fmt.Sprintf("invalid channel base URL %q", baseURL))
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, Metadata](size)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create channel cache")
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Resolver{
		client: client,
		base:   base,
		cache:  cache,
		logger: logger.With().Str("component", "channel_resolver").Logger(),
	}, nil
}

// Resolve returns the canonical channel ID for a channel URL, a bare "@handle" or a bare ID
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	ch, err := r.ResolveChannel(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

// ResolveChannel is Resolve that also reports the channel title when a lookup was needed
func (r *Resolver) ResolveChannel(ctx context.Context, rawURL string) (*model.Channel, error) {
	input := strings.TrimSpace(rawURL)
	if input == "" {
		return nil, errors.New(errors.CodeInvalidArg, "channel URL is required")
	}

	if id, ok := CanonicalID(input); ok {
		return &model.Channel{ID: id, URL: input}, nil
	}

	lookupURL, err := r.lookupURL(input)
	if err != nil {
		return nil, err
	}

	if meta, ok := r.cache.Get(lookupURL); ok {
		r.logger.Debug().Str("url", lookupURL).Str("channel_id", meta.ExternalID).Msg("Channel ID served from cache")
		return &model.Channel{ID: meta.ExternalID, Name: meta.Title, URL: input}, nil
	}

	r.logger.Debug().Str("url", lookupURL).Msg("Looking up channel page")
	page, err := r.client.Get(ctx, lookupURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeChannelFetch, fmt.Sprintf("failed to fetch channel page %s", lookupURL))
	}

	meta, err := ExtractMetadata(page)
	if err != nil {
		r.logger.Warn().Err(err).Str("url", lookupURL).Msg("Channel ID not found in page")
		return nil, err
	}

	r.cache.Add(lookupURL, *meta)
	r.logger.Info().Str("url", lookupURL).Str("channel_id", meta.ExternalID).Msg("Resolved channel")
	return &model.Channel{ID: meta.ExternalID, Name: meta.Title, URL: input}, nil
}

// lookupURL turns vanity input into the absolute URL of the channel page
func (r *Resolver) lookupURL(input string) (string, error) {
	var u *url.URL
	var err error

	switch {
	case strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"):
		u, err = url.Parse(input)
	case looksLikeHost(input):
		u, err = url.Parse("https://" + input)
	default:
		u = r.base.JoinPath(strings.Split(strings.Trim(input, "/"), "/")...)
	}
	if err != nil || u.Host == "" {
		return "", errors.New(errors.CodeInvalidArg, fmt.Sprintf("invalid channel URL %q", input))
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return u.String(), nil
}

// CanonicalID reports the channel ID contained in input without any I/O.
// It accepts a bare ID ("UC...") or any URL with a /channel/<id> path segment.
func CanonicalID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if canonicalIDPattern.MatchString(input) {
		return input, true
	}

	path := input
	if u, err := url.Parse(input); err == nil {
		path = u.Path
	}
	segments := strings.Split(path, "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == "channel" && canonicalIDPattern.MatchString(segments[i+1]) {
			return segments[i+1], true
		}
	}
	return "", false
}

func looksLikeHost(input string) bool {
	host, _, _ := strings.Cut(input, "/")
	return strings.Contains(host, ".") && !strings.HasPrefix(host, "@")
}
