package channel

import (
	"context"
	"sync"
)

// IDResolver resolves channel URLs to canonical channel IDs
type IDResolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// Identity is a channel known by the URL a user supplied. Its canonical ID is
// resolved on first use and then remembered by this value only.
type Identity struct {
	InputURL string

	resolver IDResolver
	mu       sync.Mutex
	id       string
}

// NewIdentity creates an unresolved Identity
func NewIdentity(inputURL string, resolver IDResolver) *Identity {
	return &Identity{InputURL: inputURL, resolver: resolver}
}

// ID returns the canonical channel ID, resolving it on the first call.
// A failed resolution is not remembered.
func (c *Identity) ID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.id != "" {
		return c.id, nil
	}
	id, err := c.resolver.Resolve(ctx, c.InputURL)
	if err != nil {
		return "", err
	}
	c.id = id
	return id, nil
}

// Resolved reports whether the ID is already known
func (c *Identity) Resolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id != ""
}
