package search

import (
	"fmt"
	"strings"
)

// DefaultPageSize is the number of result cards on a full remote page
const DefaultPageSize = 20

// PageSignal decides whether another page should be requested after the given one
type PageSignal interface {
	HasMore(page *Page) bool
}

// FullPageSignal expects more results while pages come back full.
// Skipped cards count toward fullness.
type FullPageSignal struct {
	Size int
}

func (s FullPageSignal) HasMore(page *Page) bool {
	size := s.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	return page.Fragments >= size
}

// NextLinkSignal follows the pagination markup of the result page
type NextLinkSignal struct{}

func (NextLinkSignal) HasMore(page *Page) bool {
	return page.NextLink
}

// NonEmptySignal keeps requesting pages until one comes back without results
type NonEmptySignal struct{}

func (NonEmptySignal) HasMore(page *Page) bool {
	return page.Fragments > 0
}

// PageSignalFunc adapts a function to PageSignal
type PageSignalFunc func(page *Page) bool

func (f PageSignalFunc) HasMore(page *Page) bool { return f(page) }

// ParsePageSignal maps a configuration name to a signal
func ParsePageSignal(name string, pageSize int) (PageSignal, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "full_page", "full-page":
		return FullPageSignal{Size: pageSize}, nil
	case "next_link", "next-link":
		return NextLinkSignal{}, nil
	case "non_empty", "non-empty":
		return NonEmptySignal{}, nil
	default:
		return nil, fmt.Errorf("unknown pagination signal %q (expected full_page, next_link or non_empty)", name)
	}
}
