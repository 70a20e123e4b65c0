package search

import (
	"fmt"
	"strings"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
)

// SortField is the attribute results are ordered by
type SortField int

const (
	SortByUploadDate SortField = iota
	SortByID
	SortByViewCount
	SortByLikeCount
	SortByChannelRank
	SortByDuration
)

// SortOrder is the direction results are ordered in
type SortOrder int

const (
	Descending SortOrder = iota
	Ascending
)

// License restricts results by video license
type License int

const (
	LicenseAny License = iota
	LicenseYouTube
	LicenseCreativeCommons
)

type enumToken struct {
	token string
	name  string
}

var sortFieldTokens = map[SortField]enumToken{
	SortByUploadDate:  {token: "uploaddate", name: "UPLOAD_DATE"},
	SortByID:          {token: "id", name: "ID"},
	SortByViewCount:   {token: "viewcount", name: "VIEW_COUNT"},
	SortByLikeCount:   {token: "likecount", name: "LIKE_COUNT"},
	SortByChannelRank: {token: "chanrank", name: "CHAN_RANK"},
	SortByDuration:    {token: "duration", name: "DURATION"},
}

var sortOrderTokens = map[SortOrder]enumToken{
	Descending: {token: "desc", name: "DESC"},
	Ascending:  {token: "asc", name: "ASC"},
}

var licenseTokens = map[License]enumToken{
	LicenseAny:             {token: "0", name: "ANY"},
	LicenseYouTube:         {token: "1", name: "YOUTUBE_LICENSE"},
	LicenseCreativeCommons: {token: "2", name: "CREATIVE_COMMONS"},
}

// alternative spellings accepted by ParseLicense
var licenseAliases = map[string]License{
	"standard": LicenseYouTube,
	"youtube":  LicenseYouTube,
	"cc":       LicenseCreativeCommons,
}

// AllSortFields returns every sort field in declaration order
func AllSortFields() []SortField {
	return []SortField{SortByUploadDate, SortByID, SortByViewCount, SortByLikeCount, SortByChannelRank, SortByDuration}
}

// AllLicenses returns every license in declaration order
func AllLicenses() []License {
	return []License{LicenseAny, LicenseYouTube, LicenseCreativeCommons}
}

// Token returns the wire token of the sort field
func (f SortField) Token() string { return sortFieldTokens[f].token }

func (f SortField) String() string {
	if t, ok := sortFieldTokens[f]; ok {
		return t.name
	}
	return fmt.Sprintf("SortField(%d)", int(f))
}

// Token returns the wire token of the sort order
func (o SortOrder) Token() string { return sortOrderTokens[o].token }

func (o SortOrder) String() string {
	if t, ok := sortOrderTokens[o]; ok {
		return t.name
	}
	return fmt.Sprintf("SortOrder(%d)", int(o))
}

// Token returns the wire token of the license
func (l License) Token() string { return licenseTokens[l].token }

func (l License) String() string {
	if t, ok := licenseTokens[l]; ok {
		return t.name
	}
	return fmt.Sprintf("License(%d)", int(l))
}

// ParseSortField accepts a wire token ("viewcount") or an enum name ("VIEW_COUNT"), case-insensitively
func ParseSortField(s string) (SortField, error) {
	if f, ok := lookupToken(sortFieldTokens, s); ok {
		return f, nil
	}
	return 0, errors.New(errors.CodeInvalidSortField, fmt.Sprintf("unknown sort field %q", s))
}

// ParseSortOrder accepts "asc"/"desc" or "ASC"/"DESC"
func ParseSortOrder(s string) (SortOrder, error) {
	if o, ok := lookupToken(sortOrderTokens, s); ok {
		return o, nil
	}
	return 0, errors.New(errors.CodeInvalidSortOrder, fmt.Sprintf("unknown sort order %q", s))
}

// ParseLicense accepts a wire token ("2"), an enum name ("CREATIVE_COMMONS") or a short alias ("cc")
func ParseLicense(s string) (License, error) {
	if l, ok := lookupToken(licenseTokens, s); ok {
		return l, nil
	}
	if l, ok := licenseAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return 0, errors.New(errors.CodeInvalidLicense, fmt.Sprintf("unknown license %q", s))
}

func lookupToken[E comparable](tokens map[E]enumToken, s string) (E, bool) {
	s = strings.TrimSpace(s)
	for e, t := range tokens {
		if strings.EqualFold(s, t.token) || strings.EqualFold(s, t.name) {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// SortSpec is the ordering applied to a search
type SortSpec struct {
	Field SortField
	Order SortOrder
}

// DefaultSort orders by view count, highest first
var DefaultSort = SortSpec{Field: SortByViewCount, Order: Descending}

// Parameters returns exactly the sortField and sortOrder request parameters
func (s SortSpec) Parameters() map[string]string {
	return map[string]string{
		"sortField": s.Field.Token(),
		"sortOrder": s.Order.Token(),
	}
}
