package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
)

// Domain limits accepted by the remote index
const (
	MinViews    int64 = 0
	MaxViews    int64 = 6_000_000_000
	MinLikes    int64 = 0
	MaxLikes    int64 = 6_000_000_000
	MinDuration int64 = 1
	MaxDuration int64 = 86400 // seconds
)

const dateLayout = "2006-01-02"

// Bound returns a pointer to v, for use with the range setters
func Bound(v int64) *int64 { return &v }

type int64Range struct {
	min, max *int64
}

// FilterSet is a mutable builder of optional search filters.
// Setters validate immediately; unset fields are never serialized.
type FilterSet struct {
	title     *string
	views     int64Range
	likes     int64Range
	duration  int64Range
	dateStart time.Time
	dateEnd   time.Time
	license   *License
}

// NewFilterSet creates an empty FilterSet
func NewFilterSet() *FilterSet {
	return &FilterSet{}
}

// SetTitle restricts results to titles containing the given text. An empty title clears the filter.
func (f *FilterSet) SetTitle(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		f.title = nil
		return
	}
	f.title = &title
}

// SetViews sets the view count range. Passing nil for both bounds clears it.
func (f *FilterSet) SetViews(min, max *int64) error {
	r, err := newRange("views", min, max, MinViews, MaxViews)
	if err != nil {
		return err
	}
	f.views = r
	return nil
}

// SetLikes sets the like count range. Passing nil for both bounds clears it.
func (f *FilterSet) SetLikes(min, max *int64) error {
	r, err := newRange("likes", min, max, MinLikes, MaxLikes)
	if err != nil {
		return err
	}
	f.likes = r
	return nil
}

// SetDuration sets the duration range in seconds. Passing nil for both bounds clears it.
func (f *FilterSet) SetDuration(start, end *int64) error {
	r, err := newRange("duration", start, end, MinDuration, MaxDuration)
	if err != nil {
		return err
	}
	f.duration = r
	return nil
}

// SetDateRange sets the upload date range. A zero time leaves that bound unset;
// two zero times clear the range. Only the calendar date of each bound is kept.
func (f *FilterSet) SetDateRange(start, end time.Time) error {
	start, end = truncateDate(start), truncateDate(end)
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return errors.New(errors.CodeInvalidRange,
			fmt.Sprintf("date range start %s is after end %s", start.Format(dateLayout), end.Format(dateLayout)))
	}
	f.dateStart, f.dateEnd = start, end
	return nil
}

// SetLicense restricts results by license
func (f *FilterSet) SetLicense(l License) error {
	if _, ok := licenseTokens[l]; !ok {
		return errors.New(errors.CodeInvalidLicense, fmt.Sprintf("unknown license %d", int(l)))
	}
	f.license = &l
	return nil
}

func (f *FilterSet) ClearTitle()     { f.title = nil }
func (f *FilterSet) ClearViews()     { f.views = int64Range{} }
func (f *FilterSet) ClearLikes()     { f.likes = int64Range{} }
func (f *FilterSet) ClearDuration()  { f.duration = int64Range{} }
func (f *FilterSet) ClearDateRange() { f.dateStart, f.dateEnd = time.Time{}, time.Time{} }
func (f *FilterSet) ClearLicense()   { f.license = nil }

// IsEmpty reports whether no filter is set
func (f *FilterSet) IsEmpty() bool {
	return f == nil || len(f.Parameters()) == 0
}

// Clone returns an independent copy of the filter set
func (f *FilterSet) Clone() *FilterSet {
	if f == nil {
		return NewFilterSet()
	}
	c := *f
	c.title = clonePtr(f.title)
	c.views = int64Range{clonePtr(f.views.min), clonePtr(f.views.max)}
	c.likes = int64Range{clonePtr(f.likes.min), clonePtr(f.likes.max)}
	c.duration = int64Range{clonePtr(f.duration.min), clonePtr(f.duration.max)}
	c.license = clonePtr(f.license)
	return &c
}

// Parameters serializes the set fields into request parameters
func (f *FilterSet) Parameters() map[string]string {
	params := map[string]string{}
	if f == nil {
		return params
	}
	if f.title != nil {
		params["title"] = *f.title
	}
	putRange(params, f.duration, "startDuration", "endDuration")
	putRange(params, f.views, "minViews", "maxViews")
	putRange(params, f.likes, "minLikes", "maxLikes")
	if !f.dateStart.IsZero() {
		params["startDate"] = f.dateStart.Format(dateLayout)
	}
	if !f.dateEnd.IsZero() {
		params["endDate"] = f.dateEnd.Format(dateLayout)
	}
	if f.license != nil {
		params["license"] = f.license.Token()
	}
	return params
}

// ParseDate normalizes a user-supplied date to a calendar date.
// Accepted forms are 2006-01-02, 2006/01/02 and RFC 3339 timestamps; empty input yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{dateLayout, "2006/01/02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDate(t), nil
		}
	}
	return time.Time{}, errors.New(errors.CodeInvalidArg, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
}

func newRange(name string, min, max *int64, lower, upper int64) (int64Range, error) {
	for _, v := range []*int64{min, max} {
		if v != nil && (*v < lower || *v > upper) {
			return int64Range{}, errors.New(errors.CodeInvalidRange,
				fmt.Sprintf("%s bound %d outside [%d, %d]", name, *v, lower, upper))
		}
	}
	if min != nil && max != nil && *min > *max {
		return int64Range{}, errors.New(errors.CodeInvalidRange,
			fmt.Sprintf("%s minimum %d exceeds maximum %d", name, *min, *max))
	}
	return int64Range{min: clonePtr(min), max: clonePtr(max)}, nil
}

func putRange(params map[string]string, r int64Range, minKey, maxKey string) {
	if r.min != nil {
		params[minKey] = strconv.FormatInt(*r.min, 10)
	}
	if r.max != nil {
		params[maxKey] = strconv.FormatInt(*r.max, 10)
	}
}

func truncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
