package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	orderByPattern    = regexp.MustCompile(`orderByField\('([^']+)','([^']+)'\)`)
	datePresetPattern = regexp.MustCompile(`\$\('#startdate'\)\.val\('([^']+)'\)`)
)

// FilterOptions describes the filter controls offered by the remote search page
type FilterOptions struct {
	SortBy    []SortChoice      `json:"sort_by"`
	Title     *TextControl      `json:"title,omitempty"`
	Views     *SliderControl    `json:"views,omitempty"`
	Likes     *SliderControl    `json:"likes,omitempty"`
	Duration  *SliderControl    `json:"duration,omitempty"`
	License   *SelectControl    `json:"license,omitempty"`
	DateRange *DateRangeControl `json:"date_range,omitempty"`
}

// SortChoice is one entry of the "Sort By" menu. Field and Order are empty
// when the entry does not map to a known sort call; Href then holds the raw link.
type SortChoice struct {
	Text  string `json:"text"`
	Field string `json:"field,omitempty"`
	Order string `json:"order,omitempty"`
	Href  string `json:"href,omitempty"`
}

type TextControl struct {
	ID      string `json:"id"`
	Default string `json:"default"`
}

type SliderControl struct {
	ID      string `json:"id"`
	Default string `json:"default,omitempty"`
}

type SelectControl struct {
	ID      string         `json:"id"`
	Options []SelectOption `json:"options"`
}

type SelectOption struct {
	Value    string `json:"value"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

type DateRangeControl struct {
	Start   *TextControl `json:"start,omitempty"`
	End     *TextControl `json:"end,omitempty"`
	Presets []DatePreset `json:"presets"`
}

// DatePreset is a shortcut that fills in the start date
type DatePreset struct {
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
}

// Domains flattens the options into a filter name -> allowed values description
func (o *FilterOptions) Domains() map[string]string {
	domains := map[string]string{}
	if o == nil {
		return domains
	}
	if len(o.SortBy) > 0 {
		choices := make([]string, 0, len(o.SortBy))
		for _, c := range o.SortBy {
			if c.Field != "" {
				choices = append(choices, fmt.Sprintf("%s=%s %s", c.Text, c.Field, c.Order))
			} else {
				choices = append(choices, c.Text)
			}
		}
		domains["sort"] = strings.Join(choices, "; ")
	}
	if o.Title != nil {
		domains["title"] = "free text"
	}
	if o.Views != nil {
		domains["views"] = fmt.Sprintf("range %d..%d", MinViews, MaxViews)
	}
	if o.Likes != nil {
		domains["likes"] = fmt.Sprintf("range %d..%d", MinLikes, MaxLikes)
	}
	if o.Duration != nil {
		domains["duration"] = fmt.Sprintf("range %d..%d seconds", MinDuration, MaxDuration)
	}
	if o.License != nil {
		values := make([]string, 0, len(o.License.Options))
		for _, opt := range o.License.Options {
			values = append(values, fmt.Sprintf("%s=%s", opt.Value, opt.Text))
		}
		domains["license"] = strings.Join(values, "; ")
	}
	if o.DateRange != nil {
		desc := "dates YYYY-MM-DD"
		if len(o.DateRange.Presets) > 0 {
			labels := make([]string, 0, len(o.DateRange.Presets))
			for _, p := range o.DateRange.Presets {
				labels = append(labels, fmt.Sprintf("%s (from %s)", p.Label, p.StartDate))
			}
			sort.Strings(labels)
			desc += "; presets: " + strings.Join(labels, ", ")
		}
		domains["date_range"] = desc
	}
	return domains
}

// parseFilterOptions reads the filter accordion of a search page.
// A page without the accordion yields empty options.
func parseFilterOptions(doc *goquery.Document) *FilterOptions {
	opts := &FilterOptions{SortBy: []SortChoice{}}
	accordion := doc.Find("div#accordion").First()
	if accordion.Length() == 0 {
		return opts
	}

	opts.SortBy = parseSortChoices(accordion)

	panel := accordion.Find("div#collapseZero").First()
	if panel.Length() == 0 {
		return opts
	}

	if in := panel.Find("input#qtitle").First(); in.Length() > 0 {
		opts.Title = &TextControl{ID: "qtitle", Default: in.AttrOr("value", "")}
	}
	opts.Views = parseSlider(panel, "sliderviews")
	opts.Likes = parseSlider(panel, "sliderlikes")
	opts.Duration = parseSlider(panel, "sliderduration")

	if sel := panel.Find("select#licenseFilter").First(); sel.Length() > 0 {
		control := &SelectControl{ID: "licenseFilter", Options: []SelectOption{}}
		sel.Find("option").Each(func(_ int, o *goquery.Selection) {
			_, selected := o.Attr("selected")
			control.Options = append(control.Options, SelectOption{
				Value:    o.AttrOr("value", ""),
				Text:     normSpace(o.Text()),
				Selected: selected,
			})
		})
		opts.License = control
	}

	dates := &DateRangeControl{Presets: []DatePreset{}}
	if in := panel.Find("input#startdate").First(); in.Length() > 0 {
		dates.Start = &TextControl{ID: "startdate", Default: in.AttrOr("value", "")}
	}
	if in := panel.Find("input#enddate").First(); in.Length() > 0 {
		dates.End = &TextControl{ID: "enddate", Default: in.AttrOr("value", "")}
	}
	panel.Find("div.dropdown-menu button.dateoptionselect").Each(func(_ int, btn *goquery.Selection) {
		if m := datePresetPattern.FindStringSubmatch(btn.AttrOr("onclick", "")); m != nil {
			dates.Presets = append(dates.Presets, DatePreset{Label: normSpace(btn.Text()), StartDate: m[1]})
		}
	})
	opts.DateRange = dates

	return opts
}

func parseSortChoices(accordion *goquery.Selection) []SortChoice {
	choices := []SortChoice{}

	var target string
	accordion.Find(".card-header").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(h.Text(), "Sort By") {
			return true
		}
		target = h.AttrOr("href", "")
		if target == "" {
			target = h.Find("[href^='#']").First().AttrOr("href", h.AttrOr("data-target", ""))
		}
		return false
	})
	target = strings.TrimPrefix(strings.TrimSpace(target), "#")
	if target == "" {
		return choices
	}

	menu := accordion.Find("div[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == target
	}).First()
	menu.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		choice := SortChoice{Text: normSpace(a.Text())}
		if m := orderByPattern.FindStringSubmatch(href); m != nil {
			choice.Field, choice.Order = m[1], m[2]
		} else {
			choice.Href = href
		}
		choices = append(choices, choice)
	})
	return choices
}

func parseSlider(panel *goquery.Selection, id string) *SliderControl {
	in := panel.Find("input#" + id).First()
	if in.Length() == 0 {
		return nil
	}
	return &SliderControl{ID: id, Default: in.AttrOr("value", "")}
}
