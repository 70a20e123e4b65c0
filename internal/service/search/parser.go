package search

import (
	"bytes"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

var (
	countPattern = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*([kmb])?`)

	uploadDateLayouts = []string{
		"2006-01-02",
		"Jan 2, 2006",
		"January 2, 2006",
		"Jan 2 2006",
		"2 Jan 2006",
		"2 January 2006",
		"02 Jan 2006",
		"Jan 2006",
	}
)

// Warning describes a result fragment that was skipped
type Warning struct {
	CardID string `json:"card_id"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("card %q (#%d): %s", w.CardID, w.Index, w.Reason)
}

// parsedPage is the structural content of one result page
type parsedPage struct {
	doc       *goquery.Document
	records   []VideoRecord
	warnings  []Warning
	fragments int  // result cards found, including skipped ones
	nextLink  bool // pagination markup links to a following page
}

// parsePage parses a result page. It fails only when the body is not a
// usable HTML document; individual malformed cards become warnings.
func parsePage(body []byte, base *url.URL) (*parsedPage, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	page := &parsedPage{doc: doc, nextLink: hasNextLink(doc)}
	doc.Find(`div[id^="vcard"]`).Each(func(i int, card *goquery.Selection) {
		page.fragments++
		rec, err := parseCard(card, i, base)
		if err != nil {
			page.warnings = append(page.warnings, Warning{
				CardID: card.AttrOr("id", ""),
				Index:  i,
				Reason: err.Error(),
			})
			return
		}
		page.records = append(page.records, rec)
	})
	return page, nil
}

func parseDocument(body []byte) (*goquery.Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New(errors.CodeResponseParse, "empty response body")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeResponseParse, "failed to parse HTML")
	}
	// a JSON error payload or plain text ends up as a bare text node under <body>
	if doc.Find("body").Children().Length() == 0 {
		return nil, errors.New(errors.CodeResponseParse, "response has no HTML content")
	}
	return doc, nil
}

func parseCard(card *goquery.Selection, position int, base *url.URL) (VideoRecord, error) {
	videoID := strings.TrimSpace(card.Find("a.fullpagelnk").First().AttrOr("vid", ""))
	if videoID == "" {
		return VideoRecord{}, fmt.Errorf("missing video id")
	}

	rec := VideoRecord{
		videoID: videoID,
		cardID:  card.AttrOr("id", ""),
		index:   position,
	}
	if idx, err := strconv.Atoi(strings.TrimSpace(card.AttrOr("idx", ""))); err == nil {
		rec.index = idx
	}

	if src, ok := card.Find("img.thumb-image").First().Attr("src"); ok {
		rec.thumbnailURL = resolveURL(base, src)
	}

	rec.videoURL = watchURLPrefix + url.QueryEscape(videoID)
	if href, ok := card.Find(`a[href*="youtube.com/watch"]`).First().Attr("href"); ok {
		rec.videoURL = resolveURL(base, href)
	}

	rec.title = normSpace(card.Find("div.d-inline").First().Text())

	channel := card.Find(`a[href^="/channel/"]`).First()
	rec.channelName = normSpace(channel.Text())
	if href, ok := channel.Attr("href"); ok {
		rec.channelID = channelIDFromPath(href)
	}

	card.Find("span.badge").Each(func(_ int, badge *goquery.Selection) {
		text := normSpace(badge.Text())
		switch {
		case badge.Find("i.fa-eye").Length() > 0:
			rec.views = parseCount(text)
		case badge.Find("i.fa-thumbs-up").Length() > 0:
			rec.likes = parseCount(text)
		case strings.IndexFunc(text, unicode.IsLetter) >= 0:
			rec.uploadDateText = text
			rec.uploadDate = parseUploadDate(text)
		}
	})

	rec.language = strings.TrimSpace(card.Find(`a[href*="/sidebyside"] img`).First().AttrOr("alt", ""))
	rec.excerpt = normSpace(card.Find("div.scroll-box").First().Text())

	return rec, nil
}

func hasNextLink(doc *goquery.Document) bool {
	if doc.Find(`a[rel="next"], link[rel="next"]`).Length() > 0 {
		return true
	}
	found := false
	doc.Find(".pagination a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.ToLower(normSpace(a.Text()))
		if text == "»" || strings.HasPrefix(text, "next") {
			parent := a.Parent()
			found = !parent.HasClass("disabled") && !a.HasClass("disabled")
		}
		return !found
	})
	return found
}

// parseCount converts displayed counts such as "1,234", "30K" or "1.2M"
func parseCount(text string) int64 {
	m := countPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(m[2]) {
	case "k":
		num *= 1e3
	case "m":
		num *= 1e6
	case "b":
		num *= 1e9
	}
	return int64(math.Round(num))
}

func parseUploadDate(text string) time.Time {
	for _, layout := range uploadDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}
	return time.Time{}
}

func channelIDFromPath(href string) string {
	rest, ok := strings.CutPrefix(href, "/channel/")
	if !ok {
		return ""
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	ref, err := url.Parse(href)
	if err != nil || base == nil || ref.IsAbs() {
		return href
	}
	return base.ResolveReference(ref).String()
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
