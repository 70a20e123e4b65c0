package search

import (
	"encoding/json"
	"time"

	"github.com/bes-dev/youtube-caption-finder/internal/model"
)

// VideoRecord is one search hit. Records are only produced by the page parser
// and cannot be modified after construction.
type VideoRecord struct {
	videoID        string
	title          string
	channelName    string
	channelID      string
	views          int64
	likes          int64
	uploadDate     time.Time
	uploadDateText string
	cardID         string
	index          int
	thumbnailURL   string
	videoURL       string
	language       string
	excerpt        string
}

func (v VideoRecord) VideoID() string       { return v.videoID }
func (v VideoRecord) Title() string         { return v.title }
func (v VideoRecord) ChannelName() string   { return v.channelName }
func (v VideoRecord) ChannelID() string     { return v.channelID }
func (v VideoRecord) Views() int64          { return v.views }
func (v VideoRecord) Likes() int64          { return v.likes }
func (v VideoRecord) UploadDate() time.Time { return v.uploadDate }

// UploadDateText is the upload date exactly as displayed, kept when it could not be parsed
func (v VideoRecord) UploadDateText() string { return v.uploadDateText }

// CardID is the id attribute of the result card the record was parsed from
func (v VideoRecord) CardID() string       { return v.cardID }
func (v VideoRecord) Index() int           { return v.index }
func (v VideoRecord) ThumbnailURL() string { return v.thumbnailURL }
func (v VideoRecord) VideoURL() string     { return v.videoURL }
func (v VideoRecord) Language() string     { return v.language }

// Excerpt is the matched caption text shown with the hit
func (v VideoRecord) Excerpt() string { return v.excerpt }

// Model converts the record to its archive form
func (v VideoRecord) Model() *model.Video {
	return &model.Video{
		ID:           v.videoID,
		ChannelID:    v.channelID,
		ChannelName:  v.channelName,
		Title:        v.title,
		URL:          v.videoURL,
		ThumbnailURL: v.thumbnailURL,
		Views:        v.views,
		Likes:        v.likes,
		UploadDate:   v.uploadDate,
		Language:     v.language,
		Excerpt:      v.excerpt,
	}
}

func (v VideoRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Model())
}
