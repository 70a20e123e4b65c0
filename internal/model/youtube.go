package model

import "time"

// Channel represents a YouTube channel whose canonical ID has been resolved
type Channel struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name,omitempty" db:"name"`
	URL        string    `json:"url" db:"url"`
	ResolvedAt time.Time `json:"resolved_at" db:"resolved_at"`
}

// Video represents a caption search hit as stored in the archive
type Video struct {
	ID           string    `json:"id" db:"id"`
	ChannelID    string    `json:"channel_id,omitempty" db:"channel_id"`
	ChannelName  string    `json:"channel_name,omitempty" db:"channel_name"`
	Title        string    `json:"title" db:"title"`
	URL          string    `json:"url,omitempty" db:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Views        int64     `json:"views" db:"views"`
	Likes        int64     `json:"likes" db:"likes"`
	UploadDate   time.Time `json:"upload_date,omitzero" db:"upload_date"`
	Language     string    `json:"language,omitempty" db:"language"`
	Excerpt      string    `json:"excerpt,omitempty" db:"excerpt"`
	Query        string    `json:"query,omitempty" db:"query"` // search query that produced the hit
}
