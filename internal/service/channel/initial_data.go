package channel

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/bes-dev/youtube-caption-finder/internal/errors"
)

// initialDataPattern matches the assignment of the page's initial data object,
// either `window["ytInitialData"] = {` or `ytInitialData = {`
var initialDataPattern = regexp.MustCompile(`(?:window\[\s*['"]ytInitialData['"]\s*\]|ytInitialData)\s*=\s*\{`)

// Metadata is the channel information embedded in a channel page
type Metadata struct {
	ExternalID string `json:"externalId"`
	Title      string `json:"title"`
	VanityURL  string `json:"vanityChannelUrl"`
}

// ExtractMetadata reads the channel metadata embedded in a channel page
func ExtractMetadata(page []byte) (*Metadata, error) {
	loc := initialDataPattern.FindIndex(page)
	if loc == nil {
		return nil, errors.New(errors.CodeChannelNotFound, "channel page has no ytInitialData")
	}

	raw, err := balancedObject(page, loc[1]-1)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeChannelNotFound, "failed to extract ytInitialData")
	}

	var data struct {
		Metadata struct {
			ChannelMetadataRenderer Metadata `json:"channelMetadataRenderer"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, errors.CodeChannelNotFound, "failed to decode ytInitialData")
	}

	meta := data.Metadata.ChannelMetadataRenderer
	meta.ExternalID = strings.TrimSpace(meta.ExternalID)
	if meta.ExternalID == "" {
		return nil, errors.New(errors.CodeChannelNotFound, "ytInitialData has no channel externalId")
	}
	return &meta, nil
}

// balancedObject returns the JSON object starting at data[start], which must be '{'.
// Braces inside string literals are ignored.
func balancedObject(data []byte, start int) ([]byte, error) {
	if start < 0 || start >= len(data) || data[start] != '{' {
		return nil, fmt.Errorf("no object at offset %d", start)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(data); i++ {
		c := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return data[start : i+1], nil
			}
		}
	}
	return nil, fmt.Errorf("unterminated object starting at offset %d", start)
}
