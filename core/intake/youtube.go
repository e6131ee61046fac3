package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"vidarc/logger"
)

// ErrNoVideoID is returned when no platform video identifier can be extracted
// from an embedded-link input.
var ErrNoVideoID = errors.New("no video id found in link")

// YouTube video IDs are 11 characters from this alphabet.
var (
	bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	linkPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	}
)

// ExtractVideoID pulls the YouTube video ID out of a watch/share/embed/shorts
// link, or accepts a bare 11-character ID.
func ExtractVideoID(link string) (string, error) {
	if bareIDPattern.MatchString(link) {
		return link, nil
	}
	for _, p := range linkPatterns {
		if m := p.FindStringSubmatch(link); m != nil {
			return m[1], nil
		}
	}
	return "", ErrNoVideoID
}

// EmbedURL derives the canonical embeddable playback URL for a video ID.
func EmbedURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s", videoID)
}

// ThumbnailURL derives the deterministic thumbnail URL for a video ID.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID)
}

var oembedClient = &http.Client{Timeout: 5 * time.Second}

// FetchOEmbedTitle asks the platform's oEmbed endpoint for the video title.
// Best effort: an empty string is returned on any failure.
func FetchOEmbedTitle(videoID string) string {
	watchURL := url.QueryEscape("https://www.youtube.com/watch?v=" + videoID)
	endpoint := fmt.Sprintf("https://www.youtube.com/oembed?url=%s&format=json", watchURL)

	resp, err := oembedClient.Get(endpoint)
	if err != nil {
		logger.Debug("oEmbed title lookup failed", logger.String("videoId", videoID), logger.ErrorField(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("oEmbed title lookup returned non-OK status",
			logger.String("videoId", videoID), logger.Int("status", resp.StatusCode))
		return ""
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Title
}
