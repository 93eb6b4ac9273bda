package replay

import (
	"strings"
)

type EmbedType string

const (
	EmbedTypeNone    EmbedType = "none"
	EmbedTypeYouTube EmbedType = "youtube"
	EmbedTypeVideo   EmbedType = "video"
	EmbedTypeIframe  EmbedType = "iframe"
)

type EmbedInfo struct {
	Type EmbedType `json:"type"`
	URL  string    `json:"url,omitempty"`
}

// GetEmbedInfo classifies a match replay link so clients know how to embed
// it: YouTube links are normalized to the embed URL, direct video files are
// tagged as such, anything else falls back to a generic iframe.
func GetEmbedInfo(link *string) EmbedInfo {
	if link == nil || *link == "" {
		return EmbedInfo{Type: EmbedTypeNone}
	}

	l := *link

	if strings.Contains(l, "youtube.com") || strings.Contains(l, "youtu.be") {
		videoID := ""
		if strings.Contains(l, "youtube.com/watch?v=") {
			parts := strings.Split(l, "v=")
			if len(parts) > 1 {
				videoID = parts[1]
				if idx := strings.Index(videoID, "&"); idx != -1 {
					videoID = videoID[:idx]
				}
			}
		} else if strings.Contains(l, "youtu.be/") {
			parts := strings.Split(l, "youtu.be/")
			if len(parts) > 1 {
				videoID = parts[1]
				if idx := strings.Index(videoID, "?"); idx != -1 {
					videoID = videoID[:idx]
				}
			}
		} else if strings.Contains(l, "youtube.com/embed/") {
			return EmbedInfo{Type: EmbedTypeYouTube, URL: l}
		}

		if videoID != "" {
			return EmbedInfo{Type: EmbedTypeYouTube, URL: "https://www.youtube.com/embed/" + videoID}
		}
	}

	lower := strings.ToLower(l)
	if strings.HasSuffix(lower, ".mp4") || strings.HasSuffix(lower, ".webm") || strings.HasSuffix(lower, ".ogg") || strings.HasSuffix(lower, ".mov") {
		return EmbedInfo{Type: EmbedTypeVideo, URL: l}
	}

	return EmbedInfo{Type: EmbedTypeIframe, URL: l}
}
