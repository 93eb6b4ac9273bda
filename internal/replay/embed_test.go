package replay

import (
	"testing"

	"github.com/mossholder/creatureleague/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestGetEmbedInfo(t *testing.T) {
	testCases := []struct {
		name     string
		link     *string
		expected EmbedInfo
	}{
		{
			name:     "nil link",
			link:     nil,
			expected: EmbedInfo{Type: EmbedTypeNone},
		},
		{
			name:     "empty link",
			link:     utils.Ptr(""),
			expected: EmbedInfo{Type: EmbedTypeNone},
		},
		{
			name:     "youtube watch URL",
			link:     utils.Ptr("https://www.youtube.com/watch?v=dQw4w9WgXcQ"),
			expected: EmbedInfo{Type: EmbedTypeYouTube, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name:     "youtube watch URL with extra params",
			link:     utils.Ptr("https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s"),
			expected: EmbedInfo{Type: EmbedTypeYouTube, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name:     "short youtu.be URL",
			link:     utils.Ptr("https://youtu.be/dQw4w9WgXcQ?si=xyz"),
			expected: EmbedInfo{Type: EmbedTypeYouTube, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name:     "already an embed URL",
			link:     utils.Ptr("https://www.youtube.com/embed/dQw4w9WgXcQ"),
			expected: EmbedInfo{Type: EmbedTypeYouTube, URL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		},
		{
			name:     "direct mp4",
			link:     utils.Ptr("https://cdn.example.com/replays/final.mp4"),
			expected: EmbedInfo{Type: EmbedTypeVideo, URL: "https://cdn.example.com/replays/final.mp4"},
		},
		{
			name:     "uppercase extension",
			link:     utils.Ptr("https://cdn.example.com/replays/final.WEBM"),
			expected: EmbedInfo{Type: EmbedTypeVideo, URL: "https://cdn.example.com/replays/final.WEBM"},
		},
		{
			name:     "anything else is an iframe",
			link:     utils.Ptr("https://replays.example.com/view/123"),
			expected: EmbedInfo{Type: EmbedTypeIframe, URL: "https://replays.example.com/view/123"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetEmbedInfo(tc.link))
		})
	}
}
