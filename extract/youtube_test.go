package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYoutubeVideoID(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		id    string
		found bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url with extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"live", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"plain page", "https://example.com/watch?v=dQw4w9WgXcQ", "", false},
		{"channel url", "https://www.youtube.com/@somechannel", "", false},
		{"not a url", "just some text", "", false},
		{"short id", "https://youtu.be/short", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, found := youtubeVideoID(tt.url)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.id, id)
		})
	}
}
