// Copyright 2025 Recall Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package extract

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// youtubeIDPattern matches the canonical YouTube URL shapes: watch pages,
// short links, embeds, shorts and live URLs. A video ID is always 11
// characters from the base64url alphabet.
var youtubeIDPattern = regexp.MustCompile(
	`(?i)(?:youtube\.com/(?:watch\?(?:[^#\s]*&)?v=|embed/|shorts/|live/)|youtu\.be/)([A-Za-z0-9_-]{11})`)

// youtubeVideoID extracts the video ID from a YouTube URL. The second
// return value reports whether the URL is a YouTube video at all; link
// submissions use it to reclassify themselves.
func youtubeVideoID(url string) (string, bool) {
	match := youtubeIDPattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// fetchVideoMetadata looks up title and description through the YouTube
// Data API. Without an API key the lookup degrades to empty strings so
// that saving a video never requires a Google credential.
func (e *Extractor) fetchVideoMetadata(ctx context.Context, id string) (title, description string, err error) {
	if e.youtubeAPIKey == "" {
		e.logger.Debug("no YouTube API key configured, skipping metadata", "video_id", id)
		return "", "", nil
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(e.youtubeAPIKey))
	if err != nil {
		return "", "", err
	}

	response, err := service.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		return "", "", err
	}
	if len(response.Items) == 0 {
		return "", "", fmt.Errorf("%w: video %s not found", ErrUnreachableSource, id)
	}

	snippet := response.Items[0].Snippet
	if snippet == nil {
		return "", "", nil
	}
	return snippet.Title, snippet.Description, nil
}

// timedTextURL is the caption endpoint used for transcript fetches.
const timedTextURL = "https://video.google.com/timedtext?lang=en&v="

// timedText models the caption XML returned by the timedtext endpoint.
type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// fetchTranscript pulls English captions for the video. Captions are
// frequently disabled or absent, so every failure degrades to an empty
// string rather than an error.
func (e *Extractor) fetchTranscript(ctx context.Context, id string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, timedTextURL+id, nil)
	if err != nil {
		return ""
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Debug("transcript fetch failed", "video_id", id, "err", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var captions timedText
	if err := xml.Unmarshal(raw, &captions); err != nil {
		e.logger.Debug("transcript parse failed", "video_id", id, "err", err)
		return ""
	}

	parts := make([]string, 0, len(captions.Texts))
	for _, text := range captions.Texts {
		if line := strings.TrimSpace(text.Value); line != "" {
			parts = append(parts, line)
		}
	}
	return collapseWhitespace(strings.Join(parts, " "))
}
