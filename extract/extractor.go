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
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/recallhq/recall/core"
)

const (
	// maxLinkBodyChars caps the readable text extracted from a web page.
	maxLinkBodyChars = 10000

	// maxVideoBodyChars caps the transcript text extracted from a video.
	maxVideoBodyChars = 15000
)

// Request is one raw submission handed to the extractor.
type Request struct {
	// Kind is the declared content kind.
	Kind core.ContentKind

	// Content is the note text, or the source URL for links, videos and
	// fetched images.
	Content string

	// Data holds uploaded bytes for image submissions. When set it takes
	// precedence over Content.
	Data []byte

	// MIMEType is the declared media type of Data.
	MIMEType string

	// Title and Description optionally prefill metadata, typically from a
	// browser extension. Fetched values win when both are present.
	Title       string
	Description string
}

// Result is the extractor's output, ready to become enrichment prompt parts.
type Result struct {
	// Kind is the resolved content kind. It can differ from the request:
	// a link to a YouTube watch page resolves to the video kind, and an
	// unreachable image degrades to a note.
	Kind core.ContentKind

	// SourceURL is the canonical source, empty for notes and uploads.
	SourceURL string

	Title       string
	Description string

	// Body is the extracted text. Never persisted; it exists only to feed
	// enrichment.
	Body string

	// ImageData and ImageMIMEType carry the binary payload for image
	// submissions.
	ImageData     []byte
	ImageMIMEType string
}

// Extractor resolves submissions into extraction results.
type Extractor struct {
	httpClient    *http.Client
	youtubeAPIKey string
	logger        *slog.Logger
}

// Option is a functional option for configuring an Extractor.
type Option func(*Extractor)

// WithHTTPClient replaces the HTTP client used for page, image and
// transcript fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) {
		e.httpClient = client
	}
}

// WithYouTubeAPIKey enables video metadata lookups through the YouTube Data
// API. Without a key, video titles and descriptions degrade to empty
// strings instead of failing.
func WithYouTubeAPIKey(key string) Option {
	return func(e *Extractor) {
		e.youtubeAPIKey = key
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor with the given options.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract resolves a single submission. All failures wrap ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, req *Request) (*Result, error) {
	switch req.Kind {
	case core.ContentKindNote:
		return e.extractNote(req)
	case core.ContentKindLink:
		return e.extractLink(ctx, req)
	case core.ContentKindVideo:
		return e.extractVideo(ctx, req)
	case core.ContentKindImage:
		return e.extractImage(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %w: %s", ErrExtraction, ErrUnsupportedKind, req.Kind)
	}
}

// extractNote passes the note text through verbatim.
func (e *Extractor) extractNote(req *Request) (*Result, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, ErrEmptyContent)
	}
	return &Result{
		Kind:        core.ContentKindNote,
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Content,
	}, nil
}

// extractLink fetches the page and reduces it to readable text. Links to
// YouTube watch pages are reclassified as videos and take the video path.
func (e *Extractor) extractLink(ctx context.Context, req *Request) (*Result, error) {
	url := strings.TrimSpace(req.Content)
	if url == "" {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, ErrEmptyContent)
	}

	if id, ok := youtubeVideoID(url); ok {
		e.logger.Debug("link reclassified as video", "url", url, "video_id", id)
		return e.extractVideoByID(ctx, url, id)
	}

	title, description, body, err := e.fetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %v", ErrExtraction, ErrUnreachableSource, url, err)
	}

	if title == "" {
		title = req.Title
	}
	if description == "" {
		description = req.Description
	}

	return &Result{
		Kind:        core.ContentKindLink,
		SourceURL:   url,
		Title:       title,
		Description: description,
		Body:        truncate(body, maxLinkBodyChars),
	}, nil
}

// extractVideo resolves a video submission by its URL.
func (e *Extractor) extractVideo(ctx context.Context, req *Request) (*Result, error) {
	url := strings.TrimSpace(req.Content)
	id, ok := youtubeVideoID(url)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", ErrExtraction, ErrInvalidVideoURL, url)
	}
	return e.extractVideoByID(ctx, url, id)
}

func (e *Extractor) extractVideoByID(ctx context.Context, url, id string) (*Result, error) {
	title, description, err := e.fetchVideoMetadata(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: video metadata: %w", ErrExtraction, err)
	}

	// Transcript fetch is best effort; captions are often disabled.
	transcript := e.fetchTranscript(ctx, id)

	body := transcript
	if body == "" {
		body = description
	}

	return &Result{
		Kind:        core.ContentKindVideo,
		SourceURL:   url,
		Title:       title,
		Description: description,
		Body:        truncate(body, maxVideoBodyChars),
	}, nil
}

// extractImage produces a binary payload for enrichment. Uploaded bytes are
// used directly; a URL submission is fetched. When the fetch fails the
// submission degrades to a text-only note referencing the URL.
func (e *Extractor) extractImage(ctx context.Context, req *Request) (*Result, error) {
	if len(req.Data) > 0 {
		mimeType := req.MIMEType
		if mimeType == "" {
			mimeType = http.DetectContentType(req.Data)
		}
		return &Result{
			Kind:          core.ContentKindImage,
			Title:         req.Title,
			Description:   req.Description,
			ImageData:     req.Data,
			ImageMIMEType: mimeType,
		}, nil
	}

	url := strings.TrimSpace(req.Content)
	if url == "" {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, ErrEmptyContent)
	}

	data, mimeType, err := e.fetchImage(ctx, url)
	if err != nil {
		e.logger.Warn("image fetch failed, degrading to note", "url", url, "err", err)
		return &Result{
			Kind:      core.ContentKindNote,
			SourceURL: url,
			Title:     req.Title,
			Body:      fmt.Sprintf("Image saved from %s", url),
		}, nil
	}

	return &Result{
		Kind:          core.ContentKindImage,
		SourceURL:     url,
		Title:         req.Title,
		Description:   req.Description,
		ImageData:     data,
		ImageMIMEType: mimeType,
	}, nil
}

// truncate caps s at n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
