package extract

import "errors"

var (
	// ErrExtraction is the base class for all extraction failures.
	// Every error returned by Extract wraps it.
	ErrExtraction = errors.New("extraction failed")

	// ErrUnsupportedKind is returned for content kinds with no extraction
	// path, such as documents.
	ErrUnsupportedKind = errors.New("no extraction path for content kind")

	// ErrUnreachableSource is returned when a link target cannot be
	// fetched or returns an error status.
	ErrUnreachableSource = errors.New("source could not be fetched")

	// ErrInvalidVideoURL is returned when a video submission carries no
	// recognizable YouTube video ID.
	ErrInvalidVideoURL = errors.New("not a recognized YouTube URL")

	// ErrEmptyContent is returned when a submission has nothing to
	// extract from.
	ErrEmptyContent = errors.New("nothing to extract")
)
