package ai

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a provider failure. Codes are assigned once, at the
// provider-client boundary, so the rest of the system never inspects raw
// provider error text.
type ErrorCode int

const (
	// CodeUnknown covers failures with no recognized classification.
	CodeUnknown ErrorCode = iota

	// CodeRateLimited marks quota or rate-limit rejections.
	CodeRateLimited

	// CodeOverloaded marks transient capacity failures on the provider side.
	CodeOverloaded

	// CodeUnauthorized marks credential rejections.
	CodeUnauthorized
)

// String returns the log-friendly name of the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeRateLimited:
		return "rate_limited"
	case CodeOverloaded:
		return "overloaded"
	case CodeUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// ProviderError is a classified failure from a single provider call made
// with a single credential.
type ProviderError struct {
	Code ErrorCode
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (%s): %v", e.Code, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExhaustedError is returned when every configured credential has failed
// for one logical call. LastErr is the failure from the final attempt.
type ExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d credentials exhausted: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}

var (
	// ErrMalformedEnrichment is returned when the model's enrichment
	// response cannot be parsed into the required structure. Parse
	// failures are not retried.
	ErrMalformedEnrichment = errors.New("malformed enrichment response")

	// ErrEmbeddingDimension is returned when the provider produces a
	// vector of the wrong width. This is a configuration fault, not a
	// transient failure.
	ErrEmbeddingDimension = errors.New("embedding dimension mismatch")

	// ErrEmptyResponse is returned when the provider responds without
	// usable content.
	ErrEmptyResponse = errors.New("empty response from provider")
)

// CodeOf extracts the classification from err, looking through wrapping.
// Errors that carry no ProviderError report CodeUnknown.
func CodeOf(err error) ErrorCode {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeUnknown
}

// IsQuotaExceeded reports whether err represents quota or capacity pressure
// at the provider, anywhere in its wrap chain.
func IsQuotaExceeded(err error) bool {
	switch CodeOf(err) {
	case CodeRateLimited, CodeOverloaded:
		return true
	}
	return false
}
