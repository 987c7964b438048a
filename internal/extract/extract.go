package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Extraction errors.
var (
	// ErrUnsupportedType indicates a content type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported content type")

	// ErrEmptyContent indicates an upload with no usable text.
	ErrEmptyContent = errors.New("document content is empty")
)

// Extractor produces the raw text of an uploaded file.
type Extractor interface {
	// Extract returns the plain text of content. The contentType is the
	// media type claimed by the upload, without parameters.
	Extract(content []byte, contentType string) (string, error)
}

// TextExtractor handles plain-text uploads. Input must be valid UTF-8;
// surrounding whitespace is trimmed.
type TextExtractor struct{}

var _ Extractor = (*TextExtractor)(nil)

// NewTextExtractor returns an extractor for text/plain content.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract implements Extractor.
func (e *TextExtractor) Extract(content []byte, contentType string) (string, error) {
	if !supportsType(contentType) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", ErrUnsupportedType)
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", ErrEmptyContent
	}

	return text, nil
}

func supportsType(contentType string) bool {
	// Uploads frequently arrive with no declared type; treat them as text.
	if contentType == "" {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "text/plain", "text/markdown", "application/octet-stream":
		return true
	}
	return false
}
