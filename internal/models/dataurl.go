package models

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedDataURL = errors.New("malformed data URL")

// BuildDataURL wraps base64 payload in a renderable data URL
func BuildDataURL(mimeType, encoded string) string {
	return "data:" + mimeType + ";base64," + encoded
}

// StripDataURLPrefix returns the payload of a base64 data URL, or s itself
// when it carries no prefix.
func StripDataURLPrefix(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	idx := strings.Index(s, ";base64,")
	if idx < 0 {
		return s
	}
	return s[idx+len(";base64,"):]
}

// ParseDataURL splits a base64 data URL into its mime type and decoded bytes
func ParseDataURL(url string) (string, []byte, error) {
	if !strings.HasPrefix(url, "data:") {
		return "", nil, ErrMalformedDataURL
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(url, "data:"), ",")
	if !ok {
		return "", nil, ErrMalformedDataURL
	}
	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrMalformedDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedDataURL, err)
	}
	return mimeType, data, nil
}
