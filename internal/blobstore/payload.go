package blobstore

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

// DownloadPrefix is prepended to every payload sent back to clients.
const DownloadPrefix = "data:application/octet-stream;base64,"

var ErrInvalidPayload = errors.New("payload is not valid base64")

// Only the header is matched; payloads can be tens of megabytes.
var dataURIHeader = regexp.MustCompile(`^data:([A-Za-z0-9.+/\-]+);base64,$`)

// DecodePayload turns a wire payload into bytes. The payload is plain
// base64, optionally behind a data URI header such as
// "data:image/jpeg;base64,".
func DecodePayload(payload string) ([]byte, error) {
	body := payload
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ";base64,"); idx >= 0 {
			header := payload[:idx+len(";base64,")]
			if dataURIHeader.MatchString(header) {
				body = payload[len(header):]
			}
		}
	}

	body = strings.TrimSpace(body)
	if data, err := base64.StdEncoding.DecodeString(body); err == nil {
		return data, nil
	}
	// tolerate unpadded and URL-safe variants
	trimmed := strings.TrimRight(body, "=")
	if data, err := base64.RawStdEncoding.DecodeString(trimmed); err == nil {
		return data, nil
	}
	if data, err := base64.RawURLEncoding.DecodeString(trimmed); err == nil {
		return data, nil
	}
	return nil, ErrInvalidPayload
}

// EncodePayload renders bytes for the wire.
func EncodePayload(data []byte) string {
	return DownloadPrefix + base64.StdEncoding.EncodeToString(data)
}
