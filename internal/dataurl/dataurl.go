// Package dataurl encodes and decodes base64 data URLs of the form
// "data:<mime>;base64,<payload>". The client uses them to hold media
// previews in memory before upload; the server decodes them into blob
// payloads.
package dataurl

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Encode builds a data URL for the given payload.
func Encode(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode extracts the binary payload from a data URL.
//
// A URL without a comma separator is not decodable; callers that iterate
// over media payloads are expected to skip those (ok == false) rather than
// fail the whole batch. A present-but-invalid base64 payload is an error.
func Decode(url string) (data []byte, ok bool, err error) {
	idx := strings.IndexByte(url, ',')
	if idx < 0 {
		return nil, false, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(url[idx+1:])
	if err != nil {
		return nil, false, fmt.Errorf("decode base64 payload: %w", err)
	}
	return decoded, true, nil
}
