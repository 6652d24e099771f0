package book

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidCursor is returned for tokens that do not decode.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrCursorMismatch is returned when a cursor belongs to another config.
	ErrCursorMismatch = errors.New("cursor does not match config")
)

// CursorData is the position encoded in a page token.
type CursorData struct {
	Next        int64  `json:"next"`
	Fingerprint string `json:"fp"`
}

// EncodeCursor encodes cursor data to a base64url string.
func EncodeCursor(data CursorData) string {
	if data.Fingerprint == "" {
		return ""
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a cursor string. An empty cursor decodes to the start
// of the sequence.
func DecodeCursor(cursor string) (CursorData, error) {
	if cursor == "" {
		return CursorData{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return CursorData{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var data CursorData
	if err := json.Unmarshal(decoded, &data); err != nil {
		return CursorData{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if data.Next < 0 || data.Fingerprint == "" {
		return CursorData{}, fmt.Errorf("%w: malformed position", ErrInvalidCursor)
	}
	return data, nil
}

// CursorFor decodes cursor and checks it was issued for cfg. It returns the
// index the next page starts at.
func CursorFor(cfg Config, cursor string) (int64, error) {
	data, err := DecodeCursor(cursor)
	if err != nil {
		return 0, err
	}
	if cursor == "" {
		return 0, nil
	}
	if data.Fingerprint != cfg.Fingerprint() {
		return 0, ErrCursorMismatch
	}
	return data.Next, nil
}
