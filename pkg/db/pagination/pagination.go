// Package pagination implements opaque cursor tokens for list endpoints.
// Cursors encode the last seen row id, so pages stay stable while new rows
// are inserted ahead of them.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

var ErrInvalidToken = errors.New("invalid page token")

// Pagination carries the query parameters list handlers bind. A zero
// PageSize disables pagination and returns the full listing.
type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int    `form:"page_size" json:"page_size"`
}

// Cursor marks a position in a listing ordered by descending id.
type Cursor struct {
	ID string `json:"id,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(c Cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeCursor(token string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, ErrInvalidToken
	}
	return &c, nil
}

// Clamp bounds the requested page size between 0 and max.
func Clamp(size, max int) int {
	if size < 0 {
		return 0
	}
	if size > max {
		return max
	}
	return size
}
