// Package assets provides the client-side index of media, files and links
// shared in a Hupuna chat room. The message service extracts and
// date-buckets the assets; this package only queries, accumulates and
// windows the results.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Asset types understood by the message service.
const (
	TypeMedia = "media"
	TypeFile  = "file"
	TypeLink  = "link"
)

// The two pagination tiers: a small bounded preview when a section is first
// opened, and a large limit standing in for "all" when it is expanded.
const (
	PreviewLimit = 6
	FullLimit    = 100000
)

// Item is one shared asset derived from a message. Fields beyond id and url
// are present depending on the asset type.
type Item struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	FileName  string `json:"fileName,omitempty"`
	Type      string `json:"type,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// DateGroup is a date bucket as produced by the message service. Grouping
// and ordering are trusted as received.
type DateGroup struct {
	DateLabel string `json:"dateLabel"`
	Items     []Item `json:"items"`
}

// Page is the response of one readAssets query. Total is a pointer so an
// omitted total can be told apart from zero.
type Page struct {
	Groups []DateGroup `json:"groups"`
	Total  *int        `json:"total"`
}

// Client queries the message service's asset endpoint.
type Client struct {
	// Endpoint is the full URL of the asset query endpoint.
	Endpoint string
	// AuthToken, when set, is sent as a bearer token.
	AuthToken  string
	HTTPClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type readAssetsRequest struct {
	Action    string `json:"action"`
	RoomID    string `json:"roomId"`
	AssetType string `json:"assetType"`
	Limit     int    `json:"limit"`
}

// ValidType reports whether assetType is one of the supported kinds.
func ValidType(assetType string) bool {
	switch assetType {
	case TypeMedia, TypeFile, TypeLink:
		return true
	}
	return false
}

// ReadAssets issues one asset query for a room and type. The limit caps the
// result set server side; the response arrives pre-grouped by date.
func (c *Client) ReadAssets(ctx context.Context, roomID, assetType string, limit int) (*Page, error) {
	if roomID == "" {
		return nil, fmt.Errorf("roomID is required")
	}
	if !ValidType(assetType) {
		return nil, fmt.Errorf("unsupported asset type %q", assetType)
	}

	body, err := json.Marshal(readAssetsRequest{
		Action:    "readAssets",
		RoomID:    roomID,
		AssetType: assetType,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode asset query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build asset query: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("asset query returned status %d", resp.StatusCode)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode asset query response: %w", err)
	}
	return &page, nil
}
