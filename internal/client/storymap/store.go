package storymap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/storyatlas/storyatlas/internal/client/models"
)

// HTTPPinStore persists pins through the server's pins API.
type HTTPPinStore struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewHTTPPinStore returns a store posting to baseURL + "/api/pins".
func NewHTTPPinStore(baseURL string, timeout time.Duration) *HTTPPinStore {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 2
	retryClient.HTTPClient.Timeout = timeout

	return &HTTPPinStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    retryClient,
	}
}

// Save posts the pin's coordinates and note. The server assigns its own
// id and rounding; the local snapshot keeps the client-side pin as is.
func (s *HTTPPinStore) Save(ctx context.Context, pin models.Pin) error {
	payload, err := json.Marshal(map[string]any{
		"lat":  pin.Lat,
		"lng":  pin.Lng,
		"note": pin.Note,
	})
	if err != nil {
		return fmt.Errorf("encoding pin: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/pins", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building pin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("saving pin: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pins API returned status %d", resp.StatusCode)
	}
	return nil
}
