// Package archive implements the client side of the archive workflow:
// loading the curated entry list, drafting entries with queued media
// previews, and submitting creates, edits, and deletions to the server.
//
// Like the story map, state is an immutable snapshot: operations take the
// current State and return the next one. Operations that talk to the
// server also return an applied flag; false means a newer call superseded
// this one and its result must be discarded.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/storyatlas/storyatlas/internal/client/models"
	"github.com/storyatlas/storyatlas/internal/dataurl"
	"github.com/storyatlas/storyatlas/internal/logging"
)

// Status messages surfaced to the user.
const (
	StatusLoadFailed    = "Could not load the archive right now."
	StatusMissingFields = "Title, description, and context are required."
	StatusSaveFailed    = "Could not save the entry right now."
	StatusSaved         = "Entry saved to the archive."
	StatusNeedsConfirm  = "Confirm deletion to remove this entry."
	StatusDeleteFailed  = "Could not delete the entry right now."
	StatusDeleted       = "Entry removed from the archive."
)

// State is one snapshot of the archive screen.
//
// Entries is the authoritative server list, newest first. Previews holds
// media queued for the next save as data URLs, newest first.
// RemovedMediaKeys are URLs of already-stored assets marked for removal
// on the next save of the entry being edited.
type State struct {
	Entries          []models.Entry
	Form             models.EntryForm
	EditingID        string
	Previews         []models.MediaAsset
	RemovedMediaKeys []string
	Status           string
}

func (s State) withStatus(status string) State {
	s.Status = status
	return s
}

// File is one local file picked for upload.
type File struct {
	Name string
	Type string
	Open func() (io.ReadCloser, error)
}

// Client drives archive state transitions against the server API.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	logger  logging.Logger

	// listGen guards entry-list replacement: only the most recent
	// server call may apply its response.
	listGen atomic.Uint64
}

// NewClient returns a Client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger logging.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 2
	retryClient.HTTPClient.Timeout = timeout

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    retryClient,
		logger:  logger,
	}
}

// LoadAll fetches the full entry list. A transport or server failure sets
// an error status and leaves the current entries untouched, so the caller
// can still tell "failed" apart from "empty archive".
func (c *Client) LoadAll(ctx context.Context, s State) (State, bool) {
	gen := c.listGen.Add(1)

	entries, err := c.call(ctx, http.MethodGet, nil)

	if c.listGen.Load() != gen {
		return s, false
	}
	if err != nil {
		c.logger.Warn(ctx, "archive load failed", "error", err.Error())
		return s.withStatus(StatusLoadFailed), true
	}

	s.Entries = entries
	return s, true
}

type queuedPreview struct {
	asset models.MediaAsset
	err   error
}

// QueueFiles reads each file concurrently into a base64 data URL preview
// tagged with its name and MIME type. New previews are prepended in the
// order the files were given, regardless of read-completion order. A read
// failure for one file sets a status naming it and does not disturb the
// others.
func (c *Client) QueueFiles(ctx context.Context, s State, files []File) State {
	if len(files) == 0 {
		return s
	}

	results := make([]queuedPreview, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			results[i] = readPreview(f)
		}(i, f)
	}
	wg.Wait()

	queued := make([]models.MediaAsset, 0, len(files))
	for i, r := range results {
		if r.err != nil {
			c.logger.Warn(ctx, "file read failed", "name", files[i].Name, "error", r.err.Error())
			s.Status = fmt.Sprintf("Could not read %s.", files[i].Name)
			continue
		}
		queued = append(queued, r.asset)
	}

	s.Previews = append(queued, s.Previews...)
	return s
}

func readPreview(f File) queuedPreview {
	rc, err := f.Open()
	if err != nil {
		return queuedPreview{err: fmt.Errorf("opening %s: %w", f.Name, err)}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return queuedPreview{err: fmt.Errorf("reading %s: %w", f.Name, err)}
	}

	return queuedPreview{asset: models.MediaAsset{
		Name: f.Name,
		Type: f.Type,
		URL:  dataurl.Encode(f.Type, data),
	}}
}

// ToggleMediaRemoval marks or unmarks an already-stored asset for removal
// on the next save. It is a pending intent only; nothing is deleted until
// the edit is submitted.
func (c *Client) ToggleMediaRemoval(s State, url string) State {
	for i, key := range s.RemovedMediaKeys {
		if key == url {
			s.RemovedMediaKeys = append(s.RemovedMediaKeys[:i:i], s.RemovedMediaKeys[i+1:]...)
			return s
		}
	}
	s.RemovedMediaKeys = append(s.RemovedMediaKeys[:len(s.RemovedMediaKeys):len(s.RemovedMediaKeys)], url)
	return s
}

// StartEdit loads an entry into the form and switches to edit mode,
// discarding any queued previews and removal marks.
func (c *Client) StartEdit(s State, entry models.Entry) State {
	s.EditingID = entry.ID
	s.Form = models.EntryForm{
		Title:       entry.Title,
		Type:        entry.Type,
		Description: entry.Description,
		Meta:        entry.Meta,
		Href:        entry.Href,
	}
	s.Previews = nil
	s.RemovedMediaKeys = nil
	return s
}

// CancelEdit clears the form and leaves edit mode.
func (c *Client) CancelEdit(s State) State {
	return clearDraft(s)
}

// SubmitEntry validates the form and routes to create (no EditingID) or
// update. On success the server's refreshed list replaces Entries and the
// draft form, previews, and removal marks are cleared.
func (c *Client) SubmitEntry(ctx context.Context, s State) (State, bool) {
	if strings.TrimSpace(s.Form.Title) == "" ||
		strings.TrimSpace(s.Form.Description) == "" ||
		strings.TrimSpace(s.Form.Meta) == "" {
		return s.withStatus(StatusMissingFields), true
	}

	payload := map[string]any{
		"title":       s.Form.Title,
		"type":        s.Form.Type,
		"description": s.Form.Description,
		"meta":        s.Form.Meta,
		"href":        s.Form.Href,
		"media":       previewsPayload(s.Previews),
	}
	method := http.MethodPost
	if s.EditingID != "" {
		method = http.MethodPatch
		payload["id"] = s.EditingID
		payload["removeMediaKeys"] = s.RemovedMediaKeys
	}

	gen := c.listGen.Add(1)

	entries, err := c.call(ctx, method, payload)

	if c.listGen.Load() != gen {
		return s, false
	}
	if err != nil {
		c.logger.Warn(ctx, "archive save failed", "error", err.Error())
		return s.withStatus(StatusSaveFailed), true
	}

	s.Entries = entries
	s = clearDraft(s)
	s.Status = StatusSaved
	return s, true
}

// DeleteEntry removes an entry. It refuses to dispatch without explicit
// confirmation. On success the refreshed list replaces Entries; if the
// deleted entry was being edited, the form is cleared too.
func (c *Client) DeleteEntry(ctx context.Context, s State, id string, confirmed bool) (State, bool) {
	if !confirmed {
		return s.withStatus(StatusNeedsConfirm), true
	}

	gen := c.listGen.Add(1)

	entries, err := c.call(ctx, http.MethodDelete, map[string]any{"id": id})

	if c.listGen.Load() != gen {
		return s, false
	}
	if err != nil {
		c.logger.Warn(ctx, "archive delete failed", "id", id, "error", err.Error())
		return s.withStatus(StatusDeleteFailed), true
	}

	s.Entries = entries
	if s.EditingID == id {
		s = clearDraft(s)
	}
	s.Status = StatusDeleted
	return s, true
}

func clearDraft(s State) State {
	s.Form = models.EntryForm{}
	s.EditingID = ""
	s.Previews = nil
	s.RemovedMediaKeys = nil
	return s
}

func previewsPayload(previews []models.MediaAsset) []map[string]string {
	out := make([]map[string]string, 0, len(previews))
	for _, p := range previews {
		out = append(out, map[string]string{"name": p.Name, "type": p.Type, "url": p.URL})
	}
	return out
}

// call issues one request against /api/archive and decodes the refreshed
// entry list. Non-200 responses surface the server's error message.
func (c *Client) call(ctx context.Context, method string, payload map[string]any) ([]models.Entry, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+"/api/archive", body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(raw, "error"); msg.Exists() {
			return nil, fmt.Errorf("archive API: %s", msg.String())
		}
		return nil, fmt.Errorf("archive API returned status %d", resp.StatusCode)
	}

	var decoded struct {
		Entries []models.Entry `json:"entries"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decoding entry list: %w", err)
	}
	return decoded.Entries, nil
}
