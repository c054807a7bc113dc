package models

import "time"

// MediaAsset is one attachment on an archive entry. For entries already
// stored on the server, URL is the public object URL; for queued previews
// it is a base64 data URL not yet uploaded.
type MediaAsset struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Entry mirrors the server's archive entry wire shape.
type Entry struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Meta        string       `json:"meta"`
	Href        string       `json:"href,omitempty"`
	Media       []MediaAsset `json:"media"`
	CreatedAt   time.Time    `json:"created_at"`
}

// EntryForm holds the editable scalar fields of the archive draft form.
type EntryForm struct {
	Title       string
	Type        string
	Description string
	Meta        string
	Href        string
}
