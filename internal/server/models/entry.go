// Package models defines the data models persisted by the Story Atlas
// server.
package models

import "time"

// Entry types accepted by the archive.
const (
	EntryTypePhoto    = "Photo"
	EntryTypeEssay    = "Essay"
	EntryTypeLink     = "Link"
	EntryTypeArtifact = "Artifact"
)

// MediaAsset is a file attached to an archive entry.
//
// Before upload, URL is a base64 data URL held only in memory; after upload
// it is a durable public object-store URL. An asset's identity for removal
// purposes is its URL.
type MediaAsset struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ArchiveEntry is a durable record describing a historical artifact, story,
// or resource, optionally with attached media.
//
// Media order is preserved across edits: newly uploaded assets come first,
// retained ones after.
type ArchiveEntry struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Meta        string       `json:"meta"`
	Href        string       `json:"href,omitempty"`
	Media       []MediaAsset `json:"media"`
	CreatedAt   time.Time    `json:"created_at"`
}

// EntryPatch carries a partial update for an archive entry. Nil fields are
// left unchanged; this keeps "not provided" distinct from "set to empty".
type EntryPatch struct {
	Title       *string `json:"title"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Meta        *string `json:"meta"`
	Href        *string `json:"href"`
}
