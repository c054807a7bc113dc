// Package storage provides the object-store backend for archive media.
package storage

import "context"

// BlobStore stores and removes media payloads and maps between object keys
// and the public URLs recorded on archive entries.
type BlobStore interface {
	// Put uploads data under key and returns the durable public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete removes the object under key.
	Delete(ctx context.Context, key string) error

	// KeyFromURL maps a public URL back to its object key. Returns false
	// for URLs that do not belong to this store.
	KeyFromURL(url string) (string, bool)
}
