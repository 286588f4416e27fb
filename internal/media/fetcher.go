// Package media resolves per-item artifacts (album art, stream
// addresses) against the client and the art cache.
package media

import (
	"context"

	"go.uber.org/zap"

	"github.com/mikey-austin/jellydesk/internal/diskcache"
	"github.com/mikey-austin/jellydesk/internal/jellyfin"
)

// Fetcher is a thin composition of the API client and the album-art
// disk cache.
type Fetcher struct {
	log    *zap.Logger
	client *jellyfin.Client
	art    *diskcache.Cache
}

// NewFetcher creates a fetcher backed by client and the art cache.
func NewFetcher(log *zap.Logger, client *jellyfin.Client, art *diskcache.Cache) *Fetcher {
	return &Fetcher{log: log, client: client, art: art}
}

// Image returns album art bytes for an item. At most one network fetch
// per item id runs concurrently; everyone else hits the cache.
func (f *Fetcher) Image(ctx context.Context, itemID string) ([]byte, error) {
	return f.art.FetchOrPopulate(ctx, itemID, func(ctx context.Context) ([]byte, error) {
		return f.client.Image(ctx, itemID)
	})
}

// StreamURI returns the playback address for an item. Cheap string
// construction, never cached.
func (f *Fetcher) StreamURI(itemID string) string {
	return f.client.StreamURI(itemID)
}
