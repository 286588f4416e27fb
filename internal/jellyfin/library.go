package jellyfin

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

const (
	libraryCacheKey = "library.json"
	libraryPageSize = 1000
)

// Library materializes the full audio library under one library root.
// Unless forceRefresh is set, a cached copy on disk short-circuits the
// network entirely. A fetched result is persisted best-effort before
// being returned; the caller swaps it into the shared snapshot cell.
func (c *Client) Library(ctx context.Context, libraryID string, forceRefresh bool) (*Snapshot, error) {
	if !forceRefresh && c.meta != nil {
		if data, ok := c.meta.Load(libraryCacheKey); ok {
			var snap Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				return &snap, nil
			}
			c.log.Warn("discarding unreadable library cache", zap.String("key", libraryCacheKey))
		}
	}

	snap, err := c.fetchLibrary(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	c.persist(libraryCacheKey, snap)
	return snap, nil
}

// fetchLibrary fetches page 0 to learn the total, then fetches all
// remaining pages concurrently. Failed pages are logged and dropped;
// the reported total is left uncorrected. Page results are appended in
// completion order, which is acceptable because consumers rely only on
// the per-page DateCreated sort the server applied.
func (c *Client) fetchLibrary(ctx context.Context, libraryID string) (*Snapshot, error) {
	first, err := c.libraryPage(ctx, libraryID, 0)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Tracks: first.Items, TotalRecordCount: first.TotalRecordCount}
	remaining := first.TotalRecordCount - libraryPageSize
	if remaining <= 0 {
		return snap, nil
	}

	pages := (remaining + libraryPageSize - 1) / libraryPageSize
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		dropped []int
	)
	for i := 1; i <= pages; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			result, err := c.libraryPage(ctx, libraryID, page*libraryPageSize)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.log.Warn("library page fetch failed",
					zap.Int("page", page),
					zap.Error(err))
				dropped = append(dropped, page)
				return
			}
			snap.Tracks = append(snap.Tracks, result.Items...)
		}(i)
	}
	wg.Wait()

	if len(dropped) > 0 {
		c.log.Warn("library loaded with missing pages",
			zap.Ints("pages", dropped),
			zap.Int("loaded", len(snap.Tracks)),
			zap.Int("reported", snap.TotalRecordCount))
	}
	return snap, nil
}

func (c *Client) libraryPage(ctx context.Context, libraryID string, start int) (itemsPage, error) {
	params := url.Values{}
	params.Set("parentId", libraryID)
	params.Set("IncludeItemTypes", "Audio")
	params.Set("sortBy", "DateCreated")
	params.Set("sortOrder", "Descending")
	params.Set("recursive", "true")
	params.Set("Fields", "DateCreated,Artists,Album,AlbumId,NormalizationGain,ProductionYear")
	params.Set("StartIndex", strconv.Itoa(start))
	params.Set("Limit", strconv.Itoa(libraryPageSize))

	var page itemsPage
	if err := c.getJSON(ctx, "/Items", params, &page); err != nil {
		return itemsPage{}, err
	}
	return page, nil
}
