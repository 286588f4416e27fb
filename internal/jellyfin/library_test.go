package jellyfin

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// libraryHandler serves /Items pages for a synthetic library. Pages
// listed in failPages answer 500.
func libraryHandler(t *testing.T, total int, failPages map[int]bool) (http.Handler, *atomic.Int64) {
	t.Helper()
	requests := new(atomic.Int64)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		q := r.URL.Query()
		if q.Get("IncludeItemTypes") != "Audio" || q.Get("sortBy") != "DateCreated" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		start, _ := strconv.Atoi(q.Get("StartIndex"))
		limit, _ := strconv.Atoi(q.Get("Limit"))
		if failPages[start/libraryPageSize] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		count := total - start
		if count > limit {
			count = limit
		}
		if count < 0 {
			count = 0
		}
		items := make([]Track, 0, count)
		for i := 0; i < count; i++ {
			items = append(items, Track{
				ID:           fmt.Sprintf("track-%d", start+i),
				Name:         fmt.Sprintf("Track %d", start+i),
				Album:        "Album",
				Artists:      []string{"Artist"},
				DateCreated:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				RunTimeTicks: 1800000000,
			})
		}
		writeJSON(t, w, itemsPage{Items: items, TotalRecordCount: total, StartIndex: start})
	})
	return handler, requests
}

func TestLibrarySinglePage(t *testing.T) {
	handler, requests := libraryHandler(t, 250, nil)
	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, newTestMeta(t))

	snap, err := client.Library(t.Context(), "lib-1", true)
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if len(snap.Tracks) != 250 || snap.TotalRecordCount != 250 {
		t.Fatalf("unexpected snapshot: %d/%d", len(snap.Tracks), snap.TotalRecordCount)
	}
	if requests.Load() != 1 {
		t.Fatalf("expected 1 request, got %d", requests.Load())
	}
}

func TestLibraryFetchesPagesConcurrently(t *testing.T) {
	handler, requests := libraryHandler(t, 3500, nil)
	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, newTestMeta(t))

	snap, err := client.Library(t.Context(), "lib-1", true)
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if len(snap.Tracks) != 3500 || snap.TotalRecordCount != 3500 {
		t.Fatalf("unexpected snapshot: %d/%d", len(snap.Tracks), snap.TotalRecordCount)
	}
	if requests.Load() != 4 {
		t.Fatalf("expected 4 page requests, got %d", requests.Load())
	}

	seen := make(map[string]bool, len(snap.Tracks))
	for _, track := range snap.Tracks {
		if seen[track.ID] {
			t.Fatalf("duplicate track %s", track.ID)
		}
		seen[track.ID] = true
	}
}

func TestLibraryDropsFailedPages(t *testing.T) {
	handler, _ := libraryHandler(t, 2500, map[int]bool{1: true})
	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, newTestMeta(t))

	snap, err := client.Library(t.Context(), "lib-1", true)
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if len(snap.Tracks) != 1500 {
		t.Fatalf("expected 1500 tracks after dropping page 1, got %d", len(snap.Tracks))
	}
	if snap.TotalRecordCount != 2500 {
		t.Fatalf("reported total must stay 2500, got %d", snap.TotalRecordCount)
	}
}

func TestLibraryFirstPageFailureIsFatal(t *testing.T) {
	handler, _ := libraryHandler(t, 2500, map[int]bool{0: true})
	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, newTestMeta(t))

	if _, err := client.Library(t.Context(), "lib-1", true); err == nil {
		t.Fatalf("expected error when page 0 fails")
	}
}

func TestLibraryCacheRoundTrip(t *testing.T) {
	handler, requests := libraryHandler(t, 42, nil)
	meta := newTestMeta(t)
	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, meta)

	fetched, err := client.Library(t.Context(), "lib-1", false)
	if err != nil {
		t.Fatalf("Library: %v", err)
	}

	// Second, non-forced call must come straight off disk.
	cached, err := client.Library(t.Context(), "lib-1", false)
	if err != nil {
		t.Fatalf("Library cached: %v", err)
	}
	if requests.Load() != 1 {
		t.Fatalf("cache hit must not touch the network, got %d requests", requests.Load())
	}
	if !reflect.DeepEqual(fetched, cached) {
		t.Fatalf("cached snapshot differs from fetched one")
	}
}

func TestLibraryForceRefreshRepopulatesCache(t *testing.T) {
	handler, requests := libraryHandler(t, 10, nil)
	meta := newTestMeta(t)
	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, meta)

	if _, err := client.Library(t.Context(), "lib-1", false); err != nil {
		t.Fatalf("Library: %v", err)
	}
	if _, err := client.Library(t.Context(), "lib-1", true); err != nil {
		t.Fatalf("Library refresh: %v", err)
	}
	if requests.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", requests.Load())
	}

	if _, ok := meta.Load("library.json"); !ok {
		t.Fatalf("refresh must repopulate the cache")
	}
}

func TestSnapshotCellSwap(t *testing.T) {
	var cell SnapshotCell
	if cell.Load() != nil {
		t.Fatalf("expected nil before first sync")
	}

	first := &Snapshot{TotalRecordCount: 1}
	cell.Swap(first)
	if cell.Load() != first {
		t.Fatalf("expected first snapshot")
	}

	second := &Snapshot{TotalRecordCount: 2}
	cell.Swap(second)
	if cell.Load() != second {
		t.Fatalf("expected second snapshot")
	}
}
