package jellyfin

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey-austin/jellydesk/internal/diskcache"
)

func TestAuthenticate(t *testing.T) {
	var gotAuth string
	handler := http.NewServeMux()
	handler.HandleFunc("/Users/authenticatebyname", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req authRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Username != "alice" || req.Pw != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(t, w, authResponse{AccessToken: "tok-1", User: authUser{ID: "user-1"}})
	})

	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test/", DeviceID: "dev-1"}, nil)

	creds, err := client.Authenticate(t.Context(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if creds.Token != "tok-1" || creds.UserID != "user-1" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
	if creds.Host != "http://jf.test" {
		t.Fatalf("expected trimmed host, got %s", creds.Host)
	}
	if creds.DeviceID != "dev-1" {
		t.Fatalf("device id must carry over, got %s", creds.DeviceID)
	}
	if strings.Contains(gotAuth, "Token=") {
		t.Fatalf("login must not send a token fragment: %s", gotAuth)
	}
}

func TestAuthenticateBadPassword(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test"}, nil)

	_, err := client.Authenticate(t.Context(), "alice", "wrong")
	if !IsAuthFailed(err) {
		t.Fatalf("expected authentication failure, got %v", err)
	}
}

func TestStatusClassification(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "database on fire")
	})

	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, nil)

	_, err := client.Views(t.Context())
	var clientErr *Error
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if clientErr.Kind != KindHTTP || clientErr.Status != 500 {
		t.Fatalf("unexpected classification: %+v", clientErr)
	}
	if !strings.Contains(clientErr.Message, "database on fire") {
		t.Fatalf("expected body in message: %+v", clientErr)
	}
}

func TestTransportFailureClassification(t *testing.T) {
	client := New(zap.NewNop(), Credentials{Host: "http://jf.test", Token: "tok"}, nil)
	client.transport.http = &http.Client{Transport: failingTripper{}}

	_, err := client.Views(t.Context())
	kind, ok := KindOf(err)
	if !ok || kind != KindTransport {
		t.Fatalf("expected transport kind, got %v", err)
	}
}

func TestParseFailureClassification(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json at all")
	})

	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, nil)

	_, err := client.Views(t.Context())
	kind, ok := KindOf(err)
	if !ok || kind != KindParse {
		t.Fatalf("expected parse kind, got %v", err)
	}
}

func TestViews(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc("/UserViews", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("userId") != "user-1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(t, w, viewsResponse{Items: []View{
			{ID: "music", Name: "Music", CollectionType: "music"},
		}})
	})

	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok", UserID: "user-1"}, nil)

	views, err := client.Views(t.Context())
	if err != nil {
		t.Fatalf("Views: %v", err)
	}
	if len(views) != 1 || views[0].ID != "music" {
		t.Fatalf("unexpected views: %+v", views)
	}
}

func TestPlaylistsCachesResult(t *testing.T) {
	var requests int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("IncludeItemTypes") != "Playlist" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(t, w, playlistsPage{Items: []Playlist{
			{ID: "pl-1", Name: "Favourites", ChildCount: 12},
		}, TotalRecordCount: 1})
	})

	meta := newTestMeta(t)
	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok", UserID: "user-1"}, meta)

	first, err := client.Playlists(t.Context(), false)
	if err != nil {
		t.Fatalf("Playlists: %v", err)
	}
	second, err := client.Playlists(t.Context(), false)
	if err != nil {
		t.Fatalf("Playlists cached: %v", err)
	}

	if requests != 1 {
		t.Fatalf("expected a single request, got %d", requests)
	}
	if len(first) != 1 || len(second) != 1 || second[0].Name != "Favourites" {
		t.Fatalf("unexpected playlists: %+v %+v", first, second)
	}

	if _, err := client.Playlists(t.Context(), true); err != nil {
		t.Fatalf("Playlists refresh: %v", err)
	}
	if requests != 2 {
		t.Fatalf("force refresh must bypass the cache read, got %d requests", requests)
	}
}

func TestPlaylistItemsOrder(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc("/Playlists/pl-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, playlistResponse{ItemIDs: []string{"c", "a", "b"}})
	})

	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, nil)

	items, err := client.PlaylistItems(t.Context(), "pl-1")
	if err != nil {
		t.Fatalf("PlaylistItems: %v", err)
	}
	if strings.Join(items, ",") != "c,a,b" {
		t.Fatalf("server order must be preserved: %v", items)
	}
}

func TestPlaylistMutations(t *testing.T) {
	type call struct {
		method string
		path   string
		query  string
	}
	var calls []call
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery})
		w.WriteHeader(http.StatusNoContent)
	})

	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok", UserID: "user-1"}, nil)
	ctx := t.Context()

	if err := client.AddPlaylistItem(ctx, "pl-1", "item-9"); err != nil {
		t.Fatalf("AddPlaylistItem: %v", err)
	}
	if err := client.MovePlaylistItem(ctx, "pl-1", "item-9", 3); err != nil {
		t.Fatalf("MovePlaylistItem: %v", err)
	}
	if err := client.RemovePlaylistItem(ctx, "pl-1", "entry-4"); err != nil {
		t.Fatalf("RemovePlaylistItem: %v", err)
	}
	if err := client.RequestLibraryRescan(ctx, "lib-1"); err != nil {
		t.Fatalf("RequestLibraryRescan: %v", err)
	}

	if len(calls) != 4 {
		t.Fatalf("expected 4 calls, got %d", len(calls))
	}
	if calls[0].method != http.MethodPost || calls[0].path != "/Playlists/pl-1/Items" {
		t.Fatalf("unexpected add call: %+v", calls[0])
	}
	if !strings.Contains(calls[0].query, "ids=item-9") || !strings.Contains(calls[0].query, "userId=user-1") {
		t.Fatalf("unexpected add query: %s", calls[0].query)
	}
	if calls[1].path != "/Playlists/pl-1/Items/item-9/Move/3" {
		t.Fatalf("unexpected move path: %s", calls[1].path)
	}
	if calls[2].method != http.MethodDelete || !strings.Contains(calls[2].query, "entryIds=entry-4") {
		t.Fatalf("unexpected remove call: %+v", calls[2])
	}
	if calls[3].path != "/Items/lib-1/Refresh" || !strings.Contains(calls[3].query, "Recursive=true") {
		t.Fatalf("unexpected rescan call: %+v", calls[3])
	}
}

func TestImage(t *testing.T) {
	handler := http.NewServeMux()
	handler.HandleFunc("/Items/item-1/Images/Primary", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("fillHeight") != "200" || q.Get("fillWidth") != "200" || q.Get("quality") != "96" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})

	client := newClientForTest(t, handler, Credentials{Host: "http://jf.test", Token: "tok"}, nil)

	data, err := client.Image(t.Context(), "item-1")
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if !bytes.Equal(data, []byte{0xff, 0xd8, 0xff}) {
		t.Fatalf("unexpected image bytes: %v", data)
	}
}

func TestStreamURI(t *testing.T) {
	client := New(zap.NewNop(), Credentials{
		Host:   "http://jf.test/",
		Token:  "tok-1",
		UserID: "user-1",
	}, nil)

	want := "http://jf.test/Audio/item-1/universal" +
		"?api_key=tok-1&userId=user-1" +
		"&container=flac,opus,mp3,aac,m4a,ogg,wav,webm|opus,webm|webma,webma"
	if got := client.StreamURI("item-1"); got != want {
		t.Fatalf("unexpected stream uri:\n got %s\nwant %s", got, want)
	}
}

func newClientForTest(t *testing.T, handler http.Handler, creds Credentials, meta *diskcache.Cache) *Client {
	t.Helper()
	client := New(zap.NewNop(), creds, meta)
	client.transport.http = newTestClient(handler)
	return client
}

func newTestMeta(t *testing.T) *diskcache.Cache {
	t.Helper()
	meta, err := diskcache.New(zap.NewNop(), t.TempDir())
	if err != nil {
		t.Fatalf("diskcache.New: %v", err)
	}
	return meta
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode json: %v", err)
	}
}

func newTestClient(handler http.Handler) *http.Client {
	return &http.Client{Transport: roundTripper{handler: handler}}
}

type roundTripper struct {
	handler http.Handler
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	respCh := make(chan *http.Response, 1)

	go func() {
		recorder := httptest.NewRecorder()
		bodyBytes, _ := io.ReadAll(req.Body)
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		rt.handler.ServeHTTP(recorder, req)
		respCh <- recorder.Result()
	}()

	select {
	case <-req.Context().Done():
		return nil, req.Context().Err()
	case resp := <-respCh:
		return resp, nil
	}
}

type failingTripper struct{}

func (failingTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: lookup jf.test: no such host")
}
