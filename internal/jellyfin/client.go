package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey-austin/jellydesk/internal/diskcache"
)

const playlistsCacheKey = "playlists.json"

// Ordered codec preference handed to the server's transcoding
// negotiation when building stream URIs.
const streamContainers = "flac,opus,mp3,aac,m4a,ogg,wav,webm|opus,webm|webma,webma"

// Client is the typed API surface over one server. It owns the
// transport and the credentials; replacing credentials means building
// a new client.
type Client struct {
	log       *zap.Logger
	transport *Transport
	creds     Credentials
	meta      *diskcache.Cache
}

// New creates a client for creds. meta is the metadata cache used for
// the library and playlist JSON blobs; it may be nil for clients that
// only authenticate.
func New(log *zap.Logger, creds Credentials, meta *diskcache.Cache) *Client {
	creds.Host = strings.TrimRight(strings.TrimSpace(creds.Host), "/")
	return &Client{
		log:       log,
		transport: newTransport(creds.Host, creds.Token, creds.DeviceID),
		creds:     creds,
		meta:      meta,
	}
}

// Credentials returns the credentials the client was built with.
func (c *Client) Credentials() Credentials { return c.creds }

// Authenticate logs in with username/password and returns a fresh
// Credentials value. The client itself is left untouched; callers
// build a new authenticated client from the result.
func (c *Client) Authenticate(ctx context.Context, username string, password string) (Credentials, error) {
	payload, err := json.Marshal(authRequest{Username: username, Pw: password})
	if err != nil {
		return Credentials{}, parseError(err)
	}

	resp, err := c.transport.Post(ctx, "/Users/authenticatebyname", nil, payload)
	if err != nil {
		return Credentials{}, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return Credentials{}, err
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return Credentials{}, parseError(err)
	}
	return Credentials{
		Host:     c.creds.Host,
		Token:    auth.AccessToken,
		UserID:   auth.User.ID,
		DeviceID: c.creds.DeviceID,
	}, nil
}

// Views lists the library roots. Not paginated, not cached.
func (c *Client) Views(ctx context.Context) ([]View, error) {
	params := url.Values{}
	params.Set("userId", c.creds.UserID)

	var views viewsResponse
	if err := c.getJSON(ctx, "/UserViews", params, &views); err != nil {
		return nil, err
	}
	return views.Items, nil
}

// Playlists lists the server playlists, reading the cached copy unless
// forceRefresh is set. A fetched result is persisted best-effort.
func (c *Client) Playlists(ctx context.Context, forceRefresh bool) ([]Playlist, error) {
	if !forceRefresh && c.meta != nil {
		if data, ok := c.meta.Load(playlistsCacheKey); ok {
			var page playlistsPage
			if err := json.Unmarshal(data, &page); err == nil {
				return page.Items, nil
			}
			c.log.Warn("discarding unreadable playlist cache", zap.String("key", playlistsCacheKey))
		}
	}

	params := url.Values{}
	params.Set("IncludeItemTypes", "Playlist")
	params.Set("recursive", "true")
	params.Set("userId", c.creds.UserID)

	var page playlistsPage
	if err := c.getJSON(ctx, "/Items", params, &page); err != nil {
		return nil, err
	}
	c.persist(playlistsCacheKey, page)
	return page.Items, nil
}

// PlaylistItems returns the ordered item ids of one playlist. The
// order is server-authoritative.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string) ([]string, error) {
	var playlist playlistResponse
	endpoint := "/Playlists/" + url.PathEscape(playlistID)
	if err := c.getJSON(ctx, endpoint, nil, &playlist); err != nil {
		return nil, err
	}
	return playlist.ItemIDs, nil
}

// AddPlaylistItem appends an item to a playlist. No local cache is
// updated; callers refetch or apply optimistic edits.
func (c *Client) AddPlaylistItem(ctx context.Context, playlistID string, itemID string) error {
	params := url.Values{}
	params.Set("ids", itemID)
	params.Set("userId", c.creds.UserID)
	endpoint := "/Playlists/" + url.PathEscape(playlistID) + "/Items"
	return c.mutate(ctx, http.MethodPost, endpoint, params)
}

// MovePlaylistItem reorders an item within a playlist.
func (c *Client) MovePlaylistItem(ctx context.Context, playlistID string, itemID string, newIndex int) error {
	endpoint := fmt.Sprintf("/Playlists/%s/Items/%s/Move/%d",
		url.PathEscape(playlistID), url.PathEscape(itemID), newIndex)
	return c.mutate(ctx, http.MethodPost, endpoint, nil)
}

// RemovePlaylistItem removes an entry from a playlist.
func (c *Client) RemovePlaylistItem(ctx context.Context, playlistID string, entryID string) error {
	params := url.Values{}
	params.Set("entryIds", entryID)
	endpoint := "/Playlists/" + url.PathEscape(playlistID) + "/Items/"
	return c.mutate(ctx, http.MethodDelete, endpoint, params)
}

// RequestLibraryRescan asks the server to rescan a library root.
// Fire-and-forget; the server does the work asynchronously.
func (c *Client) RequestLibraryRescan(ctx context.Context, libraryID string) error {
	params := url.Values{}
	params.Set("itemId", libraryID)
	params.Set("Recursive", "true")
	params.Set("ImageRefreshMode", "Default")
	params.Set("MetadataRefreshMode", "Default")
	params.Set("ReplaceAllImages", "false")
	params.Set("ReplaceAllMetadata", "false")
	endpoint := "/Items/" + url.PathEscape(libraryID) + "/Refresh"
	return c.mutate(ctx, http.MethodPost, endpoint, params)
}

// Image fetches primary album art bytes at the fixed thumbnail size.
func (c *Client) Image(ctx context.Context, itemID string) ([]byte, error) {
	params := url.Values{}
	params.Set("fillHeight", "200")
	params.Set("fillWidth", "200")
	params.Set("quality", "96")

	endpoint := "/Items/" + url.PathEscape(itemID) + "/Images/Primary"
	resp, err := c.transport.Get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	return data, nil
}

// StreamURI builds the universal audio stream address for an item.
// Pure string construction, no network call, never cached. The codec
// list keeps its literal separators, so it is assembled by hand rather
// than through url.Values.
func (c *Client) StreamURI(itemID string) string {
	return fmt.Sprintf("%s/Audio/%s/universal?api_key=%s&userId=%s&container=%s",
		c.creds.Host,
		url.PathEscape(itemID),
		url.QueryEscape(c.creds.Token),
		url.QueryEscape(c.creds.UserID),
		streamContainers)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	resp, err := c.transport.Get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return parseError(err)
	}
	return nil
}

func (c *Client) mutate(ctx context.Context, method string, endpoint string, params url.Values) error {
	var resp *http.Response
	var err error
	switch method {
	case http.MethodDelete:
		resp, err = c.transport.Delete(ctx, endpoint, params)
	default:
		resp, err = c.transport.Post(ctx, endpoint, params, nil)
	}
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// persist writes a JSON blob to the metadata cache. Cache writes are an
// optimization; failures are logged and swallowed.
func (c *Client) persist(key string, v any) {
	if c.meta == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.meta.Save(key, data); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(ioError(err)))
	}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return httpError(resp.StatusCode, strings.TrimSpace(string(body)))
}
