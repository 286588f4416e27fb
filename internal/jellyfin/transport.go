package jellyfin

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

const (
	clientName    = "jellydesk"
	clientVersion = "0.1.0"

	// Used when the machine hostname cannot be read. Resolving the
	// device name must never fail a request.
	fallbackDeviceName = "jellydesk-device"
)

// Transport issues HTTP verbs against one server, attaching the
// MediaBrowser authentication header to every request. It performs no
// retries and no timeout handling of its own.
type Transport struct {
	host   string
	header string
	http   *http.Client
}

func newTransport(host string, token string, deviceID string) *Transport {
	return &Transport{
		host:   strings.TrimRight(strings.TrimSpace(host), "/"),
		header: authHeader(token, deviceID),
		http:   &http.Client{},
	}
}

// Get issues a GET against endpoint with params.
func (t *Transport) Get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	return t.do(ctx, http.MethodGet, endpoint, params, nil)
}

// Post issues a POST against endpoint with params and an optional JSON body.
func (t *Transport) Post(ctx context.Context, endpoint string, params url.Values, body []byte) (*http.Response, error) {
	return t.do(ctx, http.MethodPost, endpoint, params, body)
}

// Delete issues a DELETE against endpoint with params.
func (t *Transport) Delete(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	return t.do(ctx, http.MethodDelete, endpoint, params, nil)
}

func (t *Transport) do(ctx context.Context, method string, endpoint string, params url.Values, body []byte) (*http.Response, error) {
	endpointURL := t.host + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		endpointURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Authorization", t.header)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	return resp, nil
}

// authHeader builds the MediaBrowser identity header. The Token
// fragment is appended only when a token is present; anonymous calls
// still send a well-formed header.
func authHeader(token string, deviceID string) string {
	header := fmt.Sprintf("MediaBrowser Client=%q, Device=%q, DeviceId=%q, Version=%q",
		clientName, deviceName(), deviceID, clientVersion)
	if token != "" {
		header += fmt.Sprintf(", Token=%q", token)
	}
	return header
}

func deviceName() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return fallbackDeviceName
	}
	return name
}
