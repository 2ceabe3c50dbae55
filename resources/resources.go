package resources

import (
	"fmt"
	"io"
	"net/http"
)

// FetchHTTP fetches rsrc from a remote HTTP server using client (http.
// DefaultClient if nil). Grounded in the teacher's own FetchHTTP
// (resources.go), generalized to a context-free GET of a full URL rather
// than a uri+rsrc pair, since tiktoken's vocabulary blobs are addressed by
// one complete URL (encodings.go) rather than a base path joined with a
// resource name, and to an injectable client rather than the package-level
// http.DefaultClient, so a caller behind a proxy or under test can supply
// its own transport instead of mutating global state.
func FetchHTTP(url string, client *http.Client) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("tiktoken: GET %s: HTTP status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// SizeHTTP HEADs url via client and returns its Content-Length, or 0 if the
// server does not report one.
func SizeHTTP(url string, client *http.Client) (uint64, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Head(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("tiktoken: HEAD %s: HTTP status %d", url, resp.StatusCode)
	}
	if resp.ContentLength < 0 {
		return 0, nil
	}
	return uint64(resp.ContentLength), nil
}
