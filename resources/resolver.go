// Package resources fetches and caches tiktoken vocabulary files, the way
// the reference tokenizer's own blobpath cache does: a vocabulary is
// addressed by a URL, cached on disk under a name derived from that URL,
// and optionally checked against a known SHA-256 digest.
package resources

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// WriteCounter reports download progress to the standard logger every ten
// seconds, adapted from the teacher's resolver.go WriteCounter for this
// package's single-file, single-URL fetch model. RequestID tags every log
// line from one download so concurrent LoadEncoding calls (e.g. a batch
// job warming several encodings at once) don't interleave indistinguishably
// in the log.
type WriteCounter struct {
	Total     uint64
	Size      uint64
	Path      string
	RequestID string
	last      time.Time
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Total += uint64(n)
	if time.Since(wc.last).Seconds() > 10 {
		wc.last = time.Now()
		log.Printf("[%s] Downloading %s... %s / %s completed.",
			wc.RequestID, wc.Path, humanize.Bytes(wc.Total), humanize.Bytes(wc.Size))
	}
	return n, nil
}

// DefaultCacheDir is the directory Fetch caches downloaded vocabularies
// in: an explicit override first (TIKTOKEN_CACHE_DIR), then a well-known
// legacy override name (DATA_GYM_CACHE_DIR), then a "tiktoken" directory
// under the platform cache directory (os.UserCacheDir), then a temp
// directory.
func DefaultCacheDir() string {
	if dir := os.Getenv("TIKTOKEN_CACHE_DIR"); dir != "" {
		return dir
	}
	if dir := os.Getenv("DATA_GYM_CACHE_DIR"); dir != "" {
		return dir
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "tiktoken")
	}
	return filepath.Join(os.TempDir(), "data-gym-cache")
}

// cacheFileName derives a cache file name from a vocabulary's URL, the way
// the reference tokenizer keys its cache on sha1(blobpath).
func cacheFileName(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// ErrHashMismatch is returned by Fetch when a downloaded or cached file's
// SHA-256 digest does not match the digest the caller expected.
var ErrHashMismatch = errors.New("tiktoken: downloaded file does not match expected SHA-256 digest")

func verifySHA256(data []byte, expectedHex string) bool {
	if expectedHex == "" {
		return true
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) == expectedHex
}

// Fetch returns url's contents, using cacheDir (DefaultCacheDir() if empty)
// as an on-disk cache keyed by url. If expectedSHA256 is non-empty, both a
// cache hit and a fresh download are checked against it; a mismatched
// cache entry is treated as a miss and re-downloaded once.
func Fetch(url string, cacheDir string, expectedSHA256 string) ([]byte, error) {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	cachePath := filepath.Join(cacheDir, cacheFileName(url))

	if data, err := readCached(cachePath); err == nil {
		if verifySHA256(data, expectedSHA256) {
			return data, nil
		}
		log.Printf("tiktoken: cached %s failed hash check, re-downloading", url)
	}

	data, err := download(url)
	if err != nil {
		return nil, fmt.Errorf("tiktoken: fetching %s: %w", url, err)
	}
	if !verifySHA256(data, expectedSHA256) {
		return nil, ErrHashMismatch
	}

	if err := writeCache(cacheDir, cachePath, data); err != nil {
		log.Printf("tiktoken: caching %s: %v", url, err)
	}
	return data, nil
}

// readCached reads a cached vocabulary file via mmap (mmap.go) rather than
// a full read into a freshly allocated buffer: a cl100k_base vocabulary is
// over two megabytes of text, and the common case — process start-up,
// cache already warm — never needs to touch most of those pages unless
// ParseTiktokenBPE's scanner does. On wasm/js builds, where mmap isn't
// available, mmap_web.go falls back to an ordinary read.
func readCached(cachePath string) ([]byte, error) {
	file, err := os.Open(cachePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := readMmap(file)
	if err != nil {
		return nil, err
	}
	return *data, nil
}

func download(url string) ([]byte, error) {
	body, err := FetchHTTP(url, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	size, _ := SizeHTTP(url, nil)
	counter := &WriteCounter{Size: size, Path: url, RequestID: uuid.NewString()[:8], last: time.Now()}
	return io.ReadAll(io.TeeReader(body, counter))
}

// writeCache writes data to cachePath atomically: it is written to a
// sibling temp file first, then renamed into place, so a concurrent reader
// never observes a partially-written cache file.
func writeCache(cacheDir, cachePath string, data []byte) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(cacheDir, "tiktoken-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), cachePath)
}
