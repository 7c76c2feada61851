package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultHTTPTimeout bounds a remote fetch when no timeout is configured.
const DefaultHTTPTimeout = 60 * time.Second

// maxAssetBytes caps how much of a single asset is read into memory.
const maxAssetBytes = 512 << 20

// Source fetches the raw bytes behind an AssetDescriptor's Source.
type Source func(ctx context.Context, source string) ([]byte, error)

// newDefaultSource returns a Source that reads local paths relative to baseDir and
// fetches http(s) URLs with client.
//
// Parameters:
//   - baseDir: the directory relative paths are resolved against
//   - client: the HTTP client used for remote sources
//
// Returns:
//   - Source: the fetcher
func newDefaultSource(baseDir string, client *http.Client) Source {
	return func(ctx context.Context, source string) ([]byte, error) {
		if isRemote(source) {
			return fetchHTTP(ctx, client, source)
		}
		p := source
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		defer f.Close()
		data, err := readLimited(f, maxAssetBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return data, nil
	}
}

// fetchHTTP performs a GET and returns the body. Non-200 responses are errors.
func fetchHTTP(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: HTTP %d", resp.StatusCode)
	}
	data, err := readLimited(resp.Body, maxAssetBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return data, nil
}

// readLimited reads all of r, failing with ErrAssetTooLarge instead of truncating when r
// holds more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("asset exceeds %d bytes: %w", limit, ErrAssetTooLarge)
	}
	return data, nil
}
