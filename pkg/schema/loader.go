package schema

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultVersionURL serves the current studio version string.
	DefaultVersionURL = "https://setup.rbxcdn.com/versionQTStudio"
	// DefaultDumpURLFormat yields the dump location for a version string.
	DefaultDumpURLFormat = "https://setup.rbxcdn.com/%s-API-Dump.json"
	// CacheFileName is the flattened registry cache, stored next to the
	// executable by default.
	CacheFileName = "reactls_schema.bin"
)

// ErrCacheMissing reports an absent cache file, distinct from a corrupt one
// so callers can fall back to downloading.
var ErrCacheMissing = errors.Base("schema cache not found")

// Loader fetches, caches, and restores the flattened class catalog. The
// filesystem is abstracted so tests run against an in-memory FS.
type Loader struct {
	fs        afero.Fs
	client    *http.Client
	versionURL string
	dumpURL    string
	cachePath  string
}

// NewLoader builds a loader over the given filesystem and cache path. A nil
// client falls back to http.DefaultClient.
func NewLoader(fs afero.Fs, client *http.Client, versionURL, dumpURLFormat, cachePath string) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		fs:         fs,
		client:     client,
		versionURL: versionURL,
		dumpURL:    dumpURLFormat,
		cachePath:  cachePath,
	}
}

// DefaultCachePath places the cache next to the running executable,
// mirroring where editors expect the server to keep its state.
func DefaultCachePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Errorf("resolving executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), CacheFileName), nil
}

// Download fetches the current API dump and returns the flattened entries.
// The dump URL is versioned, so the version manifest is fetched first.
func (l *Loader) Download(ctx context.Context) (map[string]Entry, error) {
	version, err := l.get(ctx, l.versionURL)
	if err != nil {
		return nil, errors.Errorf("fetching dump version: %w", err)
	}

	url := fmt.Sprintf(l.dumpURL, strings.TrimSpace(string(version)))
	dump, err := l.get(ctx, url)
	if err != nil {
		return nil, errors.Errorf("fetching api dump: %w", err)
	}

	entries, err := ParseDump(dump)
	if err != nil {
		return nil, errors.Errorf("parsing api dump: %w", err)
	}
	return entries, nil
}

func (l *Loader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("building request for %s: %w", url, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("requesting %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Errorf("reading response from %s: %w", url, err)
	}
	return body, nil
}

// ReadCache restores the flattened entries from the binary cache. A missing
// cache is reported distinctly so callers can fall back to downloading.
func (l *Loader) ReadCache() (map[string]Entry, error) {
	exists, err := afero.Exists(l.fs, l.cachePath)
	if err != nil {
		return nil, errors.Errorf("checking schema cache: %w", err)
	}
	if !exists {
		return nil, errors.Errorf("reading %s: %w", l.cachePath, ErrCacheMissing)
	}

	file, err := l.fs.Open(l.cachePath)
	if err != nil {
		return nil, errors.Errorf("opening schema cache: %w", err)
	}
	defer file.Close()

	var entries map[string]Entry
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return nil, errors.Errorf("decoding schema cache: %w", err)
	}
	return entries, nil
}

// WriteCache persists the flattened entries as the binary cache.
func (l *Loader) WriteCache(entries map[string]Entry) error {
	file, err := l.fs.Create(l.cachePath)
	if err != nil {
		return errors.Errorf("creating schema cache: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		return errors.Errorf("encoding schema cache: %w", err)
	}
	return nil
}

// WriteReadable writes an indented JSON rendition of the entries into dir,
// for inspecting what the cache actually holds.
func (l *Loader) WriteReadable(dir string, entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Errorf("encoding readable schema: %w", err)
	}

	path := filepath.Join(dir, "reactls_schema.json")
	if err := afero.WriteFile(l.fs, path, data, 0o644); err != nil {
		return errors.Errorf("writing readable schema: %w", err)
	}
	return nil
}
