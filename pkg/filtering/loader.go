package filtering

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const (
	// DefaultUserAgent is the client signature sent with every download.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 6.1; Win64; x64; rv:62.0) Gecko/20100101 Firefox/62.0"
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 60 * time.Second
)

// ErrInvalidEncoding is returned for bodies that are not valid UTF-8.
var ErrInvalidEncoding = errors.New("body is not valid utf-8")

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	UserAgent string
	Timeout   time.Duration
	CacheDir  string
	Fs        afero.Fs
	Client    *http.Client
	Log       *slog.Logger
}

// Fetcher retrieves raw list bodies from URLs and local files.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	cacheDir  string
	fs        afero.Fs
	log       *slog.Logger
}

// NewFetcher constructs a Fetcher, filling unset options with defaults.
func NewFetcher(opts FetcherOptions) *Fetcher {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		cacheDir:  EnsureCacheDir(fs, opts.CacheDir, log),
		fs:        fs,
		log:       log,
	}
}

// EnsureCacheDir creates the cache directory if missing. Returns an empty string on failure.
func EnsureCacheDir(fs afero.Fs, cacheDir string, log *slog.Logger) string {
	if cacheDir == "" {
		return ""
	}
	if err := fs.MkdirAll(cacheDir, 0o750); err != nil {
		if log != nil {
			log.Error("failed to create cache dir, caching disabled", "dir", cacheDir, "error", err)
		}
		return ""
	}
	return cacheDir
}

// Fetch returns the body of source. The wait is bounded by the fetcher's timeout.
func (f *Fetcher) Fetch(ctx context.Context, source Source) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	data, fromCache, err := f.readSource(ctx, source)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	if !fromCache && f.cacheDir != "" && isURL(source.Location) {
		if err := f.writeCache(source, data); err != nil {
			f.log.Warn("failed to write cache", "list", source.DisplayName(), "error", err)
		}
	}
	return data, nil
}

func (f *Fetcher) readSource(ctx context.Context, source Source) ([]byte, bool, error) {
	if !isURL(source.Location) {
		data, err := f.readFile(ctx, source.Location)
		return data, false, err
	}

	data, err := f.download(ctx, source)
	if err == nil {
		return data, false, nil
	}
	if f.cacheDir == "" || errors.Is(ctx.Err(), context.Canceled) {
		return nil, false, err
	}
	cached, cacheErr := f.readCache(source)
	if cacheErr != nil {
		return nil, false, fmt.Errorf("download failed: %w; cache error: %s", err, cacheErr.Error())
	}
	f.log.Warn("download failed, using cached list", "list", source.DisplayName(), "error", err)
	return cached, true, nil
}

func (f *Fetcher) readFile(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := location
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parse file url: %w", err)
		}
		path = u.Path
	}
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func (f *Fetcher) download(ctx context.Context, source Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.Location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	applyAuth(req, source.Auth)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.log.Warn("failed to close list response body", "error", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func applyAuth(req *http.Request, auth AuthConfig) {
	if auth.Username != "" || auth.Password != "" {
		req.SetBasicAuth(auth.Username, auth.Password)
	}
	if auth.Token != "" {
		header := auth.Header
		if header == "" {
			header = "Authorization"
		}
		scheme := auth.Scheme
		if scheme == "" {
			scheme = "Bearer"
		}
		req.Header.Set(header, strings.TrimSpace(scheme+" "+auth.Token))
	}
}

func (f *Fetcher) writeCache(source Source, data []byte) error {
	path := filepath.Join(f.cacheDir, cacheFileName(source))
	return afero.WriteFile(f.fs, path, data, 0o600)
}

func (f *Fetcher) readCache(source Source) ([]byte, error) {
	path := filepath.Join(f.cacheDir, cacheFileName(source))
	return afero.ReadFile(f.fs, path)
}

// cacheFileName keys the cache on the list location. The sanitized ID or name
// only prefixes the hash for readability, since default names repeat across
// blocklists and whitelists.
func cacheFileName(source Source) string {
	hash := sha256.Sum256([]byte(source.Location))
	suffix := hex.EncodeToString(hash[:8])

	prefix := sanitizeID(source.ID)
	if prefix == "" {
		prefix = sanitizeID(source.Name)
	}
	if prefix == "" {
		prefix = "custom"
	}
	return prefix + "-" + suffix + ".txt"
}

func sanitizeID(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	builder := strings.Builder{}
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			builder.WriteRune(r)
		case r >= '0' && r <= '9':
			builder.WriteRune(r)
		default:
			builder.WriteRune('_')
		}
	}
	return builder.String()
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
