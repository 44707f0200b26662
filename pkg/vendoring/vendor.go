// Package vendoring fetches pinned external CI building blocks, verifies
// their content hash, and installs them under the workspace. Only a fully
// verified archive ever reaches a destination path.
package vendoring

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RepoPair identifies a source repository as "owner/repo".
type RepoPair struct {
	Owner string
	Repo  string
}

// ParseRepoPair parses an "owner/repo" string.
func ParseRepoPair(s string) (RepoPair, error) {
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" {
		return RepoPair{}, fmt.Errorf("invalid repository %q, expected owner/repo", s)
	}
	return RepoPair{Owner: owner, Repo: repo}, nil
}

func (r RepoPair) String() string {
	return r.Owner + "/" + r.Repo
}

// IntegrityError reports a vendored archive whose content hash did not match
// the pinned expectation. The destination path is left untouched.
type IntegrityError struct {
	Repo     string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("vendored archive for %s failed integrity check: expected sha256 %s, got %s",
		e.Repo, e.Expected, e.Actual)
}

// Verifier fetches and installs pinned archives. Invocations for distinct
// dependencies may run concurrently; two invocations targeting the same
// destination race on the replace sequence and must be sequenced by the
// caller.
type Verifier struct {
	client  *http.Client
	baseURL string
	logger  zerolog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithBaseURL overrides the archive host; tests point this at a local server.
func WithBaseURL(url string) Option {
	return func(v *Verifier) { v.baseURL = strings.TrimSuffix(url, "/") }
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(v *Verifier) { v.logger = logger }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) { v.client = client }
}

// NewVerifier creates a verifier with a 60s fetch timeout.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: "https://github.com",
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Vendor fetches the archive for repo at the pinned revision, verifies its
// sha256 against expectedHash, and replaces any prior copy at
// root/<repo.Repo> with the extracted contents. On integrity mismatch or any
// transport or filesystem failure, the destination is left as it was.
func (v *Verifier) Vendor(ctx context.Context, root string, repo RepoPair, revision, expectedHash string) error {
	url := fmt.Sprintf("%s/%s/archive/%s.tar.gz", v.baseURL, repo, revision)

	v.logger.Info().
		Str("repo", repo.String()).
		Str("revision", revision).
		Msg("Vendoring pinned dependency")

	body, err := v.fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	// Verify before touching the destination: a mismatched or truncated
	// download must never replace an existing vendored copy.
	sum := sha256.Sum256(body)
	actual := hex.EncodeToString(sum[:])
	if actual != expectedHash {
		return &IntegrityError{
			Repo:     repo.String(),
			Expected: expectedHash,
			Actual:   actual,
		}
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("failed to create vendor root: %w", err)
	}

	// Stage the extraction next to the destination so the final rename stays
	// on one filesystem.
	staging, err := os.MkdirTemp(root, ".vendor-")
	if err != nil {
		return fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := untarGz(body, staging); err != nil {
		return fmt.Errorf("failed to extract archive for %s: %w", repo, err)
	}

	// The archive's top-level directory is named repo-revision.
	extracted := filepath.Join(staging, fmt.Sprintf("%s-%s", repo.Repo, revision))
	if _, err := os.Stat(extracted); err != nil {
		return fmt.Errorf("archive for %s missing expected top-level directory: %w", repo, err)
	}

	// Full replace, never an incremental update.
	dest := filepath.Join(root, repo.Repo)
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to remove prior vendored copy: %w", err)
	}
	if err := os.Rename(extracted, dest); err != nil {
		return fmt.Errorf("failed to install vendored copy: %w", err)
	}

	return nil
}

func (v *Verifier) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// untarGz extracts a gzipped tarball into dest, rejecting entries that would
// escape it.
func untarGz(data []byte, dest string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("invalid tar stream: %w", err)
		}

		name := filepath.Clean(hdr.Name)
		if name == "." || strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			continue
		}
		path := filepath.Join(dest, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		default:
			// Symlinks and other entry types are not expected in action
			// archives; skip them rather than fail.
		}
	}
}
