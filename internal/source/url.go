package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bianoble/confsync/internal/config"
)

// HTTPClient is the subset of http.Client the URL resolver needs,
// extracted so tests can substitute a fake.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// URLResolver fetches managed documents from HTTP(S) URLs. The source's
// URL points directly at the document; an optional sha256 checksum pins
// the content.
type URLResolver struct {
	Client  HTTPClient
	MaxSize int64         // max document size in bytes (0 = default 10 MiB)
	Timeout time.Duration // fetch timeout (0 = no extra timeout beyond context)
}

const defaultMaxSize = 10 << 20

func (u *URLResolver) Fetch(ctx context.Context, src config.Source, file string, projectRoot string) ([]byte, error) {
	if src.URL == "" {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("url is required")}
	}

	if u.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("building request: %w", err)}
	}

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: err, Hint: "check the URL and network connectivity"}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{
			Source:    src.Name,
			Operation: "fetch",
			Err:       fmt.Errorf("unexpected status %s from %s", resp.Status, src.URL),
		}
	}

	maxSize := u.MaxSize
	if maxSize == 0 {
		maxSize = defaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, &SourceError{Source: src.Name, Operation: "fetch", Err: fmt.Errorf("reading response: %w", err)}
	}
	if int64(len(data)) > maxSize {
		return nil, &SourceError{
			Source:    src.Name,
			Operation: "fetch",
			Err:       fmt.Errorf("document exceeds %d bytes", maxSize),
		}
	}

	if src.Checksum != "" {
		if err := verifyChecksum(data, src.Checksum); err != nil {
			return nil, &SourceError{
				Source:    src.Name,
				Operation: "fetch",
				Err:       err,
				Hint:      "the upstream content has changed — update the checksum in your config",
			}
		}
	}

	return data, nil
}

func verifyChecksum(data []byte, checksum string) error {
	algo, expected, found := strings.Cut(checksum, ":")
	if !found || expected == "" {
		return fmt.Errorf("invalid checksum '%s' — expected 'sha256:<hex>'", checksum)
	}
	if algo != "sha256" {
		return fmt.Errorf("unsupported checksum algorithm '%s' — only 'sha256' is supported", algo)
	}
	sum := sha256.Sum256(data)
	actual := hex.EncodeToString(sum[:])
	if actual != strings.ToLower(expected) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}
