package source

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bianoble/confsync/internal/config"
)

type fakeClient struct {
	status int
	body   []byte
	err    error
}

func (f *fakeClient) Do(req *http.Request) (*http.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Status:     fmt.Sprintf("%d %s", f.status, http.StatusText(f.status)),
		Body:       io.NopCloser(bytes.NewReader(f.body)),
	}, nil
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestURLFetch(t *testing.T) {
	body := []byte(`{"x": true}`)
	r := &URLResolver{Client: &fakeClient{status: 200, body: body}}
	src := config.Source{Name: "cdn", Type: "url", URL: "https://example.com/settings.json"}

	got, err := r.Fetch(context.Background(), src, "", "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("content = %q, want %q", got, body)
	}
}

func TestURLFetchVerifiesChecksum(t *testing.T) {
	body := []byte("payload")
	src := config.Source{
		Name:     "cdn",
		Type:     "url",
		URL:      "https://example.com/c.json",
		Checksum: "sha256:" + sha256Hex(body),
	}

	r := &URLResolver{Client: &fakeClient{status: 200, body: body}}
	if _, err := r.Fetch(context.Background(), src, "", ""); err != nil {
		t.Fatalf("Fetch with matching checksum: %v", err)
	}

	r = &URLResolver{Client: &fakeClient{status: 200, body: []byte("tampered")}}
	_, err := r.Fetch(context.Background(), src, "", "")
	if err == nil {
		t.Fatal("expected checksum mismatch error")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("error = %v", err)
	}
}

func TestURLFetchRejectsUnsupportedAlgorithm(t *testing.T) {
	src := config.Source{Name: "cdn", Type: "url", URL: "https://example.com/c.json", Checksum: "md5:abc"}
	r := &URLResolver{Client: &fakeClient{status: 200, body: []byte("x")}}
	_, err := r.Fetch(context.Background(), src, "", "")
	if err == nil || !strings.Contains(err.Error(), "only 'sha256' is supported") {
		t.Errorf("error = %v", err)
	}
}

func TestURLFetchNonOKStatus(t *testing.T) {
	r := &URLResolver{Client: &fakeClient{status: 404}}
	src := config.Source{Name: "cdn", Type: "url", URL: "https://example.com/gone.json"}
	_, err := r.Fetch(context.Background(), src, "", "")
	if err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Errorf("error = %v", err)
	}
}

func TestURLFetchSizeLimit(t *testing.T) {
	r := &URLResolver{Client: &fakeClient{status: 200, body: bytes.Repeat([]byte("a"), 64)}, MaxSize: 16}
	src := config.Source{Name: "cdn", Type: "url", URL: "https://example.com/big.json"}
	_, err := r.Fetch(context.Background(), src, "", "")
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %v", err)
	}
}

func TestURLFetchRequiresURL(t *testing.T) {
	r := &URLResolver{Client: &fakeClient{status: 200}}
	if _, err := r.Fetch(context.Background(), config.Source{Name: "cdn", Type: "url"}, "", ""); err == nil {
		t.Fatal("expected error for missing url")
	}
}
