package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arjunm/vidstream-backend/internal/media"
)

// FakeUploader stands in for the media host. Like the real client, it
// removes the staged local file whether the upload succeeds or fails.
type FakeUploader struct {
	mu        sync.Mutex
	uploads   []string
	failNext  bool
	failPaths map[string]bool
}

func NewFakeUploader() *FakeUploader {
	return &FakeUploader{failPaths: make(map[string]bool)}
}

// FailNext makes the next Upload call return an error.
func (f *FakeUploader) FailNext() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = true
}

// FailPath makes Upload fail for one specific staged path.
func (f *FakeUploader) FailPath(localPath string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPaths[localPath] = true
}

// Uploads returns the local paths passed to Upload so far.
func (f *FakeUploader) Uploads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

func (f *FakeUploader) Upload(ctx context.Context, localPath string) (*media.Asset, error) {
	defer os.Remove(localPath)

	f.mu.Lock()
	fail := f.failNext || f.failPaths[localPath]
	f.failNext = false
	delete(f.failPaths, localPath)
	f.uploads = append(f.uploads, localPath)
	f.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("media host error: status 502")
	}

	name := filepath.Base(localPath)
	url := fmt.Sprintf("https://media.test/%s", name)
	raw, _ := json.Marshal(map[string]any{"url": url, "public_id": name})
	return &media.Asset{
		URL:      url,
		PublicID: name,
		Format:   "png",
		Raw:      raw,
	}, nil
}
