package media_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/arjunm/vidstream-backend/internal/config"
	"github.com/arjunm/vidstream-backend/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "upload-*.png")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func newClient(uploadURL string) *media.Client {
	return media.NewClient(&config.Config{
		MediaUploadURL:     uploadURL,
		MediaAPIKey:        "test-key",
		MediaUploadTimeout: 5 * time.Second,
	})
}

func TestClient_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "test-key", r.FormValue("api_key"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.NotEmpty(t, header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://media.example.com/abc.png","public_id":"abc","format":"png","bytes":10,"width":64,"height":64}`))
	}))
	defer server.Close()

	path := stageFile(t, "fakepngdata")
	asset, err := newClient(server.URL).Upload(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "https://media.example.com/abc.png", asset.URL)
	assert.Equal(t, "abc", asset.PublicID)
	assert.NotEmpty(t, asset.Raw)

	// Staged file is removed after a successful upload.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestClient_UploadFailureRemovesTempFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	path := stageFile(t, "fakepngdata")
	_, err := newClient(server.URL).Upload(context.Background(), path)
	require.Error(t, err)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "temp file should be removed on failure too")
}

func TestClient_UploadRejectsEmptyURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"public_id":"abc"}`))
	}))
	defer server.Close()

	path := stageFile(t, "fakepngdata")
	_, err := newClient(server.URL).Upload(context.Background(), path)
	assert.Error(t, err)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
