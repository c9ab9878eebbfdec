package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/arjunm/vidstream-backend/internal/config"
)

// Asset is the media host's description of an uploaded file. Raw keeps the
// full provider response for persistence alongside the parsed fields.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`

	Raw json.RawMessage `json:"-"`
}

// Uploader sends a locally staged file to the media host and returns its
// hosted description. Implementations must remove the local file whether the
// upload succeeds or fails, so failed requests never leave orphaned temp
// files behind.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
}

type Client struct {
	uploadURL  string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		uploadURL: cfg.MediaUploadURL,
		apiKey:    cfg.MediaAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.MediaUploadTimeout,
		},
	}
}

func (c *Client) Upload(ctx context.Context, localPath string) (*Asset, error) {
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			log.Printf("WARN [media.Upload] failed to remove temp file %s: %v", localPath, err)
		}
	}()

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file into request: %w", err)
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return nil, fmt.Errorf("write api key field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("ERROR [media.Upload] request failed: %v", err)
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("ERROR [media.Upload] media host status %d: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("media host error: status %d", resp.StatusCode)
	}

	asset := &Asset{}
	if err := json.Unmarshal(respBody, asset); err != nil {
		return nil, fmt.Errorf("unmarshal upload response: %w", err)
	}
	if asset.URL == "" {
		return nil, fmt.Errorf("media host returned no url")
	}
	asset.Raw = json.RawMessage(respBody)

	log.Printf("uploaded %s to media host: %s", filepath.Base(localPath), asset.URL)
	return asset, nil
}
