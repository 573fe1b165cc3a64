// Package storage talks to the remote object-storage service that holds
// listing images.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"estate/internal/config"
	"estate/internal/observability"
)

// BucketClient uploads files into the configured bucket and resolves their
// public view URLs.
type BucketClient interface {
	CreateFile(ctx context.Context, fileID, name string, content []byte) error
	ViewURL(fileID string) string
}

// Client is the HTTP implementation of BucketClient.
type Client struct {
	httpClient *http.Client
	endpoint   string
	projectID  string
	bucketID   string
	apiKey     string
}

// NewClient creates a bucket client from the application configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   strings.TrimRight(cfg.StorageEndpoint, "/"),
		projectID:  cfg.StorageProject,
		bucketID:   cfg.StorageBucket,
		apiKey:     cfg.StorageKey,
	}
}

// CreateFile uploads content under the given file id with public-read access.
func (c *Client) CreateFile(ctx context.Context, fileID, name string, content []byte) error {
	start := time.Now()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("fileId", fileID); err != nil {
		return err
	}
	// Public read so any client can resolve the view URL.
	if err := w.WriteField("permissions[]", `read("any")`); err != nil {
		return err
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/storage/buckets/%s/files", c.endpoint, c.bucketID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Storage-Project", c.projectID)
	if c.apiKey != "" {
		req.Header.Set("X-Storage-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveUpload(start, "error")
		return fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.ObserveUpload(start, "error")
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage upload failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	observability.ObserveUpload(start, "ok")
	return nil
}

// ViewURL builds the stable, publicly resolvable URL for an uploaded file.
// The exact shape is a contract with existing clients and must not change.
func (c *Client) ViewURL(fileID string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		c.endpoint, c.bucketID, fileID, c.projectID)
}
