// Package imghost is the client for the remote image host (ImgBB). The
// application only needs a single operation: upload an image, get back a
// public URL.
package imghost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"io.winapps.explorerdiary/internal/journal"
)

const (
	defaultEndpoint = "https://api.imgbb.com/1/upload"

	// MaxImageSize is the hard upload limit enforced before any network
	// call. The service itself accepts larger files; 10 MiB keeps uploads
	// reasonable.
	MaxImageSize = 10 * 1024 * 1024
)

// Local validation errors. None of these involve a network call.
var (
	ErrMissingAPIKey = errors.New("image service configuration error: API key not configured")
	ErrNoFile        = errors.New("no file provided")
	ErrNotImage      = errors.New("file must be an image")
	ErrTooLarge      = errors.New("image size must be less than 10MB")
)

// Client talks to the ImgBB upload API.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the upload endpoint, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an ImgBB client for the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload validates the file locally, posts it as multipart form data, and
// returns the hosted image URL. Validation failures return immediately
// without touching the network.
func (c *Client) Upload(ctx context.Context, img journal.ImageFile) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if img.Data == nil {
		return "", ErrNoFile
	}
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return "", ErrNotImage
	}
	if img.Size > MaxImageSize {
		return "", ErrTooLarge
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", img.Name)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := io.Copy(part, img.Data); err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}
	if img.Name != "" {
		if err := writer.WriteField("name", img.Name); err != nil {
			return "", fmt.Errorf("failed to build upload request: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	endpoint := c.endpoint + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to connect to image service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to connect to image service: HTTP %d", resp.StatusCode)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("invalid response from image service: %w", err)
	}
	if !parsed.Success {
		msg := parsed.Error.Message
		if msg == "" {
			msg = "upload failed"
		}
		return "", fmt.Errorf("image service rejected upload: %s", msg)
	}
	if parsed.Data.URL == "" {
		return "", errors.New("image service returned no URL")
	}
	return parsed.Data.URL, nil
}
