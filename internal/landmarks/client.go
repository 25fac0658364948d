package landmarks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/kozaktomas/pose-detector/internal/constants"
	"github.com/kozaktomas/pose-detector/internal/frame"
	"github.com/kozaktomas/pose-detector/internal/pose"
)

const (
	defaultServiceURL = "http://localhost:8001"
	defaultTimeout    = 2 * time.Second
)

// Client extracts landmarks with a pose estimation server. The server takes a
// JPEG frame as multipart field "file" on POST /pose and answers with
// {"person_detected": bool, "landmarks": {...}, "model": "..."}.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new pose service client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultServiceURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service URL being used
func (c *Client) BaseURL() string {
	return c.baseURL
}

// postMultipartImage posts imageData as form field "file" and returns the response body.
func (c *Client) postMultipartImage(ctx context.Context, endpoint string, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Extract sends the frame to the pose service.
func (c *Client) Extract(ctx context.Context, img image.Image) (*pose.LandmarkSet, error) {
	data, err := frame.EncodeJPEG(img, constants.PoseServiceJPEGQuality)
	if err != nil {
		return nil, err
	}

	body, err := c.postMultipartImage(ctx, "/pose", data)
	if err != nil {
		return nil, err
	}

	var resp detection
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.PersonDetected != nil && !*resp.PersonDetected {
		return nil, nil
	}

	set, err := decodeLandmarks(resp.Landmarks)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return set, nil
}

// Health checks that the pose service is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
