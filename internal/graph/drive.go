package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const userAgent = "pdfconvert-backend/0.1"

// DriveItem is the subset of Graph driveItem metadata this service reads
// back from an upload.
type DriveItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	WebURL string `json:"webUrl"`
}

// DriveClient performs path-addressed operations against one user's drive.
// The drive is used purely as transient scratch space: every operation in a
// request addresses the same filename, and callers are expected to delete
// what they upload. No operation retries; each maps to exactly one outbound
// call so the caller's ordering guarantees hold.
type DriveClient struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// NewDriveClient builds a client for the drive of userID.
// baseURL is typically "https://graph.microsoft.com/v1.0". httpClient may
// be nil.
func NewDriveClient(baseURL, userID string, httpClient *http.Client) *DriveClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DriveClient{
		baseURL:    baseURL,
		userID:     userID,
		httpClient: httpClient,
	}
}

// itemURL addresses a file by path under the drive root. suffix is appended
// after the path-addressing colon (":/content" style) and may be empty.
func (c *DriveClient) itemURL(name, suffix string) string {
	return fmt.Sprintf("%s/users/%s/drive/root:/%s%s",
		c.baseURL, url.PathEscape(c.userID), url.PathEscape(name), suffix)
}

// Upload stores content under name at the drive root and returns the
// resulting item metadata.
func (c *DriveClient) Upload(ctx context.Context, token, name string, content []byte) (*DriveItem, error) {
	resp, err := c.do(ctx, http.MethodPut, c.itemURL(name, ":/content"), token, "application/octet-stream", bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("graph: upload: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError("upload", resp)
	}
	defer resp.Body.Close()

	var item DriveItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("graph: decoding upload response: %w", err)
	}
	return &item, nil
}

// ConvertToPDF fetches the PDF rendition of a previously uploaded file.
// The returned bytes are passed through unmodified; whether they form a
// well-formed PDF is the remote renderer's problem.
func (c *DriveClient) ConvertToPDF(ctx context.Context, token, name string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, c.itemURL(name, ":/content?format=pdf"), token, "", nil)
	if err != nil {
		return nil, fmt.Errorf("graph: convert: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError("convert", resp)
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("graph: reading pdf rendition: %w", err)
	}
	return pdf, nil
}

// Delete removes name from the drive root. It reports failures; deciding
// that cleanup failures do not matter is the caller's call, not this
// client's.
func (c *DriveClient) Delete(ctx context.Context, token, name string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.itemURL(name, ""), token, "", nil)
	if err != nil {
		return fmt.Errorf("graph: delete: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError("delete", resp)
	}
	resp.Body.Close()
	return nil
}

// do executes a single authenticated request. No retry: each drive
// operation is exactly one outbound call.
func (c *DriveClient) do(ctx context.Context, method, rawURL, token, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.httpClient.Do(req)
}
