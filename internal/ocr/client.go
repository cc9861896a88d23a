// Package ocr is a thin client for the page-rasterizing OCR sidecar. The
// sidecar owns rasterization and recognition; this package only moves bytes
// and reshapes the response into a text layout.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"labmark/internal/domain"
	"labmark/internal/textnorm"
)

// Client implements port.OCREngine against an HTTP recognition service.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates an OCR client for the given sidecar endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Minute},
	}
}

// recognitionResponse models the sidecar's JSON reply.
type recognitionResponse struct {
	Pages []struct {
		Text string `json:"text"`
	} `json:"pages"`
	PagesTotal int `json:"pagesTotal"`
}

func (c *Client) Recognize(ctx context.Context, fileBytes []byte, maxPages int) (*domain.RawTextLayout, error) {
	url := c.endpoint
	if maxPages > 0 {
		url += "?max_pages=" + strconv.Itoa(maxPages)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(fileBytes))
	if err != nil {
		return nil, fmt.Errorf("ocr: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr: calling recognition service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ocr: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr: recognition service error (status %d)", resp.StatusCode)
	}

	var parsed recognitionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("ocr: unmarshaling response: %w", err)
	}

	var sb strings.Builder
	for _, p := range parsed.Pages {
		sb.WriteString(p.Text)
		if !strings.HasSuffix(p.Text, "\n") {
			sb.WriteString("\n")
		}
	}

	layout := &domain.RawTextLayout{
		Text:      sb.String(),
		PageCount: len(parsed.Pages),
	}
	if parsed.PagesTotal > len(parsed.Pages) {
		layout.PageCount = parsed.PagesTotal
		layout.Partial = true
	}
	layout.LineCount = len(textnorm.Lines(layout.Text))
	layout.CharCount = textnorm.CountNonWhitespace(layout.Text)
	layout.ItemCount = layout.LineCount
	return layout, nil
}
