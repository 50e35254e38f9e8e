package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrTimeout indicates the conversion exceeded the per-attempt timeout.
	ErrTimeout = errors.New("gotenberg: timeout")
	// ErrInvalidResponse indicates Gotenberg answered with a non-success status.
	ErrInvalidResponse = errors.New("gotenberg: invalid response")
	// ErrEmptyDocument indicates the returned PDF was implausibly small.
	ErrEmptyDocument = errors.New("gotenberg: pdf below minimum size")
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 2
	minPDFSize     = 512
)

// A4 portrait in inches, as Gotenberg expects.
const (
	paperWidth  = "8.27"
	paperHeight = "11.7"
	margin      = "0.4"
)

// Client wraps interactions with the Gotenberg API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	timeout    time.Duration
	minSize    int
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		retries:    defaultRetries,
		timeout:    defaultTimeout,
		minSize:    minPDFSize,
	}
}

// Ping checks if the remote Gotenberg service is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// RenderHTML converts an HTML page into an A4 PDF. 5xx answers, network
// failures and truncated bodies are retried; 4xx answers are not.
func (c *Client) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("gotenberg client not initialised")
	}
	payload, contentType, err := buildForm(html)
	if err != nil {
		return nil, err
	}
	attempts := c.retries + 1
	var lastErr error
	for i := 0; i < attempts; i++ {
		data, retry, err := c.convert(ctx, payload, contentType)
		if err == nil {
			return data, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("render pdf failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) convert(ctx context.Context, payload []byte, contentType string) ([]byte, bool, error) {
	attemptCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.baseURL+"/forms/chromium/convert/html", bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, classifyNetError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, readErr := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, true, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return nil, false, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	case readErr != nil:
		return nil, true, readErr
	case len(data) < c.minSize:
		return nil, true, ErrEmptyDocument
	}
	return data, false, nil
}

func buildForm(html string) ([]byte, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, "", err
	}
	fields := [][2]string{
		{"paperWidth", paperWidth},
		{"paperHeight", paperHeight},
		{"marginTop", margin},
		{"marginBottom", margin},
		{"marginLeft", margin},
		{"marginRight", margin},
		{"printBackground", "true"},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}

func classifyNetError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return err
}
