package restbind

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/starius/restbind/errors"
	"github.com/starius/restbind/internal/shared"
)

// HTTPTransport sends exchanges with an HttpClient.
type HTTPTransport struct {
	client        HttpClient
	errorf        func(format string, args ...interface{})
	authorization string
	maxBody       int64
	limiter       *rate.Limiter
}

// NewDefaultHttpClient returns http.Client which does not follow redirects.
func NewDefaultHttpClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// NewHTTPTransport creates a transport. By default it uses the client
// returned by NewDefaultHttpClient.
func NewHTTPTransport(opts ...Option) *HTTPTransport {
	config := newConfig(opts)

	var client HttpClient = NewDefaultHttpClient()
	if config.client != nil {
		client = config.client
	}

	return &HTTPTransport{
		client:        client,
		errorf:        config.errorf,
		authorization: config.authorization,
		maxBody:       config.maxBody,
		limiter:       config.limiter,
	}
}

// Exchange sends the request. Responses with 2xx status are returned as is,
// other statuses result in *errors.CodeError of kind errors.Status.
func (t *HTTPTransport) Exchange(ctx context.Context, ex *Exchange) (*Response, error) {
	var body io.Reader
	if ex.Body != nil {
		body = bytes.NewReader(ex.Body)
	}
	req, err := http.NewRequestWithContext(ctx, ex.Method, ex.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = ex.Header.HTTP()
	if t.authorization != "" {
		req.Header.Set("Authorization", t.authorization)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			t.errorf("failed to close resource: %v", err)
		}
	}()

	buf, err := io.ReadAll(http.MaxBytesReader(nil, res.Body, t.maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Handle all 2xx responses as success.
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, decodeError(res, buf)
	}

	return &Response{
		Status: res.StatusCode,
		Header: res.Header,
		Body:   buf,
	}, nil
}

// decodeError extracts the message from a JSON error envelope if present.
func decodeError(res *http.Response, buf []byte) error {
	message := strings.TrimSpace(string(buf))
	if isJSON(res.Header.Get("Content-Type")) {
		if msg, ok := shared.ParseErrorMessage(buf); ok {
			message = msg.String()
		}
	}
	if message == "" {
		return errors.NewStatus(res.StatusCode, fmt.Errorf("API returned HTTP status %s", res.Status))
	}
	return errors.NewStatus(res.StatusCode, fmt.Errorf("API returned error with HTTP status %s: %s", res.Status, message))
}

func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()

	if closer, ok := t.client.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}

	return nil
}
