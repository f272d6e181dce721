// Package debugclient wraps an HTTP client and dumps every request as a
// curl command and every response as raw HTTP.
package debugclient

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"sync"
	"sync/atomic"

	"moul.io/http2curl"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

type DebugClient struct {
	impl HttpClient
	n    atomic.Uint64

	mu  sync.Mutex
	log io.Writer
}

func New(impl HttpClient, log io.Writer) (*DebugClient, error) {
	return &DebugClient{
		impl: impl,
		log:  log,
	}, nil
}

// Do dumps the request, sends it and dumps the response. The response body
// is buffered for the dump and remains readable by the caller.
func (c *DebugClient) Do(req *http.Request) (*http.Response, error) {
	n := c.n.Add(1)

	curl, err := http2curl.GetCurlCommand(req)
	if err != nil {
		return nil, fmt.Errorf("request %d: failed to format curl command: %w", n, err)
	}
	if err := c.printf("=== restbind request %d ===\n$ %s\n=== end of request %d ===\n", n, curl, n); err != nil {
		return nil, err
	}

	res, err := c.impl.Do(req)
	if err != nil {
		if logErr := c.printf("=== restbind request %d failed: %v ===\n", n, err); logErr != nil {
			return nil, logErr
		}
		return nil, err
	}

	resDump, err := httputil.DumpResponse(res, true)
	if err != nil {
		res.Body.Close()
		return nil, fmt.Errorf("request %d: failed to dump response: %w", n, err)
	}
	if err := c.printf("=== restbind response %d ===\n%s\n=== end of response %d ===\n", n, resDump, n); err != nil {
		res.Body.Close()
		return nil, err
	}

	return res, nil
}

// printf writes one record. Records of parallel requests do not interleave.
func (c *DebugClient) printf(format string, args ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.log, format, args...); err != nil {
		return fmt.Errorf("failed to write debug log: %w", err)
	}
	return nil
}

func (c *DebugClient) CloseIdleConnections() {
	c.impl.CloseIdleConnections()
}

// Close closes the underlying client if it is an io.Closer,
// e.g. *closingclient.ClosingClient.
func (c *DebugClient) Close() error {
	if closer, ok := c.impl.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
