package githubapi

import (
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Doer abstracts HTTP calls for testability
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPDoer wraps http.Client for production use
type HTTPDoer struct {
	client *http.Client
}

// NewHTTPDoer creates a production HTTP transport with a per-request
// timeout and TLS verification.
func NewHTTPDoer(timeout time.Duration) *HTTPDoer {
	return &HTTPDoer{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
	}
}

func (d *HTTPDoer) Do(req *http.Request) (*http.Response, error) {
	return d.client.Do(req)
}

// MockDoer simulates HTTP responses for testing
type MockDoer struct {
	responses map[string]*http.Response
	errors    map[string]error
	Requests  []*http.Request
}

// NewMockDoer creates a mock HTTP transport
func NewMockDoer() *MockDoer {
	return &MockDoer{
		responses: make(map[string]*http.Response),
		errors:    make(map[string]error),
	}
}

// AddResponse registers a mock response for a URL
func (m *MockDoer) AddResponse(urlStr string, statusCode int, body string) {
	parsedURL, _ := url.Parse(urlStr)
	m.responses[urlStr] = &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
		Request: &http.Request{
			URL: parsedURL,
		},
	}
}

// AddError registers a mock error for a URL
func (m *MockDoer) AddError(urlStr string, err error) {
	m.errors[urlStr] = err
}

func (m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	urlStr := req.URL.String()
	if err, ok := m.errors[urlStr]; ok {
		return nil, err
	}
	if resp, ok := m.responses[urlStr]; ok {
		return resp, nil
	}
	// Return 404 for unknown URLs
	return &http.Response{
		StatusCode: 404,
		Body:       io.NopCloser(strings.NewReader("Not Found")),
		Header:     make(http.Header),
	}, nil
}
