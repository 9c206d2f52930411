// Package githubapi talks to the GitHub repository contents API: the
// create-or-update-file call used to publish artifacts and the existence
// probe used to verify them later.
package githubapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/breverdbidder/claude-ai-deployer/internal/manifest"
)

const userAgent = "claude-ai-deployer"

// PutRequest is the fully-formed create-or-update-file request. It carries
// everything needed to replay or audit the call later.
type PutRequest struct {
	Repo    string `json:"repo"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Content string `json:"content"` // base64 per the contents API
	Branch  string `json:"branch"`
}

// NewPutRequest builds the transport request for a manifest. The contents
// API requires base64 regardless of how the file was encoded for the log,
// so text content is re-encoded here; binary content is already base64.
func NewPutRequest(m manifest.Manifest, content string, branch string) PutRequest {
	payload := content
	if !m.IsBinary {
		payload = base64.StdEncoding.EncodeToString([]byte(content))
	}
	return PutRequest{
		Repo:    m.TargetRepo,
		Path:    m.TargetPath,
		Message: m.CommitMessage(),
		Content: payload,
		Branch:  branch,
	}
}

// ContentsClient issues contents-API calls for a single owner.
type ContentsClient struct {
	doer    Doer
	apiBase string
	owner   string
	token   string
}

// NewContentsClient creates a client with the default HTTP transport.
func NewContentsClient(apiBase, owner, token string, timeout time.Duration) *ContentsClient {
	return NewContentsClientWithDoer(NewHTTPDoer(timeout), apiBase, owner, token)
}

// NewContentsClientWithDoer creates a client with an injectable transport for testing.
func NewContentsClientWithDoer(doer Doer, apiBase, owner, token string) *ContentsClient {
	return &ContentsClient{
		doer:    doer,
		apiBase: strings.TrimRight(apiBase, "/"),
		owner:   owner,
		token:   token,
	}
}

func (c *ContentsClient) contentsURL(repo, path string) string {
	// Path segments are escaped individually so prefixes stay readable.
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiBase, c.owner, repo, strings.Join(parts, "/"))
}

func (c *ContentsClient) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
}

// Push sends a create-or-update-file request. 200 (updated) and 201
// (created) both count as success.
func (c *ContentsClient) Push(pr PutRequest) error {
	body, err := json.Marshal(map[string]string{
		"message": pr.Message,
		"content": pr.Content,
		"branch":  pr.Branch,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal contents payload: %w", err)
	}

	apiURL := c.contentsURL(pr.Repo, pr.Path)
	req, err := http.NewRequest(http.MethodPut, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("contents PUT %s/%s failed: %w", pr.Repo, pr.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("contents PUT %s/%s: HTTP %d", pr.Repo, pr.Path, resp.StatusCode)
	}
	return nil
}

// Exists reports whether a path is present in a repository. Only an exact
// HTTP 200 counts; not-found, rate limits, network errors and timeouts all
// read as "not there" and are never retried here.
func (c *ContentsClient) Exists(repo, path string) bool {
	apiURL := c.contentsURL(repo, path)
	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return false
	}
	c.setHeaders(req)

	resp, err := c.doer.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}
