package githubapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/breverdbidder/claude-ai-deployer/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPutRequestTextContentIsBase64Encoded(t *testing.T) {
	m := manifest.Manifest{
		Filename:    "notes.md",
		TargetRepo:  "life-os",
		TargetPath:  "docs/notes.md",
		Description: "Documentation",
		IsBinary:    false,
	}

	pr := NewPutRequest(m, "# Notes\n", "main")

	assert.Equal(t, "life-os", pr.Repo)
	assert.Equal(t, "docs/notes.md", pr.Path)
	assert.Equal(t, "Deploy: notes.md - Documentation", pr.Message)
	assert.Equal(t, "main", pr.Branch)

	decoded, err := base64.StdEncoding.DecodeString(pr.Content)
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n", string(decoded))
}

func TestNewPutRequestBinaryContentPassedThrough(t *testing.T) {
	already := base64.StdEncoding.EncodeToString([]byte{0x00, 0xff})
	m := manifest.Manifest{Filename: "blob.bin", TargetRepo: "life-os", TargetPath: "artifacts/blob.bin", IsBinary: true}

	pr := NewPutRequest(m, already, "main")
	assert.Equal(t, already, pr.Content)
}

func TestPushSuccess(t *testing.T) {
	mock := NewMockDoer()
	mock.AddResponse(
		"https://api.github.com/repos/breverdbidder/life-os/contents/docs/notes.md",
		201,
		`{"content": {"path": "docs/notes.md"}}`,
	)

	client := NewContentsClientWithDoer(mock, "https://api.github.com", "breverdbidder", "tok")
	pr := PutRequest{
		Repo:    "life-os",
		Path:    "docs/notes.md",
		Message: "Deploy: notes.md - Documentation",
		Content: base64.StdEncoding.EncodeToString([]byte("# Notes\n")),
		Branch:  "main",
	}

	require.NoError(t, client.Push(pr))

	require.Len(t, mock.Requests, 1)
	req := mock.Requests[0]
	assert.Equal(t, "PUT", req.Method)
	assert.Equal(t, "token tok", req.Header.Get("Authorization"))
	assert.Equal(t, "application/vnd.github.v3+json", req.Header.Get("Accept"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Deploy: notes.md - Documentation", payload["message"])
	assert.Equal(t, "main", payload["branch"])
	assert.Equal(t, pr.Content, payload["content"])
}

func TestPushNonSuccessStatus(t *testing.T) {
	mock := NewMockDoer()
	mock.AddResponse(
		"https://api.github.com/repos/breverdbidder/life-os/contents/docs/notes.md",
		422,
		`{"message": "Invalid request"}`,
	)

	client := NewContentsClientWithDoer(mock, "https://api.github.com", "breverdbidder", "tok")
	err := client.Push(PutRequest{Repo: "life-os", Path: "docs/notes.md", Branch: "main"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestExists(t *testing.T) {
	mock := NewMockDoer()
	mock.AddResponse(
		"https://api.github.com/repos/breverdbidder/life-os/contents/docs/notes.md",
		200,
		`{"path": "docs/notes.md"}`,
	)
	mock.AddError(
		"https://api.github.com/repos/breverdbidder/life-os/contents/docs/flaky.md",
		errors.New("connection reset"),
	)

	client := NewContentsClientWithDoer(mock, "https://api.github.com", "breverdbidder", "tok")

	assert.True(t, client.Exists("life-os", "docs/notes.md"))
	// Unknown URLs come back 404 from the mock
	assert.False(t, client.Exists("life-os", "docs/missing.md"))
	// Network errors read as not verified, not as retries
	assert.False(t, client.Exists("life-os", "docs/flaky.md"))
}

func TestExistsOnlyExact200Counts(t *testing.T) {
	for _, status := range []int{301, 403, 429, 500} {
		mock := NewMockDoer()
		mock.AddResponse(
			"https://api.github.com/repos/breverdbidder/life-os/contents/docs/x.md",
			status,
			"{}",
		)
		client := NewContentsClientWithDoer(mock, "https://api.github.com", "breverdbidder", "")
		assert.False(t, client.Exists("life-os", "docs/x.md"), "status %d must not verify", status)
	}
}

func TestExistsOmitsAuthHeaderWithoutToken(t *testing.T) {
	mock := NewMockDoer()
	client := NewContentsClientWithDoer(mock, "https://api.github.com", "breverdbidder", "")
	client.Exists("life-os", "docs/notes.md")

	require.Len(t, mock.Requests, 1)
	assert.Empty(t, mock.Requests[0].Header.Get("Authorization"))
}
