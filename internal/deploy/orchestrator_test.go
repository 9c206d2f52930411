package deploy

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/breverdbidder/claude-ai-deployer/internal/deploylog"
	"github.com/breverdbidder/claude-ai-deployer/internal/githubapi"
	"github.com/breverdbidder/claude-ai-deployer/internal/routing"
	"github.com/breverdbidder/claude-ai-deployer/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPusher struct {
	mu       sync.Mutex
	requests []githubapi.PutRequest
	err      error
}

func (p *recordingPusher) Push(pr githubapi.PutRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.requests = append(p.requests, pr)
	return nil
}

func newTestOrchestrator(t *testing.T, root string, opts Options) *Orchestrator {
	t.Helper()
	router, err := routing.NewRouter(routing.DefaultRules())
	require.NoError(t, err)
	if opts.Branch == "" {
		opts.Branch = "main"
	}
	return New(router, scan.New(root, nil), &recordingPusher{}, opts)
}

func writeOutput(t *testing.T, root, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDeployAllRoutesEachFile(t *testing.T) {
	root := t.TempDir()
	writeOutput(t, root, "deploy.yml", []byte("on: push\n"))
	writeOutput(t, root, "notes.md", []byte("# notes\n"))
	writeOutput(t, root, "scraper_main.py", []byte("print('hi')\n"))

	o := newTestOrchestrator(t, root, Options{})
	log, err := o.DeployAll()
	require.NoError(t, err)
	require.Len(t, log.Deployments, 3)
	assert.Equal(t, 3, log.TotalDeployments)

	// Scan order is sorted by path
	byName := map[string]deploylog.Entry{}
	var order []string
	for _, e := range log.Deployments {
		byName[e.Manifest.Filename] = e
		order = append(order, e.Manifest.Filename)
	}
	assert.Equal(t, []string{"deploy.yml", "notes.md", "scraper_main.py"}, order)

	assert.Equal(t, "life-os", byName["deploy.yml"].Manifest.TargetRepo)
	assert.Equal(t, ".github/workflows/deploy.yml", byName["deploy.yml"].Manifest.TargetPath)
	assert.Equal(t, "life-os", byName["notes.md"].Manifest.TargetRepo)
	assert.Equal(t, "docs/notes.md", byName["notes.md"].Manifest.TargetPath)
	assert.Equal(t, "brevard-bidder-scraper", byName["scraper_main.py"].Manifest.TargetRepo)
	assert.Equal(t, "src/scrapers/scraper_main.py", byName["scraper_main.py"].Manifest.TargetPath)

	for _, e := range log.Deployments {
		assert.Equal(t, deploylog.StatusPrepared, e.Result.Status)
		require.NotNil(t, e.Result.Request)
		assert.Equal(t, "main", e.Result.Request.Branch)
	}
}

func TestDeployOneBinaryFile(t *testing.T) {
	root := t.TempDir()
	raw := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff}
	path := writeOutput(t, root, "audit.pdf", raw)

	o := newTestOrchestrator(t, root, Options{})
	entry := o.DeployOne(path)

	assert.Equal(t, deploylog.StatusPrepared, entry.Result.Status)
	assert.True(t, entry.Manifest.IsBinary)
	assert.Equal(t, "reports/audit.pdf", entry.Manifest.TargetPath)

	decoded, err := base64.StdEncoding.DecodeString(entry.Result.Request.Content)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDeployOneUnreadableFileIsFailedEntry(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	root := t.TempDir()
	path := writeOutput(t, root, "locked.md", []byte("secret"))
	require.NoError(t, os.Chmod(path, 0o000))

	o := newTestOrchestrator(t, root, Options{})
	entry := o.DeployOne(path)

	assert.Equal(t, deploylog.StatusFailed, entry.Result.Status)
	assert.NotEmpty(t, entry.Result.Error)
}

func TestDeployAllContinuesPastFailures(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	root := t.TempDir()
	writeOutput(t, root, "good.md", []byte("fine\n"))
	locked := writeOutput(t, root, "locked.md", []byte("secret"))
	require.NoError(t, os.Chmod(locked, 0o000))

	o := newTestOrchestrator(t, root, Options{})
	log, err := o.DeployAll()
	require.NoError(t, err)
	require.Len(t, log.Deployments, 2)

	statuses := map[string]string{}
	for _, e := range log.Deployments {
		statuses[filepath.Base(e.Filepath)] = e.Result.Status
	}
	assert.Equal(t, deploylog.StatusPrepared, statuses["good.md"])
	assert.Equal(t, deploylog.StatusFailed, statuses["locked.md"])
}

func TestDeployAllEmptyRoot(t *testing.T) {
	o := newTestOrchestrator(t, filepath.Join(t.TempDir(), "missing"), Options{})
	log, err := o.DeployAll()
	require.NoError(t, err)
	assert.Zero(t, log.TotalDeployments)
	assert.Empty(t, log.Deployments)
}

func TestDeployAllConcurrentPreservesScanOrder(t *testing.T) {
	root := t.TempDir()
	names := []string{"a.md", "b.md", "c.md", "d.md", "e.md", "f.md", "g.md", "h.md"}
	for _, name := range names {
		writeOutput(t, root, name, []byte(name))
	}

	o := newTestOrchestrator(t, root, Options{Concurrency: 4})
	log, err := o.DeployAll()
	require.NoError(t, err)
	require.Len(t, log.Deployments, len(names))
	for i, e := range log.Deployments {
		assert.Equal(t, names[i], e.Manifest.Filename)
	}
}

func TestDeployOnePushSendsRequest(t *testing.T) {
	root := t.TempDir()
	path := writeOutput(t, root, "notes.md", []byte("# notes\n"))

	router, err := routing.NewRouter(routing.DefaultRules())
	require.NoError(t, err)
	pusher := &recordingPusher{}
	o := New(router, scan.New(root, nil), pusher, Options{Branch: "main", Push: true})

	entry := o.DeployOne(path)
	assert.Equal(t, deploylog.StatusPrepared, entry.Result.Status)
	require.Len(t, pusher.requests, 1)
	assert.Equal(t, "docs/notes.md", pusher.requests[0].Path)
}

func TestDeployOnePushFailureIsFailedEntry(t *testing.T) {
	root := t.TempDir()
	path := writeOutput(t, root, "notes.md", []byte("# notes\n"))

	router, err := routing.NewRouter(routing.DefaultRules())
	require.NoError(t, err)
	pusher := &recordingPusher{err: errors.New("HTTP 502")}
	o := New(router, scan.New(root, nil), pusher, Options{Branch: "main", Push: true})

	entry := o.DeployOne(path)
	assert.Equal(t, deploylog.StatusFailed, entry.Result.Status)
	assert.Contains(t, entry.Result.Error, "502")
}
