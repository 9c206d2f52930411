// Package deploy runs the per-file pipeline (route, encode, checksum,
// manifest, transport request) over a scanned outputs directory and
// accumulates the ordered deployment log.
package deploy

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/breverdbidder/claude-ai-deployer/internal/deploylog"
	"github.com/breverdbidder/claude-ai-deployer/internal/encode"
	"github.com/breverdbidder/claude-ai-deployer/internal/githubapi"
	"github.com/breverdbidder/claude-ai-deployer/internal/manifest"
	"github.com/breverdbidder/claude-ai-deployer/internal/routing"
	"github.com/breverdbidder/claude-ai-deployer/internal/scan"
	"github.com/breverdbidder/claude-ai-deployer/pkg/buildinfo"
	"github.com/breverdbidder/claude-ai-deployer/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Pusher sends a prepared create-or-update-file request. Satisfied by
// *githubapi.ContentsClient and by test doubles.
type Pusher interface {
	Push(pr githubapi.PutRequest) error
}

// Options configures a deployment run.
type Options struct {
	Branch      string
	Concurrency int
	// Push sends each prepared request immediately. When false the run
	// only records the requests for later, deferred execution.
	Push bool
}

// Orchestrator coordinates a single deployment run.
type Orchestrator struct {
	router  *routing.Router
	scanner *scan.Scanner
	pusher  Pusher
	opts    Options
}

// New creates an orchestrator. pusher may be nil when opts.Push is false.
func New(router *routing.Router, scanner *scan.Scanner, pusher Pusher, opts Options) *Orchestrator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Orchestrator{router: router, scanner: scanner, pusher: pusher, opts: opts}
}

// DeployOne runs the full pipeline for a single file. Failures never
// propagate: any per-file error becomes a failed log entry so one bad
// artifact cannot block the rest of the run.
func (o *Orchestrator) DeployOne(path string) deploylog.Entry {
	entry := deploylog.Entry{
		Filepath:  path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	fail := func(err error) deploylog.Entry {
		logger.Warn("Deployment failed", logger.String("file", path), logger.Err(err))
		entry.Result = deploylog.TransportResult{
			Status: deploylog.StatusFailed,
			Error:  err.Error(),
		}
		return entry
	}

	content, isBinary, err := encode.File(path)
	if err != nil {
		return fail(err)
	}

	checksum, err := encode.Checksum(path)
	if err != nil {
		return fail(err)
	}

	dest := o.router.Route(filepath.Base(path))
	m, err := manifest.Build(path, dest, isBinary, checksum)
	if err != nil {
		return fail(err)
	}
	entry.Manifest = m

	req := githubapi.NewPutRequest(m, content, o.opts.Branch)
	if o.opts.Push {
		if err := o.pusher.Push(req); err != nil {
			return fail(err)
		}
	}

	logger.Debug("Prepared deployment",
		logger.String("file", m.Filename),
		logger.String("repo", m.TargetRepo),
		logger.String("path", m.TargetPath),
		logger.Bool("binary", m.IsBinary))

	entry.Result = deploylog.TransportResult{
		Status:  deploylog.StatusPrepared,
		Repo:    m.TargetRepo,
		Path:    m.TargetPath,
		Request: &req,
	}
	return entry
}

// DeployAll scans the outputs directory and deploys every candidate. Files
// may be processed concurrently, but entries land in the log in scan order:
// each worker writes into its own slot of a pre-sized slice.
func (o *Orchestrator) DeployAll() (*deploylog.Log, error) {
	paths, err := o.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	entries := make([]deploylog.Entry, len(paths))
	var g errgroup.Group
	g.SetLimit(o.opts.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			entries[i] = o.DeployOne(path)
			return nil
		})
	}
	// DeployOne never returns an error; the group is only a bounded waiter.
	_ = g.Wait()

	log := &deploylog.Log{
		Version:          buildinfo.BinaryVersion,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		TotalDeployments: len(entries),
		Deployments:      entries,
	}
	logger.Info("Deployment run complete", logger.Int("files", len(entries)))
	return log, nil
}
