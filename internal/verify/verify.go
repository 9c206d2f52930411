// Package verify replays a deployment log against the remote repositories
// and reports which target paths actually exist.
package verify

import (
	"time"

	"github.com/breverdbidder/claude-ai-deployer/internal/deploylog"
	"github.com/breverdbidder/claude-ai-deployer/pkg/logger"
)

// Prober answers existence queries against the remote collaborator.
// Satisfied by *githubapi.ContentsClient.
type Prober interface {
	Exists(repo, path string) bool
}

// Result is the verification outcome for a single log entry.
type Result struct {
	Filename string `json:"filename"`
	Repo     string `json:"repo"`
	Path     string `json:"path"`
	Verified bool   `json:"verified"`
}

// Summary aggregates a verification pass.
type Summary struct {
	Total       int      `json:"total"`
	Verified    int      `json:"verified"`
	Failed      int      `json:"failed"`
	SuccessRate float64  `json:"success_rate"`
	Details     []Result `json:"details"`
}

// Verifier checks logged deployments against remote state, one query at a
// time with a fixed delay between queries to respect the API rate limit.
type Verifier struct {
	prober Prober
	delay  time.Duration
	sleep  func(time.Duration)
}

// New creates a verifier. delay is honored before every existence query;
// it is rate-limit courtesy, not an optimization knob.
func New(prober Prober, delay time.Duration) *Verifier {
	return &Verifier{prober: prober, delay: delay, sleep: time.Sleep}
}

// VerifyOne reports whether a single repository path exists remotely. Only
// an exact "found" reads as verified; the reason for a miss is not
// distinguished.
func (v *Verifier) VerifyOne(repo, path string) bool {
	return v.prober.Exists(repo, path)
}

// VerifyAll verifies every log entry in order and folds the outcomes into a
// summary. An empty log yields Total=0 and SuccessRate=0 without error.
func (v *Verifier) VerifyAll(log *deploylog.Log) *Summary {
	summary := &Summary{Details: []Result{}}

	for _, entry := range log.Deployments {
		m := entry.Manifest

		// Fixed inter-request delay for the collaborator's rate limit.
		v.sleep(v.delay)

		verified := v.VerifyOne(m.TargetRepo, m.TargetPath)
		if verified {
			summary.Verified++
		} else {
			summary.Failed++
			logger.Warn("Deployment not verified",
				logger.String("file", m.Filename),
				logger.String("repo", m.TargetRepo),
				logger.String("path", m.TargetPath))
		}

		summary.Details = append(summary.Details, Result{
			Filename: m.Filename,
			Repo:     m.TargetRepo,
			Path:     m.TargetPath,
			Verified: verified,
		})
	}

	summary.Total = len(summary.Details)
	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Verified) / float64(summary.Total)
	}
	return summary
}
