// Package manifest defines the immutable record of a single file's
// deployment intent.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/breverdbidder/claude-ai-deployer/internal/routing"
	"github.com/breverdbidder/claude-ai-deployer/pkg/buildinfo"
)

// DeployedBy identifies the producer in persisted manifests.
const DeployedBy = "claude-ai-deployer"

// Manifest is the canonical per-file deployment record persisted to the log.
type Manifest struct {
	SourceFile  string `json:"source_file"`
	Filename    string `json:"filename"`
	TargetRepo  string `json:"target_repo"`
	TargetPath  string `json:"target_path"`
	Description string `json:"description"`
	IsBinary    bool   `json:"is_binary"`
	Checksum    string `json:"checksum"`
	SizeBytes   int64  `json:"size_bytes"`
	CreatedAt   string `json:"created_at"`
	DeployedBy  string `json:"deployed_by"`
	Version     string `json:"version"`
}

// Build combines a file, its routing decision, and its encoding outcome into
// a manifest. The target path is always the destination prefix plus the bare
// filename; no directory structure is carried over from the source path.
func Build(path string, dest routing.Destination, isBinary bool, checksum string) (Manifest, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	filename := filepath.Base(path)
	return Manifest{
		SourceFile:  path,
		Filename:    filename,
		TargetRepo:  dest.Repo,
		TargetPath:  dest.Path + filename,
		Description: dest.Description,
		IsBinary:    isBinary,
		Checksum:    checksum,
		SizeBytes:   st.Size(),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		DeployedBy:  DeployedBy,
		Version:     buildinfo.BinaryVersion,
	}, nil
}

// CommitMessage is the commit message used when pushing this manifest's file.
func (m Manifest) CommitMessage() string {
	return fmt.Sprintf("Deploy: %s - %s", m.Filename, m.Description)
}
