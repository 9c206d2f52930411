// Package deploylog defines the durable deployment log: the ordered record
// of every attempted deployment in a run, and the only artifact that crosses
// the process boundary between deploy and verify.
package deploylog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/breverdbidder/claude-ai-deployer/internal/githubapi"
	"github.com/breverdbidder/claude-ai-deployer/internal/manifest"
	"github.com/breverdbidder/claude-ai-deployer/pkg/safeio"
	"github.com/xeipuuv/gojsonschema"
)

// ErrLogNotFound indicates the deployment log does not exist at the given path.
var ErrLogNotFound = errors.New("deployment log not found")

// Transport result status tags.
const (
	StatusPrepared = "prepared"
	StatusFailed   = "failed"
)

// TransportResult captures the outcome of preparing (and optionally sending)
// one file's transport request.
type TransportResult struct {
	Status  string                `json:"status"`
	Repo    string                `json:"repo,omitempty"`
	Path    string                `json:"path,omitempty"`
	Request *githubapi.PutRequest `json:"request,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Entry is one log row: a source file, its manifest, and what happened.
type Entry struct {
	Filepath  string            `json:"filepath"`
	Manifest  manifest.Manifest `json:"manifest"`
	Result    TransportResult   `json:"result"`
	Timestamp string            `json:"timestamp"`
}

// Log is the persisted deployment log document. Entries preserve scan order
// and the document is fully replaced, never merged, on each run.
type Log struct {
	Version          string  `json:"version"`
	Timestamp        string  `json:"timestamp"`
	TotalDeployments int     `json:"total_deployments"`
	Deployments      []Entry `json:"deployments"`
}

//go:embed schema/deployment-log-v1.json
var logSchema string

// Save writes the log as indented JSON. The pre-existing file, if any, is
// replaced wholesale.
func Save(log *Log, path string) error {
	clean, err := safeio.CleanUserPath(path)
	if err != nil {
		return fmt.Errorf("invalid log path: %w", err)
	}
	doc := *log
	if doc.Deployments == nil {
		// The schema requires an array; an empty run still writes [].
		doc.Deployments = []Entry{}
	}
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deployment log: %w", err)
	}
	if err := safeio.WriteFilePreservePerms(clean, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write deployment log: %w", err)
	}
	return nil
}

// Load reads a log document and validates it against the embedded schema.
// A missing file returns ErrLogNotFound; a document that does not parse or
// does not match the expected shape is an error, since there is nothing
// meaningful to verify.
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, path)
		}
		return nil, fmt.Errorf("failed to read deployment log: %w", err)
	}

	if err := validateShape(data); err != nil {
		return nil, err
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("failed to parse deployment log %s: %w", path, err)
	}
	return &log, nil
}

func validateShape(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(logSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("deployment log is not valid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("deployment log does not match expected shape: %s", strings.Join(msgs, "; "))
	}
	return nil
}
