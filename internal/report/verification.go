package report

import (
	"encoding/json"
	"fmt"

	"github.com/aymerick/raymond"
	"github.com/breverdbidder/claude-ai-deployer/internal/verify"
	"github.com/breverdbidder/claude-ai-deployer/pkg/safeio"
)

// VerificationReport is the persisted document of a verification pass,
// stamped with the time the pass ran.
type VerificationReport struct {
	Timestamp string          `json:"timestamp"`
	Results   *verify.Summary `json:"verification_results"`
}

// SaveVerification writes the verification report as indented JSON.
func SaveVerification(rep *VerificationReport, path string) error {
	clean, err := safeio.CleanUserPath(path)
	if err != nil {
		return fmt.Errorf("invalid report path: %w", err)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal verification report: %w", err)
	}
	if err := safeio.WriteFilePreservePerms(clean, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write verification report: %w", err)
	}
	return nil
}

const verificationTemplate = `
Total: {{total}}
Verified: {{verified}} ({{rate}}%)
Failed: {{failed}}

{{#each details}}{{marker}} {{filename}}
   Repo: {{repo}}
   Path: {{path}}
{{/each}}`

// VerificationSummary renders a verification pass for the console.
func VerificationSummary(s *verify.Summary) string {
	details := make([]map[string]interface{}, 0, len(s.Details))
	for _, d := range s.Details {
		marker := "✅"
		if !d.Verified {
			marker = "❌"
		}
		details = append(details, map[string]interface{}{
			"marker":   marker,
			"filename": d.Filename,
			"repo":     d.Repo,
			"path":     d.Path,
		})
	}

	data := map[string]interface{}{
		"total":    s.Total,
		"verified": s.Verified,
		"failed":   s.Failed,
		"rate":     fmt.Sprintf("%.1f", s.SuccessRate*100),
		"details":  details,
	}

	body, err := raymond.Render(verificationTemplate, data)
	if err != nil {
		return fmt.Sprintf("Error rendering report: %v", err)
	}
	return banner("VERIFICATION SUMMARY") + body
}
