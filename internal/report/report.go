// Package report renders run summaries and persists the machine-readable
// documents derived from a deployment log.
package report

import (
	"fmt"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/breverdbidder/claude-ai-deployer/internal/deploylog"
	"github.com/mattn/go-runewidth"
)

const bannerWidth = 62

// summaryTemplate renders the human-readable deployment report.
const summaryTemplate = `
Timestamp: {{timestamp}}
Total Files: {{total}}
Prepared: {{prepared}}
Failed: {{failed}}

Deployments:
{{#each deployments}}
{{marker}} {{filename}}
   Repo: {{repo}}
   Path: {{path}}
   Size: {{size}} bytes
   Checksum: {{checksum}}
{{#if error}}   Error: {{error}}
{{/if}}{{/each}}`

// banner draws a box-drawing header with a centered title.
func banner(title string) string {
	inner := bannerWidth - 2
	pad := inner - runewidth.StringWidth(title)
	if pad < 0 {
		pad = 0
	}
	left := pad / 2
	right := pad - left

	var b strings.Builder
	b.WriteString("╔" + strings.Repeat("═", inner) + "╗\n")
	b.WriteString("║" + strings.Repeat(" ", left) + title + strings.Repeat(" ", right) + "║\n")
	b.WriteString("╚" + strings.Repeat("═", inner) + "╝\n")
	return b.String()
}

// checksumPrefix shortens a digest for display.
func checksumPrefix(sum string) string {
	if len(sum) > 16 {
		return sum[:16] + "..."
	}
	return sum
}

// Summary renders the deployment report for a log. A log with zero entries
// produces a report with zero totals, not an error.
func Summary(log *deploylog.Log) string {
	prepared, failed := 0, 0
	entries := make([]map[string]interface{}, 0, len(log.Deployments))
	for _, e := range log.Deployments {
		marker := "✅"
		if e.Result.Status == deploylog.StatusFailed {
			marker = "❌"
			failed++
		} else {
			prepared++
		}
		entries = append(entries, map[string]interface{}{
			"marker":   marker,
			"filename": e.Manifest.Filename,
			"repo":     e.Manifest.TargetRepo,
			"path":     e.Manifest.TargetPath,
			"size":     e.Manifest.SizeBytes,
			"checksum": checksumPrefix(e.Manifest.Checksum),
			"error":    e.Result.Error,
		})
	}

	data := map[string]interface{}{
		"timestamp":   log.Timestamp,
		"total":       len(log.Deployments),
		"prepared":    prepared,
		"failed":      failed,
		"deployments": entries,
	}

	body, err := raymond.Render(summaryTemplate, data)
	if err != nil {
		return fmt.Sprintf("Error rendering report: %v", err)
	}
	return banner("AUTO-DEPLOY REPORT") + body
}
