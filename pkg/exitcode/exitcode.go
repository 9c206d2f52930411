// Package exitcode provides standardized exit codes for aideploy
package exitcode

// Exit codes for the aideploy CLI
const (
	Success            = 0
	GeneralError       = 1
	ConfigError        = 2
	MissingLog         = 3
	VerificationFailed = 4
	FileSystemError    = 5
	NetworkError       = 6
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case MissingLog:
		return "Deployment log missing or unreadable"
	case VerificationFailed:
		return "One or more deployments failed verification"
	case FileSystemError:
		return "File system error"
	case NetworkError:
		return "Network error"
	default:
		return "Unknown error"
	}
}
