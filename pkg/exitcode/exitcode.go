// Package exitcode provides standardized exit codes for flutterkit
package exitcode

// Exit codes for the flutterkit CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	ProjectNotFound = 5
	ToolFailed      = 6
	TimeoutError    = 7
	ToolNotFound    = 9
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
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case ProjectNotFound:
		return "Flutter project not found"
	case ToolFailed:
		return "External tool failed"
	case TimeoutError:
		return "Timeout error"
	case ToolNotFound:
		return "Tool not found"
	default:
		return "Unknown error"
	}
}
