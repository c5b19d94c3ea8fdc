// Package key defines the canonical configuration identifiers used across the application.
package key

// Download behaviour.
const (
	DownloadDir             = "download.dir"
	DownloadTimeout         = "download.timeout"
	DownloadRetries         = "download.retries"
	DownloadHideProgress    = "download.hide_progress"
	DownloadExcludePrefixes = "download.exclude_prefixes"
)

// Debug behaviour.
const (
	DebugKeepArtifacts = "debug.keep_artifacts"
)

// Logging.
const (
	LogLevel = "log.level"
)
