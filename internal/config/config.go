// Package config manages application defaults and the viper-based configuration engine.
package config

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"loanpack/internal/key"
)

const envPrefix = "LOANPACK"

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Fields is the complete configuration schema with defaults.
var Fields = []Field{
	{key.DownloadDir, ".", "Directory the book folder and .epub file are written to"},
	{key.DownloadTimeout, 30 * time.Second, "Per-request timeout for catalog and content fetches"},
	{key.DownloadRetries, 3, "Retry attempts for transient network failures"},
	{key.DownloadHideProgress, false, "Suppress the per-asset progress bar"},
	{key.DownloadExcludePrefixes, []string{"/_d/"}, "URL path prefixes of internal-only delivery assets that are never packaged"},
	{key.DebugKeepArtifacts, false, "Retain intermediate JSON/XML artifacts and the unpacked folder tree"},
	{key.LogLevel, "info", "Log severity (trace, debug, info, warn, error)"},
}

// Setup registers defaults and environment bindings. Environment variables
// use the LOANPACK_ prefix with dots and dashes mapped to underscores.
func Setup() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	for _, f := range Fields {
		viper.SetDefault(f.Key, f.Value)
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogLevel))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	return nil
}
