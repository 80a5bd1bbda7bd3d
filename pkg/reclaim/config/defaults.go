// Package config provides configuration management for the reclaim engine.
package config

// Default configuration values for reclaim.
const (
	// DefaultMinSize is the large-file threshold when none is configured.
	DefaultMinSize = "100MB"

	// DefaultCacheMinAge keeps cache entries younger than this out of
	// cache scans.
	DefaultCacheMinAge = "24h"

	// DefaultPath is the default path to scan when none is specified.
	DefaultPath = "."

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/reclaim"

	// DefaultWorkers is the worker count; zero means auto-detect from the
	// host topology.
	DefaultWorkers = 0

	// DefaultWorkerCap bounds the auto-detected worker count.
	DefaultWorkerCap = 16

	// DefaultFormat is the output format when none is requested.
	DefaultFormat = "pretty"
)

// DefaultExclusions contains directory names that scans skip by default.
var DefaultExclusions = []string{
	".git",
	"node_modules",
	".Trash",
}
