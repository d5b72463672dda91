package config

// Version is stamped into --version output and release artifacts.
const Version = "0.3.1"

const SourceFileExt = ".strata"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".strata", ".strt"}

const (
	// ConfigFileName is the project file looked up from the working
	// directory toward the filesystem root.
	ConfigFileName = "strata.yaml"
	ConfigFileAlt  = "strata.yml"

	// DefaultStyle is the output format used when neither the project
	// file nor the command line picks one.
	DefaultStyle = "nested"

	// CacheFileName is the sqlite database holding rendered output,
	// created inside the cache directory.
	CacheFileName = "strata-cache.db"
)
