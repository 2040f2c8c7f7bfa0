package types

import (
	"errors"
	"path/filepath"
)

// Config selects the store backend and where its document lives.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir,omitempty"`
	File     string `json:"file" yaml:"file,omitempty"`
	LogLevel string `json:"log_level" yaml:"log_level,omitempty"`
}

// Supported backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Default document file names per backend.
const (
	DefaultJSONFile   = "inventory.json"
	DefaultSQLiteFile = "inventory.db"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// DocumentPath returns the full path of the persisted document. An empty File
// falls back to the backend's default name; an empty DataDir means the
// current directory.
func (c Config) DocumentPath() string {
	file := c.File
	if file == "" {
		file = DefaultJSONFile
		if c.Backend == BackendSQLite {
			file = DefaultSQLiteFile
		}
	}
	if filepath.IsAbs(file) {
		return file
	}
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, file)
}
