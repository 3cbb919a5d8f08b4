package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Configuration keys read from the environment or the optional rc file.
const (
	KeyHistoryFile = "SHELL_HISTORY_FILE"
	KeyMirrorFile  = "SHELL_MIRROR_FILE"
	KeyMirror      = "SHELL_MIRROR"
	KeyDebugFile   = "SHELL_DEBUG_FILE"
	KeyDebugLevel  = "SHELL_DEBUG_LEVEL"
	KeyDebugFormat = "SHELL_DEBUG_FORMAT"
)

// DefaultMirrorFile is where successful external stdout is mirrored, relative to the working directory.
const DefaultMirrorFile = "output.txt"

// Manager provides configuration management functionality
type Manager interface {
	GetStringWithDefault(key, defaultValue string) string
	GetBoolWithDefault(key string, defaultValue bool) bool
}

// DefaultManager reads configuration from the process environment.
type DefaultManager struct {
	getenv func(string) string
}

// NewManager creates an environment backed manager.
func NewManager() *DefaultManager {
	return &DefaultManager{getenv: os.Getenv}
}

// LoadFile merges a dotenv style file into the environment. Variables that are
// already set win. A missing file is not an error.
func LoadFile(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	return nil
}

// GetStringWithDefault gets a configuration value by key, returns default if not found
func (m *DefaultManager) GetStringWithDefault(key, defaultValue string) string {
	value := m.getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetBoolWithDefault parses key with strconv.ParseBool; unset or unparsable values yield defaultValue.
func (m *DefaultManager) GetBoolWithDefault(key string, defaultValue bool) bool {
	value := m.getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
