package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config represents the Tally configuration
type Config struct {
	// Shop identity
	StoreName string `json:"store_name"`
	Currency  string `json:"currency"`

	// Data
	DatabasePath string `json:"database_path"`

	// Coordination tuning
	PageSize          int `json:"page_size"`
	SearchDebounceMs  int `json:"search_debounce_ms"`
	MutationTimeoutMs int `json:"mutation_timeout_ms"`

	// UI preferences
	Theme string `json:"theme"`
	Debug bool   `json:"debug"`

	// Observability; empty disables the metrics endpoint
	MetricsAddr string `json:"metrics_addr"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		StoreName:         "Tally Store",
		Currency:          "USD",
		DatabasePath:      filepath.Join(".tally", "tally.db"),
		PageSize:          20,
		SearchDebounceMs:  300,
		MutationTimeoutMs: 30000,
		Theme:             "slate",
		Debug:             false,
		MetricsAddr:       "",
	}
}

// SearchDebounce returns the free-text debounce window as a duration.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

// MutationTimeout returns the optimistic-mutation timeout as a duration.
func (c *Config) MutationTimeout() time.Duration {
	return time.Duration(c.MutationTimeoutMs) * time.Millisecond
}

// LogPath returns the log file location next to the database.
func (c *Config) LogPath() string {
	return filepath.Join(filepath.Dir(c.DatabasePath), "tally.log")
}

// Manager handles configuration loading and saving
type Manager struct {
	workDir    string
	configPath string
	config     *Config
}

// NewManager creates a new configuration manager rooted at workDir
func NewManager(workDir string) *Manager {
	tallyDir := filepath.Join(workDir, ".tally")
	return &Manager{
		workDir:    workDir,
		configPath: filepath.Join(tallyDir, "config.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, creating defaults if needed
func (m *Manager) Load() error {
	tallyDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(tallyDir, 0o755); err != nil {
		return fmt.Errorf("failed to create .tally directory: %w", err)
	}

	if err := m.ensureGitignore(); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		// First run: write defaults
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	m.expandEnvVars(config)
	m.applyBounds(config)
	m.config = config
	return nil
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	return m.config
}

// Set updates a configuration value and saves
func (m *Manager) Set(key, value string) error {
	switch key {
	case "store_name":
		m.config.StoreName = value
	case "currency":
		m.config.Currency = value
	case "database_path":
		m.config.DatabasePath = value
	case "page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("page_size must be a number: %w", err)
		}
		m.config.PageSize = n
	case "search_debounce_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("search_debounce_ms must be a number: %w", err)
		}
		m.config.SearchDebounceMs = n
	case "mutation_timeout_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("mutation_timeout_ms must be a number: %w", err)
		}
		m.config.MutationTimeoutMs = n
	case "theme":
		m.config.Theme = value
	case "debug":
		m.config.Debug = value == "true"
	case "metrics_addr":
		m.config.MetricsAddr = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	m.applyBounds(m.config)
	return m.Save()
}

// applyBounds clamps numeric settings to workable ranges.
func (m *Manager) applyBounds(c *Config) {
	if c.PageSize < 1 {
		c.PageSize = 20
	}
	if c.SearchDebounceMs < 0 {
		c.SearchDebounceMs = 0
	}
	if c.MutationTimeoutMs < 100 {
		c.MutationTimeoutMs = 30000
	}
}

// ensureGitignore creates a .gitignore in .tally/ with smart defaults
func (m *Manager) ensureGitignore() error {
	gitignorePath := filepath.Join(filepath.Dir(m.configPath), ".gitignore")

	if _, err := os.Stat(gitignorePath); !os.IsNotExist(err) {
		return nil // Already exists
	}

	gitignoreContent := `# Tally data directory .gitignore
#
# Config is worth committing; the database, logs and exports are not.

*.db
*.db-journal
*.db-wal
*.log
*.csv
*.tmp
.DS_Store

!config.json
!.gitignore
`

	return os.WriteFile(gitignorePath, []byte(gitignoreContent), 0o644)
}

// expandEnvVars expands environment variables in config values
func (m *Manager) expandEnvVars(config *Config) {
	config.StoreName = expandString(config.StoreName)
	config.Currency = expandString(config.Currency)
	config.DatabasePath = expandString(config.DatabasePath)
	config.Theme = expandString(config.Theme)
	config.MetricsAddr = expandString(config.MetricsAddr)
}

// expandString expands environment variables in a string
// Supports $VAR and ${VAR} syntax
func expandString(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		// Return original if env var not found
		return match
	})
}
