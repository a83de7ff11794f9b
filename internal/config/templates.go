package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Gap Journal Configuration

[server]
# Base URL of the trading-journal backend
base_url = "http://127.0.0.1:5000"
# Per-request timeout in seconds
timeout_seconds = 30

[ui]
# Enable colored output
color_enabled = true
# Date format for entry/added dates
date_format = "01/02/2006"
# Default minimum gap percentage for the scanner
default_min_gap = 3.0
# Default performance period in days (0 = all)
default_period_days = 30
# Debounce interval for the symbol filter, milliseconds
debounce_ms = 300

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to stderr (noisy while a view is running)
console = false
# Log to ~/.config/gapjournal/logs with rotation
file = true
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
