// Package config loads prefcenter's configuration file.
//
// # Overview
//
// The configuration names where preference markup and resources live, which
// key-value backend stores values, and where the log store keeps its files.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/prefcenter/config.toml (default)
//  3. If the config file doesn't exist, start from defaults
//  4. Load a .env file from the working directory if one exists
//  5. Apply PREFCENTER_* environment variables over file values
//  6. Validate the result
//
// # Default Values
//
//   - Config file: ~/.config/prefcenter/config.toml
//   - Markup: ~/.config/prefcenter/preferences.xml
//   - Resources: ~/.config/prefcenter/resources.toml
//   - Store backend: file, under ~/.config/prefcenter/store
//   - Log directory: ~/.local/share/prefcenter/logs
//   - Log level: info
//   - Retained log entries: 100
//
// # TOML Format
//
//	markup = "~/.config/prefcenter/preferences.xml"
//	resources = "~/.config/prefcenter/resources.toml"
//	store_backend = "redis"          # file, memory or redis
//	store_dir = "~/.config/prefcenter/store"
//	redis_url = "redis://localhost:6379/0"
//	log_dir = "~/.local/share/prefcenter/logs"
//	log_level = "debug"              # debug, info, warn or error
//	max_logs = 100
//
// Every field is optional. Tilde expansion is performed on paths.
//
// # Environment
//
// Each field can be overridden with an upper-case variable carrying the
// PREFCENTER_ prefix, for example PREFCENTER_STORE_BACKEND or
// PREFCENTER_REDIS_URL. Variables already set in the process win over the
// .env file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - A non-numeric PREFCENTER_MAX_LOGS
//   - Validation failures, such as the redis backend without redis_url
//
// Missing config files are NOT an error, so prefcenter works out of the box.
package config
