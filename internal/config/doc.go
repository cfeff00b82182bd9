// Package config provides user configuration management for fireremote.
//
// This package manages a YAML-based configuration file holding the paired
// target device (address, advertised name, pairing token), a cache of
// devices seen during discovery, and application preferences. The registry
// doubles as the credential store for the remote control engine: pairing
// tokens are persisted through SaveCredentials and dropped through
// ClearCredentials.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/fireremote/config.yaml or $HOME/.config/fireremote/config.yaml
//   - macOS: $HOME/.config/fireremote/config.yaml
//   - Windows: %LOCALAPPDATA%\fireremote\config.yaml
//
// # Security
//
// The pairing token grants remote control of the device, so the file and
// its directory are created with user-only permissions (0600/0700).
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex and saves are
// atomic (write to a temporary file, then rename).
package config
