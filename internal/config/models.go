package config

import "time"

// Registry represents the entire user configuration file.
// It stores the paired target device, a cache of devices seen during
// discovery, and application preferences.
type Registry struct {
	Version     int                     `yaml:"version"`
	Target      *Target                 `yaml:"target,omitempty"`
	Devices     map[string]*KnownDevice `yaml:"devices,omitempty"` // Keyed by device address
	Preferences *Preferences            `yaml:"preferences,omitempty"`
}

// Target is the device commands are sent to, with its pairing credentials.
// The token is issued by the device during PIN pairing; the config file is
// written with user-only permissions because of it.
type Target struct {
	Address  string    `yaml:"address"`             // IP address of the device
	Name     string    `yaml:"name,omitempty"`      // Advertised friendly name
	Token    string    `yaml:"token,omitempty"`     // Pairing token (empty when unpaired)
	PairedAt time.Time `yaml:"paired_at,omitempty"` // When the current token was issued
}

// KnownDevice is a cache entry for a device seen during discovery.
// Purely client-side convenience so the device list is not empty before
// the first scan completes.
type KnownDevice struct {
	Name     string    `yaml:"name,omitempty"`      // Advertised friendly name
	Model    string    `yaml:"model,omitempty"`     // Model identifier from the TXT record
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	FriendlyName     string `yaml:"friendly_name"`      // Name shown on-device during pairing
	AutoWake         bool   `yaml:"auto_wake"`          // Wake the device implicitly before commands
	DiscoverTimeout  int    `yaml:"discover_timeout"`   // Discovery window in seconds
	RequestTimeout   int    `yaml:"request_timeout"`    // HTTP request timeout in seconds
	CommandSpacingMS int    `yaml:"command_spacing_ms"` // Minimum interval between queued commands
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*KnownDevice),
		Preferences: &Preferences{
			FriendlyName:     "fireremote",
			AutoWake:         true,
			DiscoverTimeout:  6,
			RequestTimeout:   10,
			CommandSpacingMS: 500,
		},
	}
}

// HasTarget reports whether a target device is configured.
func (r *Registry) HasTarget() bool {
	return r.Target != nil && r.Target.Address != ""
}

// Paired reports whether the configured target has a pairing token.
func (r *Registry) Paired() bool {
	return r.HasTarget() && r.Target.Token != ""
}

// SetTarget selects the device commands are sent to. Switching to a
// different address drops any token held for the previous target.
func (r *Registry) SetTarget(address, name string) {
	if r.Target != nil && r.Target.Address == address {
		if name != "" {
			r.Target.Name = name
		}
		return
	}
	r.Target = &Target{Address: address, Name: name}
}

// ClearTarget removes the target device and its credentials.
func (r *Registry) ClearTarget() {
	r.Target = nil
}

// RememberDevice records a discovery result in the device cache.
func (r *Registry) RememberDevice(address, name, model string) {
	if r.Devices == nil {
		r.Devices = make(map[string]*KnownDevice)
	}
	entry, exists := r.Devices[address]
	if !exists {
		entry = &KnownDevice{}
		r.Devices[address] = entry
	}
	if name != "" {
		entry.Name = name
	}
	if model != "" {
		entry.Model = model
	}
	entry.LastSeen = time.Now()
}

// SaveCredentials stores the pairing token for the target device and
// persists the registry. It satisfies the remote engine's credential
// store interface.
func (r *Registry) SaveCredentials(address, token string) error {
	if r.Target == nil || r.Target.Address != address {
		r.Target = &Target{Address: address}
	}
	r.Target.Token = token
	r.Target.PairedAt = time.Now()
	return r.Save()
}

// ClearCredentials drops the pairing token (keeping the target selected)
// and persists the registry.
func (r *Registry) ClearCredentials() error {
	if r.Target == nil {
		return nil
	}
	r.Target.Token = ""
	r.Target.PairedAt = time.Time{}
	return r.Save()
}
