package discovery

import (
	"fmt"
	"time"

	"github.com/muurk/fireremote/internal/mdns"
)

// Device represents a discovered Fire TV appliance on the network
type Device struct {
	// Address is the IPv4 address, taken from the response's A record
	Address string

	// Port is the control API port (typically 8080)
	Port int

	// Name is the display name from the TXT record, or a generated
	// "Fire TV (<address>)" fallback
	Name string

	// Model and Manufacturer come from TXT descriptor fields when present
	Model        string
	Manufacturer string

	// Properties contains the raw TXT record key/value pairs
	Properties map[string]string

	// DiscoveredAt is when the device was first seen in this session
	DiscoveredAt time.Time
}

// newDevice converts a parsed response record into a Device.
// Returns nil when the record carries no address: without an A record the
// response cannot be resolved to a reachable device.
func newDevice(rec *mdns.Record) *Device {
	if rec == nil || rec.Address == "" {
		return nil
	}
	return &Device{
		Address:      rec.Address,
		Port:         rec.Port,
		Name:         rec.DisplayName(),
		Model:        rec.Model,
		Manufacturer: rec.Manufacturer,
		Properties:   rec.Properties,
		DiscoveredAt: time.Now(),
	}
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("%s at %s:%d", d.Name, d.Address, d.Port)
}

// BaseURL returns the HTTPS base URL for the device's control API
func (d *Device) BaseURL() string {
	return fmt.Sprintf("https://%s:%d", d.Address, d.Port)
}
