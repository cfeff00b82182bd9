package discovery

import (
	"testing"

	"github.com/muurk/fireremote/internal/mdns"
)

func TestNewDevice(t *testing.T) {
	tests := []struct {
		name string
		rec  *mdns.Record
		want *Device
	}{
		{
			name: "nil record",
			rec:  nil,
			want: nil,
		},
		{
			name: "no address",
			rec:  &mdns.Record{Name: "Den", Port: 8080},
			want: nil,
		},
		{
			name: "full record",
			rec: &mdns.Record{
				Address:      "10.0.0.5",
				Port:         8080,
				Name:         "LivingRoom",
				Model:        "AFTMM",
				Manufacturer: "Amazon",
			},
			want: &Device{
				Address:      "10.0.0.5",
				Port:         8080,
				Name:         "LivingRoom",
				Model:        "AFTMM",
				Manufacturer: "Amazon",
			},
		},
		{
			name: "fallback name generated",
			rec:  &mdns.Record{Address: "10.0.0.5", Port: 8080},
			want: &Device{Address: "10.0.0.5", Port: 8080, Name: "Fire TV (10.0.0.5)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newDevice(tt.rec)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("newDevice = %v, want %v", got, tt.want)
			}
			if got == nil {
				return
			}
			if got.Address != tt.want.Address || got.Port != tt.want.Port ||
				got.Name != tt.want.Name || got.Model != tt.want.Model ||
				got.Manufacturer != tt.want.Manufacturer {
				t.Errorf("newDevice = %+v, want %+v", got, tt.want)
			}
			if got.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt not set")
			}
		})
	}
}

func TestDeviceBaseURL(t *testing.T) {
	d := &Device{Address: "192.168.4.16", Port: 8080}
	if got := d.BaseURL(); got != "https://192.168.4.16:8080" {
		t.Errorf("BaseURL = %q, want %q", got, "https://192.168.4.16:8080")
	}
}

func TestDeviceString(t *testing.T) {
	d := &Device{Name: "LivingRoom", Address: "10.0.0.5", Port: 8080}
	if got := d.String(); got != "LivingRoom at 10.0.0.5:8080" {
		t.Errorf("String = %q", got)
	}
}
