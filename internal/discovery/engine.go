package discovery

import (
	"fmt"
	"math/rand"
	"net"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fireremote/internal/logging"
	"github.com/muurk/fireremote/internal/mdns"
)

const (
	// DefaultTimeout is how long a discovery session listens before
	// reporting completion
	DefaultTimeout = 6 * time.Second

	// DefaultRetransmitDelay is when the query is re-sent once, to cover
	// for a lost first datagram
	DefaultRetransmitDelay = 1 * time.Second

	readBufferSize = 65535
)

// Events carries the engine's outbound notifications. Any callback may be
// nil. Callbacks fire from the engine's internal goroutines and must not
// call back into the engine synchronously.
type Events struct {
	// DeviceFound fires once per address when a new device is discovered
	DeviceFound func(*Device)

	// DeviceLeft fires when a goodbye notice withdraws a known device
	DeviceLeft func(*Device)

	// Done fires when the session times out, with the surviving device count
	Done func(count int)
}

// Engine runs one discovery session at a time: it multicasts the service
// query, collects responses until the timeout, and maintains the discovered
// set keyed by address with a first-seen-wins merge policy.
type Engine struct {
	// Timeout bounds the discovery session
	Timeout time.Duration

	// RetransmitDelay is when the single query retransmission goes out
	RetransmitDelay time.Duration

	mu      sync.Mutex
	active  bool
	devices map[string]*Device
	order   []string // first-seen address order
	events  Events

	mcast   *net.UDPConn // multicast group listener
	unicast *net.UDPConn // query source socket, receives QU-biased replies
	stop    chan struct{}
	timer   *time.Timer
	resend  *time.Timer
}

// NewEngine creates a discovery engine with default timings
func NewEngine(events Events) *Engine {
	return &Engine{
		Timeout:         DefaultTimeout,
		RetransmitDelay: DefaultRetransmitDelay,
		devices:         make(map[string]*Device),
		events:          events,
	}
}

// Start begins a discovery session. It returns an error if a session is
// already active. The prior result set is cleared, the query is multicast
// (with one retransmission), and the session ends after Timeout, firing the
// Done event with the discovered-device count.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.active {
		e.mu.Unlock()
		return fmt.Errorf("discovery already in progress")
	}
	e.active = true
	e.devices = make(map[string]*Device)
	e.order = nil
	e.stop = make(chan struct{})
	e.mu.Unlock()

	group := &net.UDPAddr{IP: net.ParseIP(mdns.MulticastAddress), Port: mdns.MulticastPort}

	mcast, err := net.ListenMulticastUDP("udp4", nil, group)
	if err != nil {
		e.finishEarly()
		return fmt.Errorf("failed to join multicast group: %w", err)
	}

	unicast, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		mcast.Close()
		e.finishEarly()
		return fmt.Errorf("failed to open query socket: %w", err)
	}

	e.mu.Lock()
	e.mcast = mcast
	e.unicast = unicast
	e.mu.Unlock()

	query := mdns.BuildQuery(uint16(rand.Intn(0x10000)))
	if _, err := unicast.WriteToUDP(query, group); err != nil {
		e.closeSockets()
		e.finishEarly()
		return fmt.Errorf("failed to send discovery query: %w", err)
	}
	logging.Debug("Discovery query sent", zap.Int("bytes", len(query)))

	// First packets on a just-joined group are lossy; send the query once
	// more shortly after
	e.resend = time.AfterFunc(e.RetransmitDelay, func() {
		e.mu.Lock()
		conn := e.unicast
		e.mu.Unlock()
		if conn != nil {
			_, _ = conn.WriteToUDP(query, group)
			logging.Debug("Discovery query retransmitted")
		}
	})

	e.timer = time.AfterFunc(e.Timeout, e.finish)

	go e.readLoop(mcast, e.stop)
	go e.readLoop(unicast, e.stop)

	return nil
}

// Active reports whether a discovery session is in progress
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Devices returns the discovered set as a stable list sorted by display
// name. The returned slice is a copy.
func (e *Engine) Devices() []*Device {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*Device, 0, len(e.order))
	for _, addr := range e.order {
		if d, ok := e.devices[addr]; ok {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// Scan is the synchronous convenience wrapper: it runs one full discovery
// session and returns the sorted results.
func (e *Engine) Scan() ([]*Device, error) {
	done := make(chan struct{})
	prev := e.events.Done
	e.events.Done = func(count int) {
		if prev != nil {
			prev(count)
		}
		close(done)
	}
	if err := e.Start(); err != nil {
		e.events.Done = prev
		return nil, err
	}
	<-done
	e.events.Done = prev
	return e.Devices(), nil
}

// readLoop feeds inbound datagrams to the parser until the socket closes
func (e *Engine) readLoop(conn *net.UDPConn, stop <-chan struct{}) {
	buf := make([]byte, readBufferSize)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-stop:
			default:
				logging.Debug("Discovery read error", zap.Error(err))
			}
			return
		}
		pkt := make([]byte, n)
		copy(pkt, buf[:n])
		e.handlePacket(pkt)
	}
}

// handlePacket parses one datagram and merges the result into the
// discovered set. The sender address is deliberately ignored: the device
// address comes only from the response payload's A record.
func (e *Engine) handlePacket(pkt []byte) {
	logging.LogPacket("Discovery datagram", pkt)

	rec := mdns.ParseResponse(pkt)
	if rec == nil {
		return
	}
	device := newDevice(rec)
	if device == nil {
		// Matched the service but carried no A record; unusable
		logging.Debug("Discarding response without address record")
		return
	}

	var found, left *Device

	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	existing, known := e.devices[device.Address]
	switch {
	case rec.Goodbye:
		if known {
			delete(e.devices, device.Address)
			left = existing
		}
	case !known:
		e.devices[device.Address] = device
		e.order = append(e.order, device.Address)
		found = device
	default:
		// Duplicate response for a known address: first-seen wins, so
		// repeated answers cause no churn
	}
	e.mu.Unlock()

	if found != nil {
		logging.Info("Device found",
			zap.String("address", found.Address),
			zap.String("name", found.Name),
		)
		if e.events.DeviceFound != nil {
			e.events.DeviceFound(found)
		}
	}
	if left != nil {
		logging.Info("Device left", zap.String("address", left.Address))
		if e.events.DeviceLeft != nil {
			e.events.DeviceLeft(left)
		}
	}
}

// finish ends the session on timeout: sockets close, timers stop, and the
// Done event reports the final count
func (e *Engine) finish() {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.active = false
	count := len(e.devices)
	close(e.stop)
	if e.resend != nil {
		e.resend.Stop()
	}
	mcast, unicast := e.mcast, e.unicast
	e.mcast, e.unicast = nil, nil
	e.mu.Unlock()

	if mcast != nil {
		mcast.Close()
	}
	if unicast != nil {
		unicast.Close()
	}

	logging.Info("Discovery complete", zap.Int("devices", count))
	if e.events.Done != nil {
		e.events.Done(count)
	}
}

// finishEarly resets the active flag after a failed Start without firing Done
func (e *Engine) finishEarly() {
	e.mu.Lock()
	e.active = false
	e.mu.Unlock()
}

// closeSockets tears down any open sockets after a partial Start failure
func (e *Engine) closeSockets() {
	e.mu.Lock()
	mcast, unicast := e.mcast, e.unicast
	e.mcast, e.unicast = nil, nil
	e.mu.Unlock()
	if mcast != nil {
		mcast.Close()
	}
	if unicast != nil {
		unicast.Close()
	}
}
