// Package discovery locates Fire TV appliances on the local network.
//
// This package runs a zero-configuration discovery session: it multicasts an
// mDNS query for the _amzn-wplay._tcp.local service (built by the mdns
// package), listens for responses on both the multicast group and the query
// socket, and maintains a live set of discovered devices.
//
// # Discovery Session
//
// A session runs idle -> active -> idle:
//  1. Start clears prior results and joins the multicast group
//  2. The query goes out, with one retransmission ~1s later to compensate
//     for a lossy first packet
//  3. Responses are parsed and merged into the result set by address
//  4. After the timeout the sockets close and Done reports the count
//
// Only one session can be active per engine; Start rejects overlap.
//
// # Merge Policy
//
// The discovered set is keyed by address with first-seen-wins semantics:
// duplicate responses for a known address are no-ops, avoiding churn from
// devices that answer both the original query and the retransmission. A
// goodbye response (any record with TTL=0) removes the device and fires the
// DeviceLeft event exactly once.
//
// # Address Source
//
// The device address is always extracted from the A record in the response
// payload, never from the datagram's sender address. Sender addresses are
// not reliably available on all host runtimes, so the payload must stand on
// its own; responses without an A record are discarded.
//
// # Usage Example
//
//	engine := discovery.NewEngine(discovery.Events{
//	    DeviceFound: func(d *discovery.Device) {
//	        fmt.Printf("found %s\n", d)
//	    },
//	})
//	devices, err := engine.Scan()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Network Requirements
//
//   - Requires multicast support on the network interface
//   - Devices must be on the same local network segment
//   - Firewall must allow mDNS (UDP port 5353)
package discovery
