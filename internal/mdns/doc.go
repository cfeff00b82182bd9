// Package mdns implements the multicast DNS wire format used for Fire TV
// device discovery.
//
// This package handles construction of the discovery query and robust
// decoding of discovery responses. It is deliberately not a general mDNS
// stack: it targets exactly one service type (_amzn-wplay._tcp.local),
// biases replies toward unicast via the QU bit, and decodes only the record
// types the device actually advertises (PTR, TXT, SRV, A).
//
// # Packet Layout
//
// Every message starts with the fixed 12-byte header:
//
//	[0:2]  transaction id
//	[2:4]  flags
//	[4:6]  question count     (big-endian 16-bit)
//	[6:8]  answer count
//	[8:10] authority count
//	[10:12] additional count
//
// Names are length-prefixed label runs terminated by a zero byte, with the
// RFC 1035 compression-pointer scheme (a length byte with the top two bits
// set is a 14-bit back-reference into the packet).
//
// # Robustness
//
// Responses arrive from arbitrary hosts on the local network, so every read
// is bounds-checked. Pointer chains are capped at MaxPointerHops to defeat
// self-referential loops, labels and rdata may never run past the packet
// end, and a malformed record aborts decoding of that record without taking
// the discovery session down. ParseResponse never panics on truncated input.
//
// # Address Semantics
//
// The device's network address is derived only from an A record in the
// response payload, never from datagram metadata. Host runtimes do not
// reliably expose the sender address of a multicast reply, so the payload
// must be self-sufficient.
package mdns
