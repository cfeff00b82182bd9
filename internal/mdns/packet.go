package mdns

import (
	"fmt"
	"strings"
)

// Wire format constants (RFC 1035 message layout, mDNS variant per RFC 6762)
const (
	// HeaderSize is the fixed DNS header length: transaction id, flags and
	// four big-endian 16-bit section counts
	HeaderSize = 12

	// ServiceType is the DNS-SD service type Fire TV devices answer for
	ServiceType = "_amzn-wplay._tcp.local"

	// serviceFragment is the substring used to match PTR records against
	// the target service; owner and target names are both checked
	serviceFragment = "_amzn-wplay"

	// MulticastAddress and MulticastPort form the mDNS group endpoint
	MulticastAddress = "224.0.0.251"
	MulticastPort    = 5353

	// DefaultControlPort is the device's REST API port, used when the
	// response carries no SRV record
	DefaultControlPort = 8080

	// MaxPointerHops bounds compression-pointer chains while decoding a
	// name. A well-formed packet needs at most a handful; anything past
	// this is a loop or hostile input.
	MaxPointerHops = 10
)

// Resource record types and classes
const (
	TypeA   = 1
	TypePTR = 12
	TypeTXT = 16
	TypeSRV = 33

	ClassIN = 1

	// classUnicastBit doubles as the QU bit in questions (unicast response
	// requested) and the cache-flush bit in answers
	classUnicastBit = 0x8000
)

// Record is the parsed result of a single discovery response.
// Address is populated only from an A record; a Record without an address
// cannot be resolved to a usable device and is discarded by the caller.
type Record struct {
	// Address is the IPv4 address from the response's A record
	Address string

	// Port is the control API port (SRV record, or DefaultControlPort)
	Port int

	// Name is the display name (TXT record, or generated fallback)
	Name string

	// Model and Manufacturer come from TXT descriptor fields when present
	Model        string
	Manufacturer string

	// Properties holds every key=value TXT segment verbatim
	Properties map[string]string

	// Goodbye is set when any record in the response carried TTL=0,
	// signalling the device is withdrawing its advertisement
	Goodbye bool
}

// DisplayName returns the record's name, falling back to a generated
// "Fire TV (<address>)" label when the response carried no TXT name.
func (r *Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Fire TV (%s)", r.Address)
}

// Uint16 reads a big-endian 16-bit integer at offset, returning 0 when the
// packet is too short
func Uint16(data []byte, offset int) uint16 {
	if offset < 0 || offset+2 > len(data) {
		return 0
	}
	return uint16(data[offset])<<8 | uint16(data[offset+1])
}

// Uint32 reads a big-endian 32-bit integer at offset, returning 0 when the
// packet is too short
func Uint32(data []byte, offset int) uint32 {
	if offset < 0 || offset+4 > len(data) {
		return 0
	}
	return uint32(data[offset])<<24 | uint32(data[offset+1])<<16 |
		uint32(data[offset+2])<<8 | uint32(data[offset+3])
}

// EncodeName encodes a dotted name into DNS label format: each label as a
// length-prefixed byte run, terminated by a zero length byte. Input is the
// fixed service literal, so labels over 63 bytes are not a concern here.
func EncodeName(name string) []byte {
	out := make([]byte, 0, len(name)+2)
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			continue
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return append(out, 0)
}

// DecodeName decodes a DNS name starting at offset, following compression
// pointers (top two bits of a length byte set = 14-bit back-reference).
// Returns the dotted name and the offset immediately after the name in the
// caller's sequential read: after the 2-byte pointer if the name jumped, or
// after the terminator otherwise. Decoding aborts with an error on pointer
// loops, out-of-bounds pointers, and labels running past the packet end.
func DecodeName(packet []byte, offset int) (string, int, error) {
	var labels []string
	next := -1 // resumption offset, fixed at the first pointer jump
	hops := 0
	pos := offset

	for {
		if pos < 0 || pos >= len(packet) {
			return "", 0, fmt.Errorf("name offset %d out of bounds (packet %d bytes)", pos, len(packet))
		}

		length := int(packet[pos])

		// Compression pointer: 0b11xxxxxx prefix
		if length&0xC0 == 0xC0 {
			if pos+2 > len(packet) {
				return "", 0, fmt.Errorf("truncated compression pointer at offset %d", pos)
			}
			hops++
			if hops > MaxPointerHops {
				return "", 0, fmt.Errorf("compression pointer chain exceeds %d hops", MaxPointerHops)
			}
			if next < 0 {
				next = pos + 2
			}
			target := (length&0x3F)<<8 | int(packet[pos+1])
			if target >= len(packet) {
				return "", 0, fmt.Errorf("compression pointer target %d out of bounds", target)
			}
			pos = target
			continue
		}

		if length == 0 {
			pos++
			break
		}

		if pos+1+length > len(packet) {
			return "", 0, fmt.Errorf("label at offset %d runs past packet end", pos)
		}
		labels = append(labels, string(packet[pos+1:pos+1+length]))
		pos += 1 + length
	}

	if next < 0 {
		next = pos
	}
	return strings.Join(labels, "."), next, nil
}

// BuildQuery constructs the discovery query packet: one PTR question for the
// Fire TV service type with the unicast-response (QU) bit set in the class
// field, biasing devices toward replying directly rather than multicasting.
func BuildQuery(txid uint16) []byte {
	packet := make([]byte, 0, HeaderSize+len(ServiceType)+6)

	packet = append(packet, byte(txid>>8), byte(txid)) // transaction id
	packet = append(packet, 0x00, 0x00)                // flags: standard query
	packet = append(packet, 0x00, 0x01)                // 1 question
	packet = append(packet, 0x00, 0x00)                // 0 answers
	packet = append(packet, 0x00, 0x00)                // 0 authority
	packet = append(packet, 0x00, 0x00)                // 0 additional

	packet = append(packet, EncodeName(ServiceType)...)
	packet = append(packet, 0x00, TypePTR)
	qclass := uint16(ClassIN | classUnicastBit)
	packet = append(packet, byte(qclass>>8), byte(qclass))

	return packet
}

// ParseResponse decodes a discovery response into a Record. It returns nil
// when the packet is not a usable response for the Fire TV service: too
// short, or no record referenced the service type. Malformed records and
// names abort quietly (that record is skipped or parsing stops); truncated
// or hostile input never panics.
func ParseResponse(packet []byte) *Record {
	if len(packet) < HeaderSize {
		return nil
	}

	questions := int(Uint16(packet, 4))
	records := int(Uint16(packet, 6)) + int(Uint16(packet, 8)) + int(Uint16(packet, 10))

	offset := HeaderSize

	// Skip the question section: name + type(2) + class(2)
	for i := 0; i < questions; i++ {
		_, next, err := DecodeName(packet, offset)
		if err != nil {
			return nil
		}
		offset = next + 4
		if offset > len(packet) {
			return nil
		}
	}

	rec := &Record{
		Port:       DefaultControlPort,
		Properties: make(map[string]string),
	}
	matched := false

	for i := 0; i < records; i++ {
		owner, next, err := DecodeName(packet, offset)
		if err != nil {
			break
		}
		offset = next

		// Fixed record header: type(2) class(2) ttl(4) rdlength(2)
		if offset+10 > len(packet) {
			break
		}
		rtype := int(Uint16(packet, offset))
		ttl := Uint32(packet, offset+4)
		rdlen := int(Uint16(packet, offset+8))
		offset += 10

		if offset+rdlen > len(packet) {
			break
		}
		rdataStart := offset
		// Advance strictly by the declared record length regardless of how
		// much of the rdata each branch consumes
		offset += rdlen

		if ttl == 0 {
			rec.Goodbye = true
		}

		switch rtype {
		case TypePTR:
			target, _, err := DecodeName(packet, rdataStart)
			if err != nil {
				continue
			}
			if strings.Contains(owner, serviceFragment) || strings.Contains(target, serviceFragment) {
				matched = true
			}

		case TypeTXT:
			parseTXT(packet[rdataStart:rdataStart+rdlen], rec)

		case TypeSRV:
			// priority(2) weight(2) port(2) target; priority/weight ignored
			if rdlen >= 6 {
				if port := Uint16(packet, rdataStart+4); port != 0 {
					rec.Port = int(port)
				}
			}

		case TypeA:
			if rdlen >= 4 {
				rec.Address = fmt.Sprintf("%d.%d.%d.%d",
					packet[rdataStart], packet[rdataStart+1],
					packet[rdataStart+2], packet[rdataStart+3])
			}
		}
	}

	if !matched {
		return nil
	}
	return rec
}

// TXT descriptor key aliases, first-match-wins across a response
var (
	nameKeys         = []string{"fn", "n", "name"}
	modelKeys        = []string{"md", "model"}
	manufacturerKeys = []string{"mf", "manufacturer"}
)

// parseTXT decodes length-prefixed key=value segments into the record's
// property bag, populating name/model/manufacturer from recognized keys
func parseTXT(data []byte, rec *Record) {
	pos := 0
	for pos < len(data) {
		length := int(data[pos])
		pos++
		if length == 0 || pos+length > len(data) {
			break
		}
		segment := string(data[pos : pos+length])
		pos += length

		key, value, found := strings.Cut(segment, "=")
		if !found {
			rec.Properties[segment] = ""
			continue
		}
		rec.Properties[key] = value

		switch {
		case rec.Name == "" && matchesKey(key, nameKeys):
			rec.Name = value
		case rec.Model == "" && matchesKey(key, modelKeys):
			rec.Model = value
		case rec.Manufacturer == "" && matchesKey(key, manufacturerKeys):
			rec.Manufacturer = value
		}
	}
}

func matchesKey(key string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.EqualFold(key, alias) {
			return true
		}
	}
	return false
}
