// internal/protocol/addr.go
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeIPv4 parses dotted-quad notation into the 32-bit destination
// address field used by FORWARD (network byte order when serialized
// big-endian). Only strict a.b.c.d with decimal octets 0-255 is accepted.
func EncodeIPv4(text string) (uint32, error) {
	parts := strings.Split(text, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("%w: address %q is not dotted-quad IPv4", ErrInvalidArgument, text)
	}
	var packed uint32
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: address %q has bad octet %q", ErrInvalidArgument, text, p)
		}
		packed = packed<<8 | uint32(n)
	}
	return packed, nil
}

// FormatIPv4 is the inverse of EncodeIPv4.
func FormatIPv4(addr uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
}

// ValidatePort accepts UDP destination ports in 1..65534.
// 0 and 65535 are rejected, matching the daemon's strict bounds.
func ValidatePort(n int) (uint16, error) {
	if n <= 0 || n >= 0xFFFF {
		return 0, fmt.Errorf("%w: port %d out of range (1-65534)", ErrInvalidArgument, n)
	}
	return uint16(n), nil
}
