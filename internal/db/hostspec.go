package db

import (
	"strconv"
	"strings"

	"github.com/myconn-db/myconn/pkg/myconn"
)

// ParseHostSpec normalizes a raw host specification into a HostTarget.
//
// Supported forms:
//   - "hostname"
//   - "hostname:port"
//   - "hostname:/path/to/socket"
//   - "[ipv6addr]"
//   - "[ipv6addr]:port"
//   - bare IPv6 literal (two or more colons, no brackets)
//
// The second return value is false when the input carries no structured
// data; callers then use the raw string as-is. Malformed input is never an
// error, matching the permissive behavior of classic client libraries.
func ParseHostSpec(raw string) (*myconn.HostTarget, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	if strings.HasPrefix(raw, "[") {
		return parseBracketedIPv6(raw)
	}

	// Two or more colons without brackets can only be an IPv6 literal;
	// there is no way to carry a port in this form.
	if strings.Count(raw, ":") >= 2 {
		return &myconn.HostTarget{Host: raw, IPv6: true}, true
	}

	i := strings.IndexByte(raw, ':')
	if i < 0 {
		return &myconn.HostTarget{Host: raw}, true
	}

	host, rest := raw[:i], raw[i+1:]

	// "hostname:/path/to/socket"
	if strings.HasPrefix(rest, "/") {
		return &myconn.HostTarget{Host: host, Socket: rest}, true
	}

	port, err := strconv.Atoi(rest)
	if err != nil || port <= 0 {
		return nil, false
	}
	return &myconn.HostTarget{Host: host, Port: &port}, true
}

func parseBracketedIPv6(raw string) (*myconn.HostTarget, bool) {
	end := strings.IndexByte(raw, ']')
	if end < 0 || end == 1 {
		return nil, false
	}

	target := &myconn.HostTarget{Host: raw[1:end], IPv6: true}

	rest := raw[end+1:]
	if rest == "" {
		return target, true
	}
	if !strings.HasPrefix(rest, ":") {
		return nil, false
	}

	port, err := strconv.Atoi(rest[1:])
	if err != nil || port <= 0 {
		return nil, false
	}
	target.Port = &port
	return target, true
}
