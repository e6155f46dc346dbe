// Package ipguard implements the IPv4 prefix guard used by SPrefixITE to
// pick between its then/else branches based on a FEC's destination IP.
package ipguard

import (
	"fmt"
	"net/netip"
	"strings"
)

// Guard is an ordered list of IPv4 prefixes. A destination IP is covered by
// the guard if it falls inside any one of them.
type Guard struct {
	prefixes []netip.Prefix
	raw      []string
}

// New constructs a Guard from IPv4 prefix strings (e.g. "10.0.0.0/8"). A
// bare address without a "/bits" suffix is treated as a /32, matching
// ipaddress.IPv4Network(arg, strict=False)'s handling of a host address.
// New panics if any argument is not a valid IPv4 prefix.
func New(prefixes ...string) Guard {
	g := Guard{
		prefixes: make([]netip.Prefix, 0, len(prefixes)),
		raw:      append([]string(nil), prefixes...),
	}
	for _, p := range prefixes {
		prefix, err := parsePrefix(p)
		if err != nil {
			panic(fmt.Errorf("ipguard: %w", err))
		}
		g.prefixes = append(g.prefixes, prefix)
	}
	return g
}

func parsePrefix(s string) (netip.Prefix, error) {
	if !strings.Contains(s, "/") {
		addr, err := netip.ParseAddr(s)
		if err != nil || !addr.Is4() {
			return netip.Prefix{}, fmt.Errorf("%q is not a valid IPv4 prefix string", s)
		}
		return netip.PrefixFrom(addr, addr.BitLen()), nil
	}
	prefix, err := netip.ParsePrefix(s)
	if err != nil || !prefix.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("%q is not a valid IPv4 prefix string", s)
	}
	return prefix.Masked(), nil
}

// Contains reports whether dip (a dotted-quad IPv4 address) falls within
// any prefix of the guard. An unparseable address is reported as not
// contained, mirroring guard.py's catch-all ValueError handling.
func (g Guard) Contains(dip string) bool {
	addr, err := netip.ParseAddr(dip)
	if err != nil || !addr.Is4() {
		return false
	}
	for _, prefix := range g.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// String renders the guard as its prefix list, space-separated and
// parenthesized, matching the original's __str__.
func (g Guard) String() string {
	return "(" + strings.Join(g.raw, " ") + ")"
}
