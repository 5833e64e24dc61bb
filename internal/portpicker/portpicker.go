// Package portpicker probes local TCP port availability and resolves port
// conflicts against a named strategy.
package portpicker

import (
	"fmt"
	"net"
	"strconv"
)

const (
	StrategyFixed         = "fixed"
	StrategyAllowFallback = "allow-fallback"
	StrategyRandom        = "random"
)

// IsAvailable reports whether a loopback TCP listener can bind port.
func IsAvailable(port uint16) bool {
	l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(int(port))))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}

// Resolve returns a concrete port for the requested one under the given
// strategy. The requested port is always kept when it is free.
func Resolve(strategy string, requested uint16) (uint16, error) {
	if IsAvailable(requested) {
		return requested, nil
	}
	switch strategy {
	case StrategyFixed:
		return 0, fmt.Errorf("port %d is in use and the port strategy is fixed", requested)
	case StrategyAllowFallback, "":
		for p := uint32(requested) + 1; p <= 65535; p++ {
			if IsAvailable(uint16(p)) {
				return uint16(p), nil
			}
		}
		return 0, fmt.Errorf("no free port above %d", requested)
	case StrategyRandom:
		return randomFree()
	default:
		return 0, fmt.Errorf("unknown port strategy %q", strategy)
	}
}

func randomFree() (uint16, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("pick random port: %w", err)
	}
	defer func() { _ = l.Close() }()
	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("unexpected listener address %v", l.Addr())
	}
	return uint16(addr.Port), nil
}
