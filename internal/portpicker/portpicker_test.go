package portpicker

import (
	"net"
	"testing"
)

func occupyPort(t *testing.T) uint16 {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return uint16(l.Addr().(*net.TCPAddr).Port)
}

func releasedPort(t *testing.T) uint16 {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	p := uint16(l.Addr().(*net.TCPAddr).Port)
	_ = l.Close()
	return p
}

func TestIsAvailable(t *testing.T) {
	busy := occupyPort(t)
	if IsAvailable(busy) {
		t.Fatalf("port %d reported available while held", busy)
	}
	free := releasedPort(t)
	if !IsAvailable(free) {
		t.Fatalf("port %d reported busy after release", free)
	}
}

func TestResolve_KeepsFreePort(t *testing.T) {
	free := releasedPort(t)
	for _, strategy := range []string{StrategyFixed, StrategyAllowFallback, StrategyRandom} {
		got, err := Resolve(strategy, free)
		if err != nil {
			t.Fatalf("%s: %v", strategy, err)
		}
		if got != free {
			t.Fatalf("%s: got %d, want requested %d", strategy, got, free)
		}
	}
}

func TestResolve_Fixed_BusyFails(t *testing.T) {
	busy := occupyPort(t)
	if _, err := Resolve(StrategyFixed, busy); err == nil {
		t.Fatalf("expected error for busy port under fixed strategy")
	}
}

func TestResolve_AllowFallback_ScansUpward(t *testing.T) {
	busy := occupyPort(t)
	got, err := Resolve(StrategyAllowFallback, busy)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got <= busy {
		t.Fatalf("got %d, want a port above %d", got, busy)
	}
	if !IsAvailable(got) {
		t.Fatalf("resolved port %d is not available", got)
	}
}

func TestResolve_Random_AvoidsBusyPort(t *testing.T) {
	busy := occupyPort(t)
	got, err := Resolve(StrategyRandom, busy)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == busy {
		t.Fatalf("random strategy returned the busy port")
	}
	if got == 0 {
		t.Fatalf("random strategy returned zero")
	}
}

func TestResolve_UnknownStrategy(t *testing.T) {
	busy := occupyPort(t)
	if _, err := Resolve("sometimes", busy); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestResolve_EmptyStrategyFallsBack(t *testing.T) {
	busy := occupyPort(t)
	got, err := Resolve("", busy)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got <= busy {
		t.Fatalf("got %d, want a port above %d", got, busy)
	}
}
