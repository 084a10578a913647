package prober

import "testing"

func TestRTTPatternParsesTimeEquals(t *testing.T) {
	out := []byte("64 bytes from 10.0.0.1: icmp_seq=1 ttl=64 time=12.3 ms\n")
	match := rttPattern.FindSubmatch(out)
	if match == nil {
		t.Fatal("expected match")
	}
	if string(match[1]) != "12.3" {
		t.Errorf("expected rtt 12.3, got %q", match[1])
	}
}

func TestRTTPatternParsesTimeLessThan(t *testing.T) {
	out := []byte("64 bytes from 10.0.0.1: icmp_seq=1 ttl=64 time<1.00 ms\n")
	match := rttPattern.FindSubmatch(out)
	if match == nil {
		t.Fatal("expected match")
	}
	if string(match[1]) != "1.00" {
		t.Errorf("expected rtt 1.00, got %q", match[1])
	}
}

func TestRTTPatternNoMatchOnUnreachable(t *testing.T) {
	out := []byte("From 10.0.0.1 icmp_seq=1 Destination Host Unreachable\n")
	if rttPattern.FindSubmatch(out) != nil {
		t.Error("expected no match for unreachable output")
	}
}

func TestNewSystemPingMethodName(t *testing.T) {
	m := NewSystemPingMethod()
	if m.Name() != "system-ping" {
		t.Errorf("unexpected name: %s", m.Name())
	}
}
