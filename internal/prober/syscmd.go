package prober

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"
)

// SystemPingMethod shells out to the system ping binary, one "-c 1" probe
// per call. This is the fallback mechanism: slower than a raw socket, but
// it exercises the host's own network stack and routing table, which
// occasionally succeeds where the unprivileged ICMP socket reports a false
// timeout (firewalled reply paths, for example).
type SystemPingMethod struct{}

func NewSystemPingMethod() *SystemPingMethod { return &SystemPingMethod{} }

func (m *SystemPingMethod) Name() string { return "system-ping" }

var rttPattern = regexp.MustCompile(`time[=<]([0-9.]+)\s*ms`)

func (m *SystemPingMethod) Probe(ctx context.Context, address string, deadline time.Duration) (float64, error) {
	seconds := int(deadline.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	cmd := exec.CommandContext(ctx, "ping", "-c", "1", "-W", strconv.Itoa(seconds), address)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("system ping %s: %w", address, err)
	}

	match := rttPattern.FindSubmatch(out)
	if match == nil {
		return 0, fmt.Errorf("system ping %s: no reply time in output", address)
	}
	rtt, err := strconv.ParseFloat(string(match[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("system ping %s: parse rtt: %w", address, err)
	}
	return rtt, nil
}
