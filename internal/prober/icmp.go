package prober

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// ICMPMethod sends a single unprivileged ICMP echo request per probe,
// listening on a UDP-style ICMP socket that requires no special
// capabilities (CAP_NET_RAW / root), grounded on the "udp4"/"udp6"
// ListenPacket pattern used for unprivileged ICMP senders.
type ICMPMethod struct {
	id int
}

// NewICMPMethod builds an ICMPMethod. The echo identifier is derived from
// the process ID so concurrent probes from different processes don't
// collide on reply matching.
func NewICMPMethod() *ICMPMethod {
	return &ICMPMethod{id: os.Getpid() & 0xffff}
}

func (m *ICMPMethod) Name() string { return "icmp" }

func (m *ICMPMethod) Probe(ctx context.Context, address string, deadline time.Duration) (float64, error) {
	ipAddr, err := net.ResolveIPAddr("ip", address)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", address, err)
	}

	isV6 := ipAddr.IP.To4() == nil
	network, listenAddr, echoType := "udp4", "0.0.0.0", ipv4.ICMPTypeEcho
	protocol := 1
	if isV6 {
		network, listenAddr, echoType, protocol = "udp6", "::", ipv6.ICMPTypeEchoRequest, 58
	}

	conn, err := icmp.ListenPacket(network, listenAddr)
	if err != nil {
		return 0, fmt.Errorf("listen icmp: %w", err)
	}
	defer conn.Close()

	msg := icmp.Message{
		Type: echoType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   m.id,
			Seq:  1,
			Data: []byte("fleetwatch"),
		},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		return 0, fmt.Errorf("marshal echo request: %w", err)
	}

	deadlineAt := time.Now().Add(deadline)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadlineAt) {
		deadlineAt = dl
	}
	if err := conn.SetDeadline(deadlineAt); err != nil {
		return 0, fmt.Errorf("set deadline: %w", err)
	}

	sentAt := time.Now()
	if _, err := conn.WriteTo(wire, &net.UDPAddr{IP: ipAddr.IP}); err != nil {
		return 0, fmt.Errorf("write echo request: %w", err)
	}

	reply := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(reply)
		if err != nil {
			return 0, fmt.Errorf("read echo reply: %w", err)
		}
		if peerIP, ok := peer.(*net.UDPAddr); ok && !peerIP.IP.Equal(ipAddr.IP) {
			continue // reply from a different host than the one we probed
		}

		parsed, err := icmp.ParseMessage(protocol, reply[:n])
		if err != nil {
			continue
		}
		switch parsed.Type {
		case ipv4.ICMPTypeEchoReply, ipv6.ICMPTypeEchoReply:
			if body, ok := parsed.Body.(*icmp.Echo); ok && body.ID == m.id {
				return float64(time.Since(sentAt).Microseconds()) / 1000.0, nil
			}
		case ipv4.ICMPTypeDestinationUnreachable, ipv6.ICMPTypeDestinationUnreachable:
			return 0, fmt.Errorf("destination unreachable")
		}
	}
}
