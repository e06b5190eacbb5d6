package netwatch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Prober checks reachability once.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

// DialProber treats a successful TCP connect to Address as online.
type DialProber struct {
	Address string
	Timeout time.Duration
}

// Probe dials Address and closes the connection immediately.
func (p DialProber) Probe(ctx context.Context) error {
	if p.Address == "" {
		return errors.New("no probe address configured")
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.Address)
	if err != nil {
		return fmt.Errorf("dial %s: %w", p.Address, err)
	}
	return conn.Close()
}
