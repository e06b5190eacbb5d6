//go:build linux

package netwatch

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pilebones/go-udev/netlink"
	"golang.org/x/sys/unix"

	"pizzahunt/internal/logging"
)

func platformHints(logger *slog.Logger) []HintSource {
	return []HintSource{
		newUdevHints(logger),
		newRouteHints(logger),
	}
}

// udevHints forwards udev events for the "net" subsystem, which fire when
// interfaces appear, disappear or are renamed.
type udevHints struct {
	logger *slog.Logger

	mu   sync.Mutex
	conn *netlink.UEventConn
	quit chan struct{}
	wg   sync.WaitGroup
}

func newUdevHints(logger *slog.Logger) *udevHints {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &udevHints{logger: logger}
}

func (u *udevHints) Name() string { return "udev" }

func (u *udevHints) Start(ctx context.Context, notify func(string)) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.conn != nil {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect udev netlink socket: %w", err)
	}
	u.conn = conn
	u.quit = make(chan struct{})

	quit := u.quit
	u.wg.Add(1)
	go u.loop(ctx, conn, quit, notify)
	return nil
}

func (u *udevHints) loop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}, notify func(string)) {
	defer u.wg.Done()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildNetMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			u.logger.Debug("udev network event",
				logging.String("action", string(uevent.Action)),
				logging.String("interface", uevent.Env["INTERFACE"]),
			)
			notify("udev")
		case err := <-errs:
			u.logger.Debug("udev monitor error", logging.Error(err))
		}
	}
}

// buildNetMatcher matches SUBSYSTEM=net with ACTION=add|remove|change|move.
func buildNetMatcher() netlink.Matcher {
	action := "add|remove|change|move"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "net",
		},
	})
	return rules
}

func (u *udevHints) Stop() {
	u.mu.Lock()
	if u.conn == nil {
		u.mu.Unlock()
		return
	}
	close(u.quit)
	conn := u.conn
	u.conn = nil
	u.quit = nil
	u.mu.Unlock()

	u.wg.Wait()
	_ = conn.Close()
}

const (
	routeGroups  = unix.RTMGRP_LINK | unix.RTMGRP_IPV4_IFADDR | unix.RTMGRP_IPV6_IFADDR
	routeBufSize = 1 << 16
)

// routeHints listens on an rtnetlink socket for link and address changes.
// Reads time out every second so Stop is observed.
type routeHints struct {
	logger *slog.Logger

	mu   sync.Mutex
	fd   int
	quit chan struct{}
	wg   sync.WaitGroup
}

func newRouteHints(logger *slog.Logger) *routeHints {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &routeHints{logger: logger, fd: -1}
}

func (r *routeHints) Name() string { return "rtnetlink" }

func (r *routeHints) Start(ctx context.Context, notify func(string)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fd >= 0 {
		return nil
	}

	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.NETLINK_ROUTE)
	if err != nil {
		return fmt.Errorf("open rtnetlink socket: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: routeGroups}); err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("bind rtnetlink socket: %w", err)
	}
	timeout := unix.Timeval{Sec: 1}
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &timeout); err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("set rtnetlink read timeout: %w", err)
	}

	r.fd = fd
	r.quit = make(chan struct{})
	quit := r.quit
	r.wg.Add(1)
	go r.loop(ctx, fd, quit, notify)
	return nil
}

func (r *routeHints) loop(ctx context.Context, fd int, quit <-chan struct{}, notify func(string)) {
	defer r.wg.Done()

	buf := make([]byte, routeBufSize)
	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		default:
		}

		n, _, err := unix.Recvfrom(fd, buf, 0)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EINTR) {
				continue
			}
			r.logger.Debug("rtnetlink read failed", logging.Error(err))
			return
		}
		if kind, ok := routeChange(buf[:n]); ok {
			r.logger.Debug("rtnetlink network event", logging.String("message", kind))
			notify("rtnetlink")
		}
	}
}

// routeChange scans a netlink datagram and reports the first link or
// address change it carries.
func routeChange(b []byte) (string, bool) {
	for len(b) >= unix.SizeofNlMsghdr {
		length := binary.NativeEndian.Uint32(b[0:4])
		msgType := binary.NativeEndian.Uint16(b[4:6])
		if length < unix.SizeofNlMsghdr || int(length) > len(b) {
			return "", false
		}
		switch msgType {
		case unix.RTM_NEWLINK:
			return "newlink", true
		case unix.RTM_DELLINK:
			return "dellink", true
		case unix.RTM_NEWADDR:
			return "newaddr", true
		case unix.RTM_DELADDR:
			return "deladdr", true
		}
		aligned := (int(length) + unix.NLMSG_ALIGNTO - 1) &^ (unix.NLMSG_ALIGNTO - 1)
		if aligned >= len(b) {
			return "", false
		}
		b = b[aligned:]
	}
	return "", false
}

func (r *routeHints) Stop() {
	r.mu.Lock()
	if r.fd < 0 {
		r.mu.Unlock()
		return
	}
	close(r.quit)
	fd := r.fd
	r.fd = -1
	r.quit = nil
	r.mu.Unlock()

	r.wg.Wait()
	_ = unix.Close(fd)
}
