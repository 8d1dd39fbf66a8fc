// Package rawsock implements a TCP listener and connection directly on top
// of the OS socket calls, without going through the net package.
package rawsock

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"sync"

	"golang.org/x/sys/unix"
)

// Backlog is the pending-connection queue depth passed to listen(2).
const Backlog = 128

var ErrUnsupportedAddressFamily = errors.New("only IPv4 listen addresses are supported")

// Listener owns a bound, listening socket file descriptor.
type Listener struct {
	fd        int
	addr      netip.AddrPort
	closeOnce sync.Once
}

// Listen creates a stream socket, enables SO_REUSEADDR, binds it to address
// and marks it listening. address must be an IPv4 host:port; an IPv6 address
// fails with ErrUnsupportedAddressFamily. On any failure the partially
// acquired descriptor is closed before returning.
func Listen(address string) (*Listener, error) {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return nil, fmt.Errorf("rawsock: parse listen address %q: %w", address, err)
	}
	ip := ap.Addr().Unmap()
	if !ip.Is4() {
		return nil, fmt.Errorf("rawsock: listen on %q: %w", address, ErrUnsupportedAddressFamily)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("rawsock: socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("rawsock: set SO_REUSEADDR: %w", err)
	}
	sa := &unix.SockaddrInet4{Port: int(ap.Port()), Addr: ip.As4()}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("rawsock: bind %s: %w", address, err)
	}
	if err := unix.Listen(fd, Backlog); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("rawsock: listen: %w", err)
	}

	// Re-read the bound address so a port 0 bind reports the assigned port.
	bound, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("rawsock: getsockname: %w", err)
	}
	inet4, ok := bound.(*unix.SockaddrInet4)
	if !ok {
		unix.Close(fd)
		return nil, fmt.Errorf("rawsock: getsockname returned non-IPv4 address for %s", address)
	}

	return &Listener{
		fd:   fd,
		addr: netip.AddrPortFrom(netip.AddrFrom4(inet4.Addr), uint16(inet4.Port)),
	}, nil
}

// Accept blocks until a peer connects and returns the accepted connection.
// A failed accept does not invalidate the listener; callers may keep
// accepting afterwards. The descriptor blocks the calling OS thread, and
// closing the listener does not wake a thread already blocked here; the
// block ends only when the next peer connects or the process exits.
func (l *Listener) Accept() (*Conn, error) {
	for {
		nfd, _, err := unix.Accept(l.fd)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, fmt.Errorf("rawsock: accept: %w", err)
		}
		return &Conn{fd: nfd}, nil
	}
}

// Addr reports the bound listen address.
func (l *Listener) Addr() string {
	return l.addr.String()
}

// Close releases the listening descriptor. Only the first call closes;
// subsequent calls return nil.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if cerr := unix.Close(l.fd); cerr != nil {
			err = fmt.Errorf("rawsock: close listener: %w", cerr)
		}
	})
	return err
}

// Conn owns one accepted connection descriptor.
type Conn struct {
	fd        int
	closeOnce sync.Once
}

// Read performs a single read of available input into p and returns io.EOF
// once the peer has shut down its side. There is no read deadline; an idle
// peer blocks the caller indefinitely.
func (c *Conn) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(c.fd, p)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, fmt.Errorf("rawsock: read: %w", err)
		}
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

// WriteAll writes all of p to the peer, looping over partial writes. Bytes
// already sent before a failure are not recalled.
func (c *Conn) WriteAll(p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(c.fd, p)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("rawsock: write: %w", err)
		}
		p = p[n:]
	}
	return nil
}

// Close releases the connection descriptor. Only the first call closes;
// subsequent calls return nil.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if cerr := unix.Close(c.fd); cerr != nil {
			err = fmt.Errorf("rawsock: close: %w", cerr)
		}
	})
	return err
}
