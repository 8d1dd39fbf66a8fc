package server

import (
	"net"
	"sync"

	"github.com/ybakhan/hellohttpd/internal/rawsock"
)

// ListenNet binds through the net package.
func ListenNet(address string) (Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	return &netListener{ln: ln}, nil
}

// ListenRaw binds through the raw socket layer. IPv4 only.
func ListenRaw(address string) (Listener, error) {
	ln, err := rawsock.Listen(address)
	if err != nil {
		return nil, err
	}
	return &rawListener{ln}, nil
}

type netListener struct {
	ln net.Listener
}

func (l *netListener) Accept() (Conn, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return &netConn{conn: conn}, nil
}

func (l *netListener) Addr() string {
	return l.ln.Addr().String()
}

func (l *netListener) Close() error {
	return l.ln.Close()
}

type netConn struct {
	conn      net.Conn
	closeOnce sync.Once
}

func (c *netConn) Read(p []byte) (int, error) {
	return c.conn.Read(p)
}

// WriteAll relies on net.Conn.Write, which already loops until the whole
// buffer is written or an error occurs.
func (c *netConn) WriteAll(p []byte) error {
	_, err := c.conn.Write(p)
	return err
}

func (c *netConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

type rawListener struct {
	*rawsock.Listener
}

func (l *rawListener) Accept() (Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return conn, nil
}
