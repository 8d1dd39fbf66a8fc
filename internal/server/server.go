package server

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ybakhan/hellohttpd/internal/request"
	"github.com/ybakhan/hellohttpd/internal/response"
)

const (
	defaultGracePeriod = 3 * time.Second

	// DefaultAddress is the listen address used when Config.Addr is empty.
	DefaultAddress = "127.0.0.1:8080"

	// readBufferSize bounds a request to a single short read. Requests
	// longer than this are truncated; only the request line is ever
	// consumed, so truncation does not affect the response.
	readBufferSize = 1024
)

func NewServer(config Config) Server {
	if config.Addr == "" {
		config.Addr = DefaultAddress
	}

	if config.GracePeriod <= 0 {
		config.GracePeriod = defaultGracePeriod
	}

	if config.Listen == nil {
		config.Listen = ListenNet
	}
	return &server{config: config}
}

func (s *server) Start(shutdownCtx context.Context) error {
	listener, err := s.config.Listen(s.config.Addr)
	if err != nil {
		return err
	}
	s.listener = listener

	logrus.Infof("Server running on http://%s", listener.Addr())

	go func() {
		<-shutdownCtx.Done()
		if err := listener.Close(); err != nil {
			logrus.Errorf("Error closing listener: %v", err)
		}
	}()

	go func() {
		for {
			// check if shutdown is triggered before accepting connections
			if shutdownCtx.Err() != nil {
				return
			}

			conn, err := listener.Accept()
			if err != nil {
				if shutdownCtx.Err() != nil {
					return // shutdown in progress
				}

				logrus.Errorf("Error accepting connection: %v", err)
				continue // ignore error and try accepting again
			}

			s.wg.Add(1)
			go s.handleConnection(conn)
		}
	}()
	return nil
}

func (s *server) Stop() {
	logrus.Info("Shutting down...")
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	// wait for either WaitGroup to finish or timeout to occur
	select {
	case <-done:
		// shutdown complete
	case <-time.After(s.config.GracePeriod):
		logrus.Info("Grace period exceeded. Closing connections in progress.")
		// unblock any connection still stuck in read or write
		s.connections.Range(func(key, value interface{}) bool {
			if conn, ok := value.(Conn); ok {
				conn.Close()
				logrus.Infof("Connection %d closed due to shutdown.", key.(int64))
			}
			return true
		})
	}

	logrus.Info("Shutdown complete")
}

// Addr reports the bound listen address once Start has succeeded, which is
// how callers learn the port of a ":0" bind. The listener field is read
// without synchronization, so Addr must not be called concurrently with
// Start.
func (s *server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return s.config.Addr
}

func (s *server) handleConnection(conn Conn) {
	defer s.wg.Done()

	connectionID := s.generateConnectionID()
	s.connections.Store(connectionID, conn)
	defer s.connections.Delete(connectionID)

	defer func() {
		if err := conn.Close(); err != nil {
			logrus.Errorf("Error closing connection: %v", err)
		}
	}()

	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		logrus.Errorf("Error reading from connection: %v", err)
		return
	}

	status := response.StatusBadRequest
	if req, err := request.Parse(buf[:n]); err == nil {
		logrus.Infof("Request: %s %s", req.Method, req.Path)
		status = response.StatusOK
	}

	if err := conn.WriteAll(response.Render(status)); err != nil {
		logrus.Errorf("Error writing response: %v", err)
	}
}

// generateConnectionID generates a unique ID for each connection using atomic operations.
func (s *server) generateConnectionID() int64 {
	return atomic.AddInt64(&s.connectionID, 1)
}
