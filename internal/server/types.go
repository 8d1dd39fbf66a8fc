package server

import (
	"context"
	"sync"
	"time"
)

type (
	Server interface {
		Start(ctx context.Context) error
		Stop()
		Addr() string
	}

	Config struct {
		Addr        string
		GracePeriod time.Duration
		Listen      ListenFunc
	}

	// ListenFunc binds a listening socket for an address. ListenNet and
	// ListenRaw are the two implementations.
	ListenFunc func(address string) (Listener, error)

	Listener interface {
		Accept() (Conn, error)
		Addr() string
		Close() error
	}

	Conn interface {
		Read(p []byte) (int, error)
		WriteAll(p []byte) error
		Close() error
	}

	server struct {
		config       Config
		listener     Listener
		wg           sync.WaitGroup
		connections  sync.Map
		connectionID int64 // Atomic counter for connection IDs
	}
)
