// rawhttpd serves the same protocol as hellohttpd but accepts connections
// through the raw socket layer instead of the net package.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ybakhan/hellohttpd/internal/server"
)

func main() {
	addr := flag.String("addr", server.DefaultAddress, "listen address (IPv4 host:port)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(server.Config{Addr: *addr, Listen: server.ListenRaw})
	if err := srv.Start(ctx); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}

	<-ctx.Done()
	stop()

	srv.Stop()
}
