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
	addr := flag.String("addr", server.DefaultAddress, "listen address (host:port)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(server.Config{Addr: *addr})
	if err := srv.Start(ctx); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}

	<-ctx.Done()
	// stop handling signals so a second interrupt exits immediately
	stop()

	srv.Stop()
}
