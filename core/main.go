package main

import (
	"os"
	"os/signal"
	"syscall"

	"kvstored/pkg/log"
	"kvstored/source/config"
	"kvstored/source/engine"
	"kvstored/source/lifecycle"
	"kvstored/source/store"
)

const version = "1.0.0"

func main() {
	if os.Getenv("KVSTORED_LOG_DEV") != "" {
		log.SetDevelopment()
	}
	defer log.Sync()

	log.Banner("kvstored", version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.Info("Listening on %s:%d", displayHost(cfg.Host), cfg.Port)
	log.Info("Max frame length: %d bytes", cfg.MaxFrameLen)

	listenFD, err := engine.Listen(cfg.Host, cfg.Port)
	if err != nil {
		log.Fatal("Failed to bind listening socket: %v", err)
	}

	ks := store.New()
	bus := lifecycle.NewBus()
	bus.Subscribe(lifecycle.ConnAccepted, func(ev lifecycle.Event) {
		log.Debug("Accepted connection fd=%d", ev.FD)
	})
	bus.Subscribe(lifecycle.ConnClosed, func(ev lifecycle.Event) {
		log.Debug("Closed connection fd=%d", ev.FD)
	})
	bus.Subscribe(lifecycle.IOError, func(ev lifecycle.Event) {
		log.Warn("I/O error on fd=%d: %v", ev.FD, ev.Err)
	})
	bus.Subscribe(lifecycle.ProtocolError, func(ev lifecycle.Event) {
		log.Warn("Protocol error on fd=%d: %v", ev.FD, ev.Err)
	})
	bus.Subscribe(lifecycle.Tick, func(ev lifecycle.Event) {
		log.Debug("heartbeat: %d active connections", ev.Count)
	})

	loop, err := engine.New(listenFD, cfg.PollTimeoutMS, ks, bus)
	if err != nil {
		log.Fatal("Failed to initialize event loop: %v", err)
	}
	defer loop.Close()

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- loop.Run(stop) }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Success("kvstored is ready")
	select {
	case err := <-done:
		if err != nil {
			log.Fatal("Event loop error: %v", err)
		}
	case sig := <-sigChan:
		log.Warn("Received signal: %v", sig)
		close(stop)
		<-done
		log.Success("Shut down gracefully")
	}
}

func displayHost(host string) string {
	if host == "" {
		return "0.0.0.0"
	}
	return host
}
