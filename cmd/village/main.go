package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"village-chat/cli"
	"village-chat/contract"
	"village-chat/infrastructure/api"
	"village-chat/infrastructure/transport/p2p"
	"village-chat/infrastructure/transport/quicnet"
	"village-chat/infrastructure/transport/rtc"
	"village-chat/internal"
	"village-chat/observability"
	"village-chat/repositories"
	"village-chat/runtime"
	"village-chat/runtime/workers"
	"village-chat/sink"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 5 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Village chat terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal, /exit or a fatal error.
// Returning instead of exiting lets deferred cleanup (badger lock, sockets) run.
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Identity (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, log, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	identity := repositories.NewIdentityRepository(db, log)
	nickname, err := identity.ResolveNickname(config.Nickname)
	if err != nil {
		return exitRuntime, fmt.Errorf("nickname resolution failed: %w", err)
	}

	// 3. Transport
	transport, err := newTransport(config, log, identity, nickname)
	if err != nil {
		return exitRuntime, err
	}

	// 4. Supervision & Orchestration
	monitoring := observability.NewMonitoringManager(log)
	metrics := observability.NewMetrics()
	sup := workers.NewSupervisor(log, config.RestartInterval)

	orchestrator := runtime.NewOrchestrator(
		log, sup, transport, nickname, config.DomainMode(),
		config.BufferSize, config.SinkTimeout, config.MaxMessageLength,
	)
	metricsSink := sink.NewMetricsSink(monitoring, metrics, orchestrator.ConnectedCount)
	orchestrator.Subscribe(metricsSink)
	sup.Add(workers.NewHeartbeatWorker(log, monitoring, metrics, config.HeartbeatInterval).
		OnTick(metricsSink.SyncConnectedPeers))

	errChan := make(chan error, 2)

	// 5. Rendering: HTTP/WebSocket API
	var server *http.Server
	var stream *api.Stream
	if config.HTTPAddr != "" {
		stream = api.NewStream(log, orchestrator)
		orchestrator.Subscribe(stream)
		server = &http.Server{
			Addr:              config.HTTPAddr,
			Handler:           api.NewRouter(log, orchestrator, monitoring, metrics, stream),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("Starting HTTP API", "address", config.HTTPAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("HTTP server error: %w", err)
			}
		}()
	}

	// 6. Rendering: terminal
	if config.Interactive {
		rl, err := cli.NewReadline(nickname, config.HistoryFile)
		if err != nil {
			return exitRuntime, fmt.Errorf("readline init failed: %w", err)
		}
		defer func() { _ = rl.Close() }()
		orchestrator.Subscribe(sink.NewConsoleSink(rl.Stdout()))
		go func() {
			cli.Run(ctx, rl, cli.NewShell(orchestrator, rl.Stdout()))
			stop()
		}()
	} else {
		orchestrator.Subscribe(sink.NewConsoleSink(os.Stdout))
	}

	// 7. Start the mesh
	go func() {
		log.Info("Starting village chat", "name", nickname, "transport", config.Transport, "mode", config.Mode)
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	code := exitOK
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err = <-errChan:
		code = exitRuntime
	}

	// 9. Graceful shutdown
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("HTTP shutdown failed", "error", err)
		}
		cancel()
		stream.Close()
	}
	orchestrator.Shutdown()
	log.Info("Program stopped cleanly")
	return code, err
}

func newTransport(config internal.Config, log *slog.Logger,
	identity *repositories.IdentityRepository, nickname string) (contract.Transport, error) {
	switch config.Transport {
	case internal.TransportQuic:
		tr, err := quicnet.New(log, quicnet.Options{
			ListenAddr:    config.QuicListen,
			AdvertiseAddr: config.QuicAdvertiseAddr,
			Peers:         config.QuicPeerAddrs(),
			LocalName:     nickname,
		})
		if err != nil {
			return nil, fmt.Errorf("QUIC transport failed: %w", err)
		}
		log.Info("Reachable as", "id", tr.ID())
		return tr, nil
	case internal.TransportWebRTC:
		return rtc.New(log, rtc.Options{
			STUNServers:     config.StunServers(),
			LocalName:       nickname,
			IncludeLoopback: config.WebRTCLoopback,
		}), nil
	default:
		key, err := identity.LoadOrCreateKey(p2p.GenerateKey)
		if err != nil {
			return nil, fmt.Errorf("identity key failed: %w", err)
		}
		tr, err := p2p.New(log, p2p.Options{
			PrivateKey:  key,
			ListenAddrs: config.Libp2pListenAddrs(),
			ServiceTag:  config.MdnsServiceTag,
			LocalName:   nickname,
			StaticPeers: config.Libp2pPeerAddrs(),
		})
		if err != nil {
			return nil, fmt.Errorf("libp2p transport failed: %w", err)
		}
		for _, addr := range tr.Addrs() {
			log.Info("Reachable as", "addr", addr)
		}
		return tr, nil
	}
}

func buildBadgerOpts(config internal.Config, log *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if log.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}

	return options
}
