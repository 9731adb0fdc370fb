package agent

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/qudata/hostmon/internal/config"
	"github.com/qudata/hostmon/internal/sampler"
	"github.com/qudata/hostmon/internal/server"
	"github.com/qudata/hostmon/internal/stats"
	"github.com/qudata/hostmon/internal/storage"
	"github.com/qudata/hostmon/internal/system"
)

// Agent wires the sampler, the update loop and the HTTP adapter together.
type Agent struct {
	cfg    *config.Config
	logger *slog.Logger

	store     *storage.Store
	probe     *system.Probe
	sampler   *sampler.Sampler
	slot      *stats.Slot
	history   *stats.History
	publisher *stats.Publisher

	httpServer *server.Server
}

// New creates and wires all subsystems. Capability modules are bound here
// and stay fixed for the life of the process.
func New(cfg *config.Config, logger *slog.Logger) (*Agent, error) {
	store, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	hostID, err := store.HostID()
	if err != nil {
		return nil, fmt.Errorf("host id: %w", err)
	}

	smp := sampler.New(cfg, logger)
	slot := stats.NewSlot()
	history := stats.NewHistory(cfg.HistorySize)

	return &Agent{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		probe:     system.NewProbe(hostID),
		sampler:   smp,
		slot:      slot,
		history:   history,
		publisher: stats.NewPublisher(smp, slot, history, cfg.Interval, logger),
	}, nil
}

// Run starts the update loop and the HTTP server. It blocks until the
// context is cancelled or the server fails.
func (a *Agent) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Listen, err)
	}

	host := a.probe.HostInfo(ctx)
	handler := server.NewHandler(a.slot, a.history, a.sampler.Capabilities(), host, a.cfg.Interval, a.logger)
	a.httpServer = server.New(a.cfg.Listen, a.cfg.Token, handler, a.logger)

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	a.publisher.Start(loopCtx)

	a.logger.Info("hostmon ready",
		"version", config.Version,
		"host_id", host.ID,
		"hostname", host.Hostname,
		"addr", ln.Addr().String(),
		"interval", a.cfg.Interval.String(),
		"auth", a.cfg.Token != "",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
		return a.shutdown()
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (a *Agent) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.Error("http server shutdown error", "err", err)
		}
	}

	a.logger.Info("hostmon stopped", "published", a.history.Len())
	return nil
}
