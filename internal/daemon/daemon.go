package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/questforge/questforge/internal/api"
	"github.com/questforge/questforge/internal/app/game"
	"github.com/questforge/questforge/internal/app/notify"
	"github.com/questforge/questforge/internal/domain"
	"github.com/questforge/questforge/internal/health"
	"github.com/questforge/questforge/internal/infra/events"
	"github.com/questforge/questforge/internal/infra/logging"
	"github.com/questforge/questforge/internal/infra/metrics"
	"github.com/questforge/questforge/internal/infra/sqlite"
)

// Daemon is the QuestForge runtime. It wires together all services.
type Daemon struct {
	Config Config
	Log    *zap.Logger
	DB     *sqlite.DB
	Game   *game.Service
	Hub    *events.Hub
	Health *health.Checker
	Server *api.Server

	lastSweep atomic.Int64
}

// New loads the configuration and creates a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return NewWithConfig(cfg, log)
}

// NewWithConfig creates a Daemon with the given configuration. A nil
// logger disables logging.
func NewWithConfig(cfg Config, log *zap.Logger) (*Daemon, error) {
	if log == nil {
		log = zap.NewNop()
	}
	loc, err := cfg.Engine.Location()
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(Home())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &Daemon{
		Config: cfg,
		Log:    log,
		DB:     db,
	}

	hubCfg := events.DefaultHubConfig()
	hubCfg.AllowedOrigins = cfg.API.CORSOrigins
	d.Hub = events.NewHub(hubCfg, log)

	notes := notify.NewServiceWithPolicy(db, domain.NotificationPolicy{
		MaxPerDay:  cfg.Notifications.MaxPerDay,
		QuietStart: cfg.Notifications.QuietStart,
		QuietEnd:   cfg.Notifications.QuietEnd,
	})
	d.Game = game.NewService(db, game.Config{
		Location:            loc,
		UndoWindow:          cfg.Engine.UndoWindow.Duration,
		UndoMax:             cfg.Engine.UndoMax,
		SkillPointsPerLevel: cfg.Engine.SkillPointsPerLevel,
		ApplyBonuses:        cfg.Engine.ApplyBonuses,
		PlayerName:          cfg.Engine.PlayerName,
	},
		game.WithNotifier(notes),
		game.WithPublisher(d.Hub),
		game.WithRecorder(metrics.NewRecorder()),
		game.WithLogger(log),
	)

	d.Health = health.NewChecker(health.Options{
		DB:          db,
		DataDir:     Home(),
		LastSweep:   d.LastSweep,
		SweepMaxAge: 3 * cfg.Engine.SweepInterval.Duration,
		Logger:      log,
	})

	d.Server = api.NewServer(d.Game, api.Config{
		CORSOrigins:    cfg.API.CORSOrigins,
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
		Metrics:        cfg.Metrics.Enabled,
	}, log)
	d.Server.SetEventFeed(d.Hub)
	d.Server.SetHealth(d.Health)

	return d, nil
}

// LastSweep reports when the sweeper last finished, or the zero time.
func (d *Daemon) LastSweep() time.Time {
	ns := d.lastSweep.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Serve listens on the configured address and blocks until SIGINT, SIGTERM
// or ctx cancellation.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := d.Config.API.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return d.serve(ctx, ln)
}

// serve runs the HTTP server, sweeper and health checker until ctx is done
// or one of them fails.
func (d *Daemon) serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           d.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Hijacked WebSocket connections are not closed by Shutdown.
		d.Hub.Close()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return d.runSweeper(ctx)
	})
	g.Go(func() error {
		return d.Health.Run(ctx)
	})

	d.Log.Info("questforge serving",
		zap.String("addr", ln.Addr().String()),
		zap.Bool("metrics", d.Config.Metrics.Enabled),
		zap.Duration("sweep_interval", d.Config.Engine.SweepInterval.Duration))

	err := g.Wait()
	d.Log.Info("questforge stopped")
	return err
}

// runSweeper reconciles state on start and then on every interval. Sweep
// errors are logged, not fatal.
func (d *Daemon) runSweeper(ctx context.Context) error {
	d.sweep(ctx)

	ticker := time.NewTicker(d.Config.Engine.SweepInterval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.sweep(ctx)
		}
	}
}

func (d *Daemon) sweep(ctx context.Context) {
	if _, err := d.Game.Sweep(ctx); err != nil {
		if ctx.Err() == nil {
			d.Log.Error("sweep failed", zap.Error(err))
		}
		return
	}
	d.lastSweep.Store(time.Now().UnixNano())
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.Hub != nil {
		_ = d.Hub.Close()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
	if d.Log != nil {
		_ = d.Log.Sync()
	}
}
