package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/game"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/random"
)

type App struct {
	log    *logrus.Logger
	cfg    *config.App
	router *http.ServeMux
	store  *game.Store
	jwt    *config.JWT
	ws     *config.WebSocket
}

// New builds the server. Mines are placed with crypto/rand so that boards
// cannot be predicted from earlier ones.
func New(log *logrus.Logger, cfg *config.App) (*App, error) {
	return newApp(log, cfg, random.Crypto{})
}

func newApp(log *logrus.Logger, cfg *config.App, r random.Source) (*App, error) {
	jwt, err := config.NewJWT(cfg.JWT)
	if err != nil {
		return nil, err
	}

	ws, err := config.NewWebSocket(cfg.Server.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	store := game.NewStore(game.StoreOptions{
		MaxSessions: cfg.Server.MaxSessions,
		IdleTTL:     cfg.Server.IdleTTL,
		Random:      r,
	})

	app := &App{
		log:    log,
		cfg:    cfg,
		router: http.NewServeMux(),
		store:  store,
		jwt:    jwt,
		ws:     ws,
	}

	app.loadRoutes()

	return app, nil
}

// Handler is the full HTTP stack: routes under the configured base path,
// wrapped in logging, CORS and token parsing.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if base := strings.TrimSuffix(a.cfg.Server.BasePath, "/"); base != "" {
		h = http.StripPrefix(base, h)
	}
	return middleware.Wrap(
		h,
		middleware.Logging(a.log),
		middleware.Cors(a.cfg.Server.AllowedOrigins),
		middleware.Auth(a.log, a.jwt),
	)
}

// Start listens on the configured address and serves until ctx is done.
func (a *App) Start(ctx context.Context) error {
	l, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen: %w", err)
	}
	return a.Serve(ctx, l)
}

// Serve runs the HTTP server on l and the session sweeper until ctx is
// done, then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context, l net.Listener) error {
	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", l.Addr())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.Serve(l)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if a.cfg.Server.IdleTTL > 0 {
		g.Go(func() error {
			a.sweep(gCtx)
			return nil
		})
	}

	return g.Wait()
}

func (a *App) sweep(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Server.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := a.store.Sweep(now); n > 0 {
				a.log.WithFields(logrus.Fields{
					"swept": n,
					"left":  a.store.Len(),
				}).Debug("dropped idle sessions")
			}
		}
	}
}
