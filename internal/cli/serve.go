package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"novelhub/internal/live"
	"novelhub/internal/logging"
)

const defaultShutdownGrace = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		noReload bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the list, linked list and detail views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if noReload {
				a.cfg.Server.LiveReload = false
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noReload, "no-live-reload", false, "do not watch the data directory")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	if a.log.GetLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	}

	data := a.cfg.Data
	set, err := a.sources(data.ListSource, data.LinkedSource, data.DetailSource)
	if err != nil {
		return err
	}
	defer set.Close()

	var hub *live.Hub
	if a.cfg.Server.LiveReload {
		hub = live.NewHub(logging.Component(a.logs.Logger, "ws"))
	}

	router := newRouter(routerDeps{
		Server: a.cfg.Server,
		Data:   data,
		List:   set.Sources[0],
		Linked: set.Sources[1],
		Detail: set.Sources[2],
		DB:     set.DB,
		Hub:    hub,
		Log:    logging.Component(a.logs.Logger, "http"),
	})

	httpSrv := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("addr", httpSrv.Addr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if hub != nil {
		w := live.NewWatcher(data.Dir, logging.Component(a.logs.Logger, "watcher"), live.BroadcastChange(hub))
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				// the views work without live reload
				a.log.Warn().Err(err).Msg("live reload disabled")
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("shutting down")

		grace := a.cfg.Server.ShutdownGrace
		if grace <= 0 {
			grace = defaultShutdownGrace
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if hub != nil {
			hub.CloseAll()
		}
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.log.Info().Msg("server stopped")
	return nil
}
