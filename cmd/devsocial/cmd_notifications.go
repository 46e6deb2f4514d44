package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"devsocial/internal/app"
	"devsocial/internal/fakeapi"
	"devsocial/internal/logging"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newNotificationsCmd(flags *globalFlags) *cobra.Command {
	var keepUnread bool
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications and mark them read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				view := app.NewNotificationsView(rt.client, nil, rt.viewOptions()...)
				defer view.Close()

				if err := view.Load(ctx); err != nil {
					return err
				}
				// Captured before marking read so new items keep their marker.
				items := view.Items()
				if !keepUnread {
					_ = view.MarkAllRead(ctx)
				}
				if len(items) == 0 {
					fmt.Fprintln(rt.out, "No notifications yet.")
					return nil
				}
				for _, n := range items {
					mark := " "
					if !n.Read {
						mark = "•"
					}
					fmt.Fprintf(rt.out, "%s @%s %s · %s\n", mark, n.FromUsername, n.Describe(), ago(n.CreatedAt))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&keepUnread, "keep-unread", false, "do not mark notifications read")
	return cmd
}

func newWatchCmd(flags *globalFlags) *cobra.Command {
	var (
		metricsAddr string
		once        bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the unread notification count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return authed(cmd, flags, func(ctx context.Context, rt *runtime) error {
				poller := app.NewBadgePoller(rt.client,
					app.WithInterval(rt.cfg.PollInterval),
					app.WithPollerLogger(rt.log),
					app.WithPollerMetrics(rt.metrics),
				)
				if once {
					poller.Poll(ctx)
					fmt.Fprintf(rt.out, "unread: %d\n", poller.Count())
					return nil
				}
				poller.OnChange(func(n int) {
					fmt.Fprintf(rt.out, "%s unread: %d\n", time.Now().Format(time.TimeOnly), n)
				})

				if metricsAddr == "" {
					metricsAddr = rt.cfg.MetricsAddr
				}
				g, ctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					poller.Run(ctx)
					return nil
				})
				if metricsAddr != "" {
					mux := http.NewServeMux()
					mux.Handle("/metrics", rt.metrics.Handler())
					serveUntilDone(ctx, g, rt.log, &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second})
				}
				return g.Wait()
			})
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&once, "once", false, "poll once, print the count and exit")
	return cmd
}

// serveUntilDone runs srv in g and shuts it down when ctx is done.
func serveUntilDone(ctx context.Context, g *errgroup.Group, log *slog.Logger, srv *http.Server) {
	g.Go(func() error {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func newFakeServerCmd(flags *globalFlags) *cobra.Command {
	var (
		addr string
		seed bool
	)
	cmd := &cobra.Command{
		Use:   "fake-server",
		Short: "Run an in-memory DevSocial API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(cmd.ErrOrStderr(), flags.logLevel, false)
			fake := fakeapi.New(fakeapi.WithLogger(log))
			if seed {
				if err := fake.SeedDemo(); err != nil {
					return err
				}
				log.Info("seeded demo data", "password", "devsocial")
			}
			g, ctx := errgroup.WithContext(cmd.Context())
			serveUntilDone(ctx, g, log, &http.Server{Addr: addr, Handler: fake.Handler(), ReadHeaderTimeout: 5 * time.Second})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8000", "listen address")
	cmd.Flags().BoolVar(&seed, "seed", false, "create demo users and posts")
	return cmd
}
