package main

import (
	"context"
	"fmt"
	"net"

	"github.com/rgehrsitz/goalfund/internal/logging"
	"github.com/rgehrsitz/goalfund/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type listenAddr string

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve projections as JSON over HTTP",
		Long: "Expose GET /profiles, GET /goals, POST /projections, POST /required-rate and\n" +
			"POST /milestones/evaluate for chart and UI clients. Stops cleanly on SIGINT or SIGTERM.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = env.settings.Server.Addr
			}

			app := fx.New(serveOptions(env, addr))
			if err := app.Err(); err != nil {
				return err
			}
			startCtx, cancel := context.WithTimeout(cmd.Context(), app.StartTimeout())
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return err
			}

			sig := <-app.Wait()
			stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
			defer cancelStop()
			if err := app.Stop(stopCtx); err != nil {
				return err
			}
			if sig.ExitCode != 0 {
				return fmt.Errorf("server exited with code %d", sig.ExitCode)
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from settings, 127.0.0.1:8080)")
	return cmd
}

// serveOptions assembles the server graph from a loaded environment.
func serveOptions(env *environment, addr string) fx.Option {
	return fx.Options(
		fx.Supply(env.catalog, env.engine, listenAddr(addr)),
		fx.Provide(
			func() logging.Logger { return logging.NewZeroLogger(env.base, "server") },
			server.New,
			listen,
		),
		fx.Invoke(registerServer),
		fx.NopLogger,
	)
}

func listen(lc fx.Lifecycle, addr listenAddr) (net.Listener, error) {
	ln, err := net.Listen("tcp", string(addr))
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	lc.Append(fx.StopHook(func() { _ = ln.Close() }))
	return ln, nil
}

// registerServer runs the server for the lifetime of the app. A server that dies on its own
// shuts the app down with a non-zero exit code.
func registerServer(lc fx.Lifecycle, sd fx.Shutdowner, srv *server.Server, ln net.Listener) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				err := srv.Serve(ctx, ln)
				done <- err
				if err != nil && ctx.Err() == nil {
					srv.Logger.Errorf("server stopped: %v", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case err := <-done:
				return err
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
