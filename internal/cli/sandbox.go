package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/adarsh-naik-2004/bats-admin/internal/sandbox"
)

func newSandboxCommand(a *app) *cobra.Command {
	var (
		addr string
		seed bool
	)

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local gateway with demo data",
		Long:  "Start an in-memory gateway implementing the auth, catalog and order services plus the realtime channel. Point GATEWAY_URL at it to exercise the client end to end.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.SandboxAddr
			}

			srv := sandbox.NewServer(sandbox.Options{
				Addr:       addr,
				AccessTTL:  a.cfg.SandboxAccessTTL,
				RefreshTTL: a.cfg.SandboxRefreshTTL,
			})
			if seed {
				srv.Seed()
			}

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			fmt.Printf("Sandbox gateway listening on %s\n", addr)
			if seed {
				fmt.Println("Demo accounts: admin@example.com / admin-secret, manager@example.com / manager-secret")
			}

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			slog.Info("Shutdown signal received, cleaning up...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to SANDBOX_ADDR)")
	cmd.Flags().BoolVar(&seed, "seed", true, "load the demo data set")
	return cmd
}
