// Package cli wires the command surface of batsctl: authentication, the CRUD
// commands over the gateway's services, the live order watcher, and the local
// sandbox gateway.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
	"github.com/adarsh-naik-2004/bats-admin/internal/config"
	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
	"github.com/adarsh-naik-2004/bats-admin/internal/platform/logging"
	"github.com/adarsh-naik-2004/bats-admin/internal/session"
)

const cookieFileName = "cookies.json"

// app carries the wired-up dependencies every command pulls from.
type app struct {
	cfg     *config.Config
	client  *api.Client
	manager *session.Manager

	jsonOut bool
}

// NewRootCommand builds the batsctl command tree. Dependency wiring happens
// lazily in PersistentPreRunE so flag parsing and help never touch the
// network or the state directory.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "batsctl",
		Short:         "Admin dashboard client for the bats platform",
		Long:          "batsctl talks to the bats gateway: sign in, manage users, stores, catalog, coupons and orders, and follow live order events.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.client == nil {
				return nil
			}
			return a.client.SaveCookies()
		},
	}

	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newUsersCommand(a),
		newStoresCommand(a),
		newCategoriesCommand(a),
		newProductsCommand(a),
		newOrdersCommand(a),
		newCouponsCommand(a),
		newSandboxCommand(a),
		newVersionCommand(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	a.cfg = cfg

	// The hooks close over the manager, which in turn needs the client's auth
	// service. The closures resolve the cycle without a second construction.
	client, err := api.NewClient(cfg.GatewayURL,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithCookieFile(filepath.Join(cfg.StateDir, cookieFileName)),
		api.WithReauth(api.ReauthHooks{
			HasSession: func() bool {
				return a.manager != nil && a.manager.IsAuthenticated()
			},
			OnRefreshFailed: func(err error) {
				if a.manager != nil {
					a.manager.HandleRefreshFailure(err)
				}
			},
		}),
	)
	if err != nil {
		return err
	}

	a.client = client
	a.manager = session.NewManager(client.Auth)
	return nil
}

// ensureSession restores the persisted session: confirm the identity with the
// cookies on disk, falling back to one explicit refresh when the access token
// has already expired between invocations.
func (a *app) ensureSession(ctx context.Context) (*domain.Session, error) {
	user, err := a.manager.ConfirmIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if err := a.client.Auth.Refresh(ctx); err != nil {
			if errors.Is(err, domain.ErrRefreshFailed) {
				return nil, fmt.Errorf("not signed in, run `batsctl login`")
			}
			return nil, err
		}
		user, err = a.manager.ConfirmIdentity(ctx)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("not signed in, run `batsctl login`")
		}
	}

	if err := session.Authorize(*user); err != nil {
		return nil, err
	}
	return a.manager.SetSession(*user), nil
}

// storeScope resolves the effective store filter: admins use whatever was
// passed, managers are pinned to their own store.
func (a *app) storeScope(sess *domain.Session, requested string) string {
	if sess.User.Role == domain.RoleManager && sess.User.Store != nil {
		return sess.User.Store.ID
	}
	return requested
}
