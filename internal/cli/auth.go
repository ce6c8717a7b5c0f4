package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				var err error
				if password, err = readPassword(); err != nil {
					return err
				}
			}

			sess, err := a.manager.Authenticate(cmd.Context(), api.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}

			if a.jsonOut {
				return printJSON(sess.User)
			}
			fmt.Printf("Signed in as %s (%s)\n", sess.User.FullName(), sess.User.Role)
			if sess.User.Store != nil {
				fmt.Printf("Store: %s\n", sess.User.Store.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and drop local credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager.SignOut(cmd.Context()); err != nil {
				// Local credentials are gone either way.
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(sess.User)
			}

			fmt.Printf("%s <%s>\n", sess.User.FullName(), sess.User.Email)
			fmt.Printf("Role: %s\n", sess.User.Role)
			if sess.User.Store != nil {
				fmt.Printf("Store: %s (%s)\n", sess.User.Store.Name, sess.User.Store.ID)
			}
			return nil
		},
	}
}
