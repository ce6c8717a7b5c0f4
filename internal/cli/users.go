package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage dashboard users",
	}
	cmd.AddCommand(
		newUsersListCommand(a),
		newUsersCreateCommand(a),
		newUsersUpdateCommand(a),
		newUsersDeleteCommand(a),
	)
	return cmd
}

func newUsersListCommand(a *app) *cobra.Command {
	var filter api.UserFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			users, err := a.client.Users.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(users)
			}

			rows := make([][]string, 0, len(users.Data))
			for _, u := range users.Data {
				store := "-"
				if u.Store != nil {
					store = u.Store.Name
				}
				rows = append(rows, []string{u.ID, u.FullName(), u.Email, string(u.Role), store})
			}
			printTable([]string{"ID", "NAME", "EMAIL", "ROLE", "STORE"}, rows)
			fmt.Printf("%d of %d users\n", len(users.Data), users.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&filter.PerPage, "per-page", 10, "page size")
	cmd.Flags().IntVar(&filter.CurrentPage, "page", 1, "page number")
	cmd.Flags().StringVar(&filter.Q, "q", "", "search term")
	cmd.Flags().StringVar((*string)(&filter.Role), "role", "", "filter by role (admin, manager, customer)")
	return cmd
}

func newUsersCreateCommand(a *app) *cobra.Command {
	var payload domain.CreateUser

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			user, err := a.client.Users.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(user)
			}
			fmt.Printf("Created user %s (%s)\n", user.FullName(), user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&payload.Email, "email", "", "email address")
	cmd.Flags().StringVar(&payload.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&payload.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&payload.Password, "password", "", "initial password")
	cmd.Flags().StringVar((*string)(&payload.Role), "role", string(domain.RoleManager), "role (admin, manager, customer)")
	cmd.Flags().StringVar(&payload.StoreID, "store", "", "store id (required for managers)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newUsersUpdateCommand(a *app) *cobra.Command {
	var payload domain.CreateUser

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			user, err := a.client.Users.Update(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(user)
			}
			fmt.Printf("Updated user %s\n", user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&payload.Email, "email", "", "email address")
	cmd.Flags().StringVar(&payload.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&payload.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&payload.Password, "password", "", "new password (unchanged when omitted)")
	cmd.Flags().StringVar((*string)(&payload.Role), "role", "", "role")
	cmd.Flags().StringVar(&payload.StoreID, "store", "", "store id")
	return cmd
}

func newUsersDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.Users.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted user %s\n", args[0])
			return nil
		},
	}
}
