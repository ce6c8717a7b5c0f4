package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

func newStoresCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Manage stores",
	}
	cmd.AddCommand(
		newStoresListCommand(a),
		newStoresCreateCommand(a),
		newStoresUpdateCommand(a),
		newStoresDeleteCommand(a),
	)
	return cmd
}

func newStoresListCommand(a *app) *cobra.Command {
	var page api.PageQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			stores, err := a.client.Stores.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(stores)
			}

			rows := make([][]string, 0, len(stores.Data))
			for _, s := range stores.Data {
				rows = append(rows, []string{s.ID, s.Name, s.Address})
			}
			printTable([]string{"ID", "NAME", "ADDRESS"}, rows)
			fmt.Printf("%d of %d stores\n", len(stores.Data), stores.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page.PerPage, "per-page", 10, "page size")
	cmd.Flags().IntVar(&page.CurrentPage, "page", 1, "page number")
	cmd.Flags().StringVar(&page.Q, "q", "", "search term")
	return cmd
}

func newStoresCreateCommand(a *app) *cobra.Command {
	var payload domain.CreateStore

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			store, err := a.client.Stores.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(store)
			}
			fmt.Printf("Created store %s (%s)\n", store.Name, store.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&payload.Name, "name", "", "store name")
	cmd.Flags().StringVar(&payload.Address, "address", "", "street address")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newStoresUpdateCommand(a *app) *cobra.Command {
	var payload domain.CreateStore

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			store, err := a.client.Stores.Update(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(store)
			}
			fmt.Printf("Updated store %s\n", store.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&payload.Name, "name", "", "store name")
	cmd.Flags().StringVar(&payload.Address, "address", "", "street address")
	return cmd
}

func newStoresDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.Stores.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted store %s\n", args[0])
			return nil
		},
	}
}
