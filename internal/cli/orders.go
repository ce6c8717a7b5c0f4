package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
	"github.com/adarsh-naik-2004/bats-admin/internal/realtime"
)

func newOrdersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and manage orders",
	}
	cmd.AddCommand(
		newOrdersListCommand(a),
		newOrdersGetCommand(a),
		newOrdersStatusCommand(a),
		newOrdersWatchCommand(a),
	)
	return cmd
}

func orderRow(o domain.Order) []string {
	customer := "-"
	if o.Customer != nil {
		customer = o.Customer.FirstName + " " + o.Customer.LastName
	}
	return []string{o.ID, customer, string(o.OrderStatus), string(o.PaymentStatus), fmt.Sprintf("%.2f", o.Total), formatTime(o.CreatedAt)}
}

var orderHeader = []string{"ID", "CUSTOMER", "STATUS", "PAYMENT", "TOTAL", "CREATED"}

func newOrdersListCommand(a *app) *cobra.Command {
	var filter api.OrderFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			filter.StoreID = a.storeScope(sess, filter.StoreID)

			orders, err := a.client.Orders.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(orders)
			}

			rows := make([][]string, 0, len(orders.Data))
			for _, o := range orders.Data {
				rows = append(rows, orderRow(o))
			}
			printTable(orderHeader, rows)
			fmt.Printf("%d of %d orders\n", len(orders.Data), orders.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.StoreID, "store", "", "filter by store id")
	cmd.Flags().IntVar(&filter.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 10, "page size")
	return cmd
}

func newOrdersGetCommand(a *app) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}
			order, err := a.client.Orders.Get(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			return printJSON(order)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "projection fields, e.g. cart,address,paymentStatus")
	return cmd
}

func newOrdersStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Advance an order through the pipeline",
		Long:  "Set an order's status. Valid statuses: received, confirmed, prepared, out_for_delivery, delivered.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			status := domain.OrderStatus(strings.ToLower(args[1]))
			if !domain.ValidOrderStatus(status) {
				return fmt.Errorf("unknown order status %q", args[1])
			}

			order, err := a.client.Orders.ChangeStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(order)
			}
			fmt.Printf("Order %s is now %s\n", order.ID, order.OrderStatus)
			return nil
		},
	}
}

func newOrdersWatchCommand(a *app) *cobra.Command {
	var (
		store string
		dedup bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live order events",
		Long:  "Subscribe to the realtime channel and print order events as they arrive. Admins see every store; managers see their own.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.ensureSession(ctx)
			if err != nil {
				return err
			}

			scope := domain.ScopeFor(*sess)
			if store != "" {
				if !scope.Allows(store) {
					return fmt.Errorf("%w: store %s is outside your scope", domain.ErrAuthorizationDenied, store)
				}
				scope = domain.Scope{StoreID: store}
			}

			opts := []realtime.FeedOption{
				realtime.WithNotify(func(o domain.Order) {
					fmt.Printf("NEW      %s\n", strings.Join(orderRow(o), "  "))
				}),
			}
			if dedup {
				opts = append(opts, realtime.WithDeduplication())
			}
			feed := realtime.NewFeed(opts...)

			// Preload the current page so updates to visible orders resolve
			// against something.
			recent, err := a.client.Orders.List(ctx, api.OrderFilter{StoreID: scope.StoreID, Limit: 20, Page: 1})
			if err != nil {
				return err
			}
			feed.Load(recent.Data)

			notifier := realtime.NewNotifier(a.cfg.RealtimeURL, a.client.CookieJar())
			sub, err := notifier.Connect(ctx, scope, func(evt domain.OrderEvent) {
				if !feed.Merge(evt) {
					fmt.Printf("UPDATED  %s\n", strings.Join(orderRow(evt.Order), "  "))
				}
			})
			if err != nil {
				return err
			}
			defer sub.Dispose()

			fmt.Println("Watching for order events, Ctrl+C to stop")
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "watch a single store (admins only)")
	cmd.Flags().BoolVar(&dedup, "dedup", true, "collapse repeat events for the same order")
	return cmd
}
