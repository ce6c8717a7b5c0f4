package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adarsh-naik-2004/bats-admin/internal/api"
	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

func newCouponsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coupons",
		Short: "Manage discount coupons",
	}
	cmd.AddCommand(
		newCouponsListCommand(a),
		newCouponsCreateCommand(a),
		newCouponsUpdateCommand(a),
		newCouponsToggleCommand(a, "deactivate", "Deactivate a coupon"),
		newCouponsToggleCommand(a, "reactivate", "Reactivate a coupon"),
	)
	return cmd
}

func newCouponsListCommand(a *app) *cobra.Command {
	var (
		filter api.CouponFilter
		active bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List coupons",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			filter.StoreID = a.storeScope(sess, filter.StoreID)
			if cmd.Flags().Changed("active") {
				filter.IsActive = &active
			}

			coupons, err := a.client.Coupons.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(coupons)
			}

			rows := make([][]string, 0, len(coupons))
			for _, c := range coupons {
				rows = append(rows, []string{c.ID, c.Code, c.Title, fmt.Sprintf("%d%%", c.Discount), formatTime(c.ValidUpto), yesNo(c.IsActive)})
			}
			printTable([]string{"ID", "CODE", "TITLE", "DISCOUNT", "VALID UPTO", "ACTIVE"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.StoreID, "store", "", "filter by store id")
	cmd.Flags().BoolVar(&active, "active", false, "filter by active state")
	return cmd
}

func bindCouponFlags(cmd *cobra.Command, payload *domain.CreateCoupon, validDays *int) {
	cmd.Flags().StringVar(&payload.Title, "title", "", "coupon title")
	cmd.Flags().StringVar(&payload.Code, "code", "", "redemption code")
	cmd.Flags().IntVar(&payload.Discount, "discount", 0, "discount percentage")
	cmd.Flags().StringVar(&payload.StoreID, "store", "", "store id")
	cmd.Flags().IntVar(validDays, "valid-days", 30, "days until the coupon expires")
}

func newCouponsCreateCommand(a *app) *cobra.Command {
	var (
		payload   domain.CreateCoupon
		validDays int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a coupon",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			payload.StoreID = a.storeScope(sess, payload.StoreID)
			payload.ValidUpto = time.Now().Add(time.Duration(validDays) * 24 * time.Hour)

			coupon, err := a.client.Coupons.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(coupon)
			}
			fmt.Printf("Created coupon %s (%s)\n", coupon.Code, coupon.ID)
			return nil
		},
	}

	bindCouponFlags(cmd, &payload, &validDays)
	cmd.MarkFlagRequired("code")
	return cmd
}

func newCouponsUpdateCommand(a *app) *cobra.Command {
	var (
		payload   domain.CreateCoupon
		validDays int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a coupon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.ensureSession(cmd.Context())
			if err != nil {
				return err
			}
			payload.StoreID = a.storeScope(sess, payload.StoreID)
			payload.ValidUpto = time.Now().Add(time.Duration(validDays) * 24 * time.Hour)

			coupon, err := a.client.Coupons.Update(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(coupon)
			}
			fmt.Printf("Updated coupon %s\n", coupon.ID)
			return nil
		},
	}

	bindCouponFlags(cmd, &payload, &validDays)
	return cmd
}

func newCouponsToggleCommand(a *app, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.ensureSession(cmd.Context()); err != nil {
				return err
			}

			var err error
			if action == "deactivate" {
				err = a.client.Coupons.Deactivate(cmd.Context(), args[0])
			} else {
				err = a.client.Coupons.Reactivate(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Printf("Coupon %s %sd\n", args[0], action)
			return nil
		},
	}
}
