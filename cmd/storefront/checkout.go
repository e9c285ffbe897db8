package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/target/storefront/internal/domain/model"
)

func addressFlags(fs *pflag.FlagSet, in *model.ShippingAddressInput) {
	fs.StringVar(&in.FullName, "name", "", "recipient full name")
	fs.StringVar(&in.Phone, "phone", "", "contact phone")
	fs.StringVar(&in.AddressLine1, "line1", "", "street address")
	fs.StringVar(&in.AddressLine2, "line2", "", "apartment, suite or unit")
	fs.StringVar(&in.City, "city", "", "city")
	fs.StringVar(&in.State, "state", "", "state or province")
	fs.StringVar(&in.PostalCode, "postal-code", "", "postal code")
	fs.StringVar(&in.Country, "country", "", "country")
}

func newAddressesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"address"},
		Short:   "List or manage shipping addresses",
		Args:    cobra.NoArgs,
		RunE: signedIn(a, func(cmd *cobra.Command, _ []string) error {
			addrs, err := a.storefront().Checkout.FetchAddresses(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(addrs)
		}),
	}

	var add model.ShippingAddressInput
	var makeDefault bool
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Save a shipping address",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(cmd *cobra.Command, _ []string) error {
			if makeDefault {
				add.IsDefault = &makeDefault
			}
			addr, err := a.storefront().Checkout.AddAddress(cmd.Context(), add)
			if err != nil {
				return err
			}
			return a.printJSON(addr)
		}),
	}
	addressFlags(addCmd.Flags(), &add)
	addCmd.Flags().BoolVar(&makeDefault, "default", false, "make this the default address")

	var update model.ShippingAddressInput
	updateCmd := &cobra.Command{
		Use:   "update ADDRESS_ID",
		Short: "Change the given fields of an address",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "address id")
			if err != nil {
				return err
			}
			addr, err := a.storefront().Checkout.UpdateAddress(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			return a.printJSON(addr)
		}),
	}
	addressFlags(updateCmd.Flags(), &update)

	removeCmd := &cobra.Command{
		Use:   "remove ADDRESS_ID",
		Short: "Delete an address",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "address id")
			if err != nil {
				return err
			}
			return a.storefront().Checkout.DeleteAddress(cmd.Context(), id)
		}),
	}

	defaultCmd := &cobra.Command{
		Use:   "default ADDRESS_ID",
		Short: "Make an address the default",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "address id")
			if err != nil {
				return err
			}
			addr, err := a.storefront().Checkout.SetDefaultAddress(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printJSON(addr)
		}),
	}

	cmd.AddCommand(addCmd, updateCmd, removeCmd, defaultCmd)
	return cmd
}

func newCouponCmd(a *app) *cobra.Command {
	var amount string
	cmd := &cobra.Command{
		Use:   "coupon CODE",
		Short: "Check a coupon code and show its discount",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			out, err := a.storefront().Checkout.ValidateCoupon(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		}),
	}
	cmd.Flags().StringVar(&amount, "amount", "", "order amount the discount is computed on")
	return cmd
}

func newPayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pay ORDER_NUMBER",
		Short: "Pay for a placed order",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			res, err := a.storefront().Checkout.Pay(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(res)
		}),
	}
}
