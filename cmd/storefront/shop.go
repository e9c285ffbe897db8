package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/target/storefront/internal/domain/model"
)

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, arg)
	}
	return id, nil
}

// signedIn wraps RunE so the command fails before any request when signed out.
func signedIn(a *app, run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.requireSession(); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the shopping cart",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(cmd *cobra.Command, _ []string) error {
			cart, err := a.storefront().Cart.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(cart)
		}),
	}

	var add model.AddToCartInput
	var variant int64
	addCmd := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "product id")
			if err != nil {
				return err
			}
			add.ProductID = id
			if variant > 0 {
				add.VariantID = &variant
			}
			cart, err := a.storefront().Cart.Add(cmd.Context(), add)
			if err != nil {
				return err
			}
			return a.printJSON(cart)
		}),
	}
	addCmd.Flags().IntVar(&add.Quantity, "qty", 1, "quantity to add")
	addCmd.Flags().Int64Var(&variant, "variant", 0, "variant id")

	updateCmd := &cobra.Command{
		Use:   "update ITEM_ID QUANTITY",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "item id")
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			cart, err := a.storefront().Cart.UpdateQuantity(cmd.Context(), id, qty)
			if err != nil {
				return err
			}
			return a.printJSON(cart)
		}),
	}

	removeCmd := &cobra.Command{
		Use:   "remove ITEM_ID",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "item id")
			if err != nil {
				return err
			}
			cart, err := a.storefront().Cart.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printJSON(cart)
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(cmd *cobra.Command, _ []string) error {
			cart, err := a.storefront().Cart.Clear(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(cart)
		}),
	}

	cmd.AddCommand(addCmd, updateCmd, removeCmd, clearCmd)
	return cmd
}

func newWishlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show or change the wishlist",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(cmd *cobra.Command, _ []string) error {
			items, err := a.storefront().Wishlist.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(items)
		}),
	}

	productCmd := func(use, short string, run func(*cobra.Command, int64) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " PRODUCT_ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "product id")
				if err != nil {
					return err
				}
				return run(cmd, id)
			}),
		}
	}

	cmd.AddCommand(
		productCmd("add", "Save a product", func(cmd *cobra.Command, id int64) error {
			items, err := a.storefront().Wishlist.Add(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printJSON(items)
		}),
		productCmd("remove", "Forget a saved product", func(cmd *cobra.Command, id int64) error {
			wl := a.storefront().Wishlist
			if _, err := wl.Fetch(cmd.Context()); err != nil {
				return err
			}
			if err := wl.Remove(cmd.Context(), id); err != nil {
				return err
			}
			return a.printJSON(wl.Items())
		}),
		productCmd("toggle", "Save a product, or forget it when already saved", func(cmd *cobra.Command, id int64) error {
			wl := a.storefront().Wishlist
			if _, err := wl.Fetch(cmd.Context()); err != nil {
				return err
			}
			saved, err := wl.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printJSON(map[string]any{"product_id": id, "saved": saved})
		}),
	)
	return cmd
}

func newOrdersCmd(a *app) *cobra.Command {
	var params model.PageParams
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, inspect, place or cancel orders",
		Args:  cobra.NoArgs,
		RunE: signedIn(a, func(cmd *cobra.Command, _ []string) error {
			page, err := a.storefront().Orders.List(cmd.Context(), params)
			if err != nil {
				return err
			}
			return a.printJSON(page)
		}),
	}
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 0, "results per page")
	cmd.Flags().StringVar(&params.Status, "status", "", "only orders in this status")
	cmd.Flags().StringVar(&params.Ordering, "ordering", "", "sort field, prefix with - for descending")

	showCmd := &cobra.Command{
		Use:   "show ORDER_NUMBER",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			order, err := a.storefront().Orders.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(order)
		}),
	}

	var (
		addressID              int64
		payment, notes, coupon string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Place an order from the current cart",
		Long: `Place an order from the current cart. Without --address the order ships to
the default shipping address. A coupon is checked before the order is sent.`,
		Args: cobra.NoArgs,
		RunE: signedIn(a, func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			co := a.storefront().Checkout
			if addressID > 0 {
				co.SelectAddress(addressID)
			} else if _, err := co.FetchAddresses(ctx); err != nil {
				return err
			}
			co.SetPaymentMethod(model.PaymentMethod(payment))
			co.SetNotes(notes)
			if _, err := co.ValidateCoupon(ctx, coupon, ""); err != nil {
				return err
			}
			in, err := co.OrderInput()
			if err != nil {
				return err
			}
			order, err := a.storefront().Orders.Create(ctx, in)
			if err != nil {
				return err
			}
			return a.printJSON(order)
		}),
	}
	cf := createCmd.Flags()
	cf.Int64Var(&addressID, "address", 0, "shipping address id (default: the default address)")
	cf.StringVar(&payment, "payment", string(model.PaymentMethodCard), "payment method (card, paypal, stripe, cash_on_delivery)")
	cf.StringVar(&notes, "notes", "", "customer notes")
	cf.StringVar(&coupon, "coupon", "", "coupon code")

	cancelCmd := &cobra.Command{
		Use:   "cancel ORDER_NUMBER",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(a, func(cmd *cobra.Command, args []string) error {
			order, err := a.storefront().Orders.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printJSON(order)
		}),
	}

	cmd.AddCommand(showCmd, createCmd, cancelCmd)
	return cmd
}
