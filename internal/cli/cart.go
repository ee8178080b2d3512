package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCartCommand shows the saved cart.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the cart for the logged-in shopper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(app *App) error {
				sf, err := app.OpenStorefront(cmd.Context(), nil)
				if sf == nil {
					return err
				}
				defer sf.Close()
				if err != nil {
					return ErrReported
				}
				return printCart(cmd.OutOrStdout(), rootOpts.Format, sf.Cart())
			})
		},
	}
}

// NewAddCommand adds one unit of a product.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Long: `Add one unit of a product to the cart.

A product that is already in the cart is refused; use "set" to change its quantity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(app *App) error {
				sf, err := app.OpenStorefront(cmd.Context(), nil)
				if sf == nil {
					return err
				}
				defer sf.Close()
				if err != nil {
					return ErrReported
				}
				if !sf.AddToCart(cmd.Context(), args[0]) {
					return ErrReported
				}
				return printCart(cmd.OutOrStdout(), rootOpts.Format, sf.Cart())
			})
		},
	}
}

// NewSetCommand sets the quantity of a cart line.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <qty>",
		Short: "Set the quantity of a product in the cart (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			return withApp(cmd, rootOpts, func(app *App) error {
				sf, err := app.OpenStorefront(cmd.Context(), nil)
				if sf == nil {
					return err
				}
				defer sf.Close()
				if err != nil {
					return ErrReported
				}
				if !sf.SetQuantity(cmd.Context(), args[0], qty) {
					return ErrReported
				}
				return printCart(cmd.OutOrStdout(), rootOpts.Format, sf.Cart())
			})
		},
	}
}
