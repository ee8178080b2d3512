package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewProductsCommand lists the full catalog.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List every product in the catalog",
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
				return printProducts(cmd.OutOrStdout(), rootOpts.Format, sf.Products(), sf.SearchValid())
			})
		},
	}
}

// NewSearchCommand runs a single catalog search.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search the catalog by name or category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(app *App) error {
				sf, err := app.NewStorefront(nil)
				if err != nil {
					return err
				}
				defer sf.Close()
				products, valid := sf.SearchNow(cmd.Context(), strings.Join(args, " "))
				return printProducts(cmd.OutOrStdout(), rootOpts.Format, products, valid)
			})
		},
	}
}

// withApp builds the App for one command and closes it afterwards.
func withApp(cmd *cobra.Command, rootOpts *RootOptions, fn func(app *App) error) (err error) {
	app, err := NewApp(cmd.Context(), rootOpts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(app)
}
