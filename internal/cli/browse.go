package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/types"
)

const browseHelp = `Type to search (queries fire after you stop typing).
  /add <id>        add a product to the cart
  /set <id> <qty>  change a quantity (0 removes)
  /cart            show the cart
  /products        show the current product list
  /quit            leave`

// NewBrowseCommand runs an interactive products page on stdin.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive browsing with debounced search",
		Long:  "Interactive browsing with debounced search.\n\n" + browseHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &lockedWriter{w: cmd.OutOrStdout()}
			return withApp(cmd, rootOpts, func(app *App) error {
				onSearch := func(products []types.Product, valid bool) {
					_ = printProducts(out, rootOpts.Format, products, valid)
				}
				sf, err := app.OpenStorefront(cmd.Context(), onSearch)
				if sf == nil {
					return err
				}
				defer sf.Close()

				stopMetrics := app.ServeMetrics(cmd.Context(), sf)
				defer func() {
					if err := stopMetrics(); err != nil {
						app.Logger.Error(cmd.Context(), "stop metrics server", err)
					}
				}()

				fmt.Fprintln(out, browseHelp)
				_ = printProducts(out, rootOpts.Format, sf.Products(), sf.SearchValid())
				return browseLoop(cmd, sf, cmd.InOrStdin(), out, rootOpts.Format)
			})
		},
	}
}

func browseLoop(cmd *cobra.Command, sf *storefront.Storefront, in io.Reader, out io.Writer, format string) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
			sf.Search(line)
			continue
		}

		switch fields[0] {
		case "/quit", "/q":
			return nil
		case "/cart":
			_ = printCart(out, format, sf.Cart())
		case "/products":
			_ = printProducts(out, format, sf.Products(), sf.SearchValid())
		case "/add":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: /add <id>")
				continue
			}
			if sf.AddToCart(cmd.Context(), fields[1]) {
				_ = printCart(out, format, sf.Cart())
			}
		case "/set":
			if len(fields) != 3 {
				fmt.Fprintln(out, "usage: /set <id> <qty>")
				continue
			}
			qty, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Fprintf(out, "invalid quantity %q\n", fields[2])
				continue
			}
			if sf.SetQuantity(cmd.Context(), fields[1], qty) {
				_ = printCart(out, format, sf.Cart())
			}
		default:
			fmt.Fprintf(out, "unknown command %s\n", fields[0])
		}
	}
	return scanner.Err()
}
