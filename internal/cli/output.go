package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
)

const msgNoProducts = "No products found"

// lockedWriter serializes writes from the debounced search goroutine and the input loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProducts(w io.Writer, format string, products []types.Product, valid bool) error {
	if format == "json" {
		return writeJSON(w, map[string]any{"products": products, "search_valid": valid})
	}
	if !valid || len(products) == 0 {
		_, err := fmt.Fprintln(w, msgNoProducts)
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-32s %-14s %8s  %s\n", "ID", "NAME", "CATEGORY", "COST", "RATING")
	for _, p := range products {
		fmt.Fprintf(&b, "%-20s %-32s %-14s %8s  %s\n", p.ID, truncate(p.Name, 32), truncate(p.Category, 14), p.Cost.StringFixed(2), stars(p.Rating))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func printCart(w io.Writer, format string, summary storefront.Summary) error {
	if format == "json" {
		return writeJSON(w, summary)
	}
	if len(summary.Items) == 0 {
		_, err := fmt.Fprintln(w, "Cart is empty")
		return err
	}
	var b strings.Builder
	for _, item := range summary.Items {
		fmt.Fprintf(&b, "%3d x %-32s %-20s %10s\n", item.Quantity, truncate(item.Product.Name, 32), item.Product.ID, item.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", summary.Subtotal.StringFixed(2))
	_, err := io.WriteString(w, b.String())
	return err
}

func printIdentity(w io.Writer, format string, id session.Identity) error {
	if format == "json" {
		return writeJSON(w, map[string]any{
			"logged_in": id.LoggedIn(),
			"username":  id.Username,
			"balance":   id.Balance,
		})
	}
	if !id.LoggedIn() {
		_, err := fmt.Fprintln(w, "Not logged in")
		return err
	}
	_, err := fmt.Fprintf(w, "%s (balance %s)\n", id.Username, id.Balance.StringFixed(2))
	return err
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("*", rating) + strings.Repeat(".", 5-rating)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
