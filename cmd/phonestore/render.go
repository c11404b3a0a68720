package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"phonestore/internal/inventory"
	"phonestore/internal/view"
)

// renderPage writes the page as an aligned table followed by the page footer.
func renderPage(w io.Writer, page view.Page) error {
	if page.TotalItems == 0 {
		_, err := fmt.Fprintln(w, "No phones found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tMODEL\tSTORAGE\tRAM\tPRICE\tQTY\tCOLOR")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Brand, p.Model, p.StorageCapacity, p.RAM, p.SalePrice, p.Quantity, p.Color)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\npage %d of %d (%d phones)  %s\n",
		page.Number, page.TotalPages, page.TotalItems, pageControls(page))
	return err
}

// pageControls renders the window, e.g. "« 1 … 4 [5] 6 … 9 »". The arrows
// only appear when there is a page to move to.
func pageControls(page view.Page) string {
	var parts []string
	if page.HasPrev() {
		parts = append(parts, "«")
	}
	for _, it := range page.Window() {
		parts = append(parts, it.String())
	}
	if page.HasNext() {
		parts = append(parts, "»")
	}
	return strings.Join(parts, " ")
}

// renderPhone writes the detail view of one phone.
func renderPhone(w io.Writer, p inventory.Phone) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Brand:\t%s\n", p.Brand)
	fmt.Fprintf(tw, "Model:\t%s\n", p.Model)
	fmt.Fprintf(tw, "Storage:\t%s\n", p.StorageCapacity)
	fmt.Fprintf(tw, "RAM:\t%s\n", p.RAM)
	fmt.Fprintf(tw, "Price:\t%s\n", p.SalePrice)
	fmt.Fprintf(tw, "Quantity:\t%s\n", p.Quantity)
	fmt.Fprintf(tw, "Color:\t%s\n", p.Color)
	return tw.Flush()
}
