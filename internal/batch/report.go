package batch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"partprice/internal/domain"
)

// Render writes the human-readable block for one comparison.
func Render(w io.Writer, r domain.ComparisonResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\nPrice comparison for %s %s:\n", orDash(r.Manufacturer), orDash(r.PartNumber))
	if len(r.PricesFound) == 0 {
		fmt.Fprintln(bw, "  No prices found")
	}
	for _, p := range r.PricesFound {
		fmt.Fprintf(bw, "  %s: %.2f EUR\n", p.Source, p.Price)
	}
	if r.OurPrice != nil {
		fmt.Fprintf(bw, "Our price: %s EUR\n", strconv.FormatFloat(*r.OurPrice, 'f', -1, 64))
	}
	if r.Difference != nil {
		fmt.Fprintf(bw, "Difference to cheapest offer: %.2f EUR\n", *r.Difference)
	}
	return bw.Flush()
}

func orDash(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}
