package scenario

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xgx-io/esm"
)

// StatusCompleted is printed once every pair has been processed.
const StatusCompleted = "completed"

// Handled replaces the quotient of a pair whose division failed.
const Handled = "handled"

// DivideResult is the outcome of Divide: one entry per pair, either the
// quotient or Handled.
type DivideResult struct {
	Values []any
	Status string
}

// Divide divides each numerator by the denominator at the same index. An
// arithmetic failure is handled per pair and processing continues. A
// denominators slice shorter than numerators raises index_out_of_range, which
// is not handled here.
func Divide(w io.Writer, numerators, denominators []int) DivideResult {
	arithmetic := esm.MustDeclare(
		esm.Catch(esm.OnCategory(esm.CategoryArithmetic), func(e *esm.Error) any {
			fmt.Fprintf(w, "caught %v\n", e)
			slog.Debug("division handled", "error_id", e.ID().String(), "kind", string(e.Kind()))
			return Handled
		}),
	)

	var res DivideResult
	for i := range numerators {
		v := esm.Protect(func() any {
			return numerators[i] / denominators[i]
		}, arithmetic)
		fmt.Fprintln(w, v)
		res.Values = append(res.Values, v)
	}

	res.Status = StatusCompleted
	fmt.Fprintln(w, res.Status)
	return res
}
