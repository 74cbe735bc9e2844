package scenario

import (
	"fmt"
	"io"

	"github.com/xgx-io/esm"
)

const separator = "-------------------------------------------------"

// Finally walks the cleanup guarantee through its four cases:
//  1. the block completes
//  2. the block raises and a handler catches it
//  3. the block raises and no handler matches; cleanup runs before the error
//     leaves the region, and Finally reports it and carries on
//  4. the block ends the process through exit, which skips cleanup
//
// With a nil exit the fourth case only prints what would happen.
func Finally(w io.Writer, exit func(int)) {
	arithmetic := esm.MustDeclare(esm.Catch(esm.OnCategory(esm.CategoryArithmetic), func(e *esm.Error) struct{} {
		fmt.Fprintf(w, "Example 2: caught %v\n", e)
		return struct{}{}
	}))

	esm.Run(func() {
		fmt.Fprintln(w, "Example 1: inside the block (no error)")
	}, arithmetic, esm.Finally(func() {
		fmt.Fprintln(w, "Example 1: cleanup always runs")
	}))
	fmt.Fprintln(w, separator)

	zero := 0
	esm.Run(func() {
		_ = 10 / zero
	}, arithmetic, esm.Finally(func() {
		fmt.Fprintln(w, "Example 2: cleanup always runs")
	}))
	fmt.Fprintln(w, separator)

	err := esm.Try(func() {
		esm.Run(func() {
			arr := make([]int, 2)
			i := 5
			arr[i] = 100
		}, arithmetic, esm.Finally(func() {
			fmt.Fprintln(w, "Example 3: cleanup still runs")
		}))
	})
	fmt.Fprintf(w, "Example 3: not handled here: %v\n", err)
	fmt.Fprintln(w, separator)

	esm.Run(func() {
		fmt.Fprintln(w, "Example 4: about to exit")
		if exit == nil {
			fmt.Fprintln(w, "Example 4: exit skipped; a real exit would bypass the cleanup below")
			return
		}
		exit(0)
	}, arithmetic, esm.Finally(func() {
		fmt.Fprintln(w, "Example 4: cleanup (not reached when the process exits)")
	}))
}
