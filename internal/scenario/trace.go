package scenario

import (
	"fmt"
	"io"

	"github.com/xgx-io/esm"
)

// StackTrace writes to index of a slice of the given size three calls deep
// and prints the origin trace of the resulting failure, innermost first.
func StackTrace(w io.Writer, size, index int) esm.Trace {
	var trace esm.Trace
	esm.Run(func() {
		level1(size, index)
	}, esm.MustDeclare(esm.Catch(esm.OnAny(), func(e *esm.Error) struct{} {
		trace = e.Trace()
		fmt.Fprintf(w, "%v\n", e)
		for _, f := range trace {
			fmt.Fprintf(w, "\tat %s\n", f)
		}
		return struct{}{}
	})))

	fmt.Fprintln(w, "reached the end")
	return trace
}

//go:noinline
func level1(size, index int) { level2(size, index) }

//go:noinline
func level2(size, index int) { level3(size, index) }

//go:noinline
func level3(size, index int) {
	arr := make([]int, size)
	arr[index] = 10
}
