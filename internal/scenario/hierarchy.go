package scenario

import (
	"fmt"
	"io"

	"github.com/xgx-io/esm"
)

// HierarchyResult records which handler caught the failure and why the
// reversed declaration was refused.
type HierarchyResult struct {
	CaughtBy    string
	Declaration error
}

// Hierarchy divides by zero under three handlers ordered from most to least
// specific: the kind, its category, then anything. The most specific one must
// win. It then tries the same handlers in reverse order, which Declare
// rejects because the broad handler hides the others.
func Hierarchy(w io.Writer) HierarchyResult {
	catch := func(p esm.Predicate) esm.Handler[string] {
		return esm.Catch(p, func(e *esm.Error) string {
			fmt.Fprintf(w, "caught by %s: %v\n", p, e)
			return p.String()
		})
	}
	ordered := []esm.Handler[string]{
		catch(esm.OnKind(esm.KindDivisionByZero)),
		catch(esm.OnCategory(esm.CategoryArithmetic)),
		catch(esm.OnAny()),
	}

	zero := 0
	var res HierarchyResult
	res.CaughtBy = esm.Protect(func() string {
		return fmt.Sprint(10 / zero)
	}, esm.MustDeclare(ordered...))

	reversed := []esm.Handler[string]{ordered[2], ordered[1], ordered[0]}
	if _, err := esm.Declare(reversed...); err != nil {
		res.Declaration = err
		fmt.Fprintf(w, "reversed order refused: %v\n", err)
	}

	fmt.Fprintln(w, "program continues after handling")
	return res
}
