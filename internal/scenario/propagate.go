package scenario

import (
	"github.com/go-git/go-billy/v5"

	"github.com/xgx-io/esm"
)

// Propagate opens name two calls deep and handles nothing. A missing file
// raises resource_not_found from openFile; it passes through both callers and
// out of Propagate to whatever boundary encloses it.
func Propagate(fsys billy.Filesystem, name string) {
	readVia(fsys, name)
}

// OpenChecked is Propagate for callers that want a returned error.
func OpenChecked(fsys billy.Filesystem, name string) (err error) {
	defer esm.Recover(&err)
	Propagate(fsys, name)
	return nil
}

//go:noinline
func readVia(fsys billy.Filesystem, name string) {
	openFile(fsys, name)
}

//go:noinline
func openFile(fsys billy.Filesystem, name string) {
	f := esm.Must(fsys.Open(name))
	esm.Check(f.Close())
}
