package emit

import (
	"io"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// Dump writes the resolved tables to w for debugging.
func Dump(w io.Writer, t *Tables) {
	dumpConfig.Fdump(w, t.Base, t.Extended)
}
