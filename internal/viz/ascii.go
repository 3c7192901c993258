package viz

import (
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/benz9527/xrbtree/lib/infra"
)

// WriteASCII prints kt sideways, the right subtree above its parent and
// one indent step per level. Black keys read [k] and red keys <k>; with
// colorize the red keys are also printed in red.
//
//	    <30>
//	[20]
//	    <10>
func WriteASCII(w io.Writer, kt *KeyTree, colorize bool) error {
	red := color.New(color.FgRed)
	if colorize {
		red.EnableColor()
	} else {
		red.DisableColor()
	}

	var sb strings.Builder
	var walk func(x *Item, depth int)
	walk = func(x *Item, depth int) {
		if x == nil {
			return
		}
		walk(x.Right(), depth+1)
		sb.WriteString(strings.Repeat("    ", depth))
		if x.IsRed() {
			sb.WriteString(red.Sprint("<" + strconv.Itoa(x.Key) + ">"))
		} else {
			sb.WriteString("[" + strconv.Itoa(x.Key) + "]")
		}
		sb.WriteByte('\n')
		walk(x.Left(), depth+1)
	}
	walk(kt.Root(), 0)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return infra.WrapErrorStack(err, "write ascii tree")
	}
	return nil
}
