package viz

import (
	"bufio"
	"io"
	"strconv"

	"github.com/benz9527/xrbtree/lib/infra"
)

const dotHeader = "digraph {\n" +
	"node [style=filled,fillcolor=black,fontcolor=white,shape=circle,fontsize=10,fixedsize=true]\n" +
	"edge [arrowstyle=normal,arrowsize=.5,penwidth=.3]\n" +
	"    "

// MinDotNodes is the smallest tree worth a graph, a lone node has no edge
// to draw.
const MinDotNodes = 2

// WriteDot writes kt as a graphviz digraph. Every node is a black circle,
// red nodes are refilled after their outgoing edges.
func WriteDot(w io.Writer, kt *KeyTree) error {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(dotHeader)
	writeDotNode(bw, kt.Root())
	_, _ = bw.WriteString("}\n")
	if err := bw.Flush(); err != nil {
		return infra.WrapErrorStack(err, "write dot")
	}
	return nil
}

func writeDotNode(bw *bufio.Writer, x *Item) {
	if x == nil {
		return
	}
	link := func(child *Item) {
		if child == nil {
			return
		}
		_, _ = bw.WriteString(strconv.Itoa(x.Key) + "->" + strconv.Itoa(child.Key) + "\n")
	}
	link(x.Left())
	link(x.Right())
	if x.IsRed() {
		_, _ = bw.WriteString(strconv.Itoa(x.Key) + " [fillcolor=red]\n")
	}
	writeDotNode(bw, x.Left())
	writeDotNode(bw, x.Right())
}
