/*
Package fraggle overlays virtual grouping nodes on top of a real ordered tree.

# Fraggles

A fraggle (type Group) collects real leaf nodes and other, nested groups into a
single logical unit. Clients may insert into a group both before and after it
has been attached to the real tree. As soon as a group is attached below a
real container node, every real node it contains (transitively) shows up as
a consecutive run of children of that container:

    g := fraggle.NewGroup()
    ov.AppendChild(g, div0)
    ov.AppendChild(g, div1)
    ov.AppendChild(body, g)    // body: [div0 div1]
    ov.InsertBefore(g, div2, div1)  // body: [div0 div2 div1]

Groups never appear as children of real nodes. The sibling and parent views a
group reports (PreviousSibling, NextSibling, ParentNode) are always real nodes
or nil, exactly as if the real nodes had been inserted one by one without any
grouping at all. Sibling views of real nodes placed inside groups are kept up
to date even while the group is not yet attached.

The real tree is accessed through an Adapter, and a Classifier tells real
nodes from groups. Package fraggle/html provides both for the nodes of
golang.org/x/net/html.

An Overlay is not safe for concurrent mutation. Every call performs its
real-tree mutation and all bookkeeping immediately and synchronously.

_________________________________________________________________________

BSD 3-Clause License
Copyright (c) 2020–21, Norbert Pillmayer
All rights reserved.

Please refer to the LICENSE file for details.
*/
package fraggle

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}
