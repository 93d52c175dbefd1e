// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_container01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("container01. nodes")

	c := NewContainer[*Node]()
	assert.Equal(tst, 0, c.Len())

	var nodes []*Node
	for i, x := range [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		node, err := NewNode(10+i, x, 2, 1)
		require.NoError(tst, err)
		nodes = append(nodes, node)
		assert.True(tst, c.Insert(node))
	}
	assert.Equal(tst, 4, c.Len())
	assert.False(tst, c.Insert(nodes[2]), "duplicated id")
	assert.Equal(tst, 4, c.Len())

	// index
	node, ok := c.Get(12)
	require.True(tst, ok)
	chk.Array(tst, "x of node 12", 1e-17, node.X, []float64{1, 1})
	_, ok = c.Get(99)
	assert.False(tst, ok)
	assert.Equal(tst, 13, c.At(3).Id)

	// for each
	var ids []int
	c.ForEach(func(n *Node) {
		ids = append(ids, n.Id)
		n.UpdateMass(false, 0, 1.0)
	})
	chk.Ints(tst, "ids", ids, []int{10, 11, 12, 13})
	for _, n := range nodes {
		chk.Float64(tst, "mass", 1e-17, n.Mass(0), 1.0)
	}

	// remove keeps the order
	assert.True(tst, c.Remove(11))
	assert.False(tst, c.Remove(11))
	assert.Equal(tst, 3, c.Len())
	ids = ids[:0]
	for _, n := range c.Items() {
		ids = append(ids, n.Id)
	}
	chk.Ints(tst, "ids", ids, []int{10, 12, 13})
	node, ok = c.Get(13)
	require.True(tst, ok)
	assert.Equal(tst, 13, node.Id)
	assert.Equal(tst, 13, c.At(2).Id)

	// items is a copy
	items := c.Items()
	items[0] = nil
	assert.Equal(tst, 10, c.At(0).Id)
}
