// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections is a set of peers safe for concurrent use.
type Connections struct {
	l     sync.RWMutex
	conns set.Set[*Connection]
}

func NewConnections(conns ...*Connection) *Connections {
	return &Connections{conns: set.Of(conns...)}
}

// Conns returns a snapshot of the set.
func (c *Connections) Conns() []*Connection {
	c.l.RLock()
	defer c.l.RUnlock()
	return c.conns.List()
}

func (c *Connections) Has(conn *Connection) bool {
	c.l.RLock()
	defer c.l.RUnlock()
	return c.conns.Contains(conn)
}

func (c *Connections) Len() int {
	c.l.RLock()
	defer c.l.RUnlock()
	return c.conns.Len()
}

func (c *Connections) Add(conns ...*Connection) {
	c.l.Lock()
	defer c.l.Unlock()
	c.conns.Add(conns...)
}

// Remove drops [conn] and reports whether the set is now empty.
func (c *Connections) Remove(conn *Connection) bool {
	c.l.Lock()
	defer c.l.Unlock()
	c.conns.Remove(conn)
	return c.conns.Len() == 0
}
