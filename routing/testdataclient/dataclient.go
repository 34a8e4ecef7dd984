/*
Package testdataclient provides a test implementation for the DataClient
interface of the routing package.

It uses the route definitions provided at construction as the initial
set, and allows feeding updates with the Update method.
*/
package testdataclient

import (
	"errors"
	"sync"

	"github.com/zalando/routecond/routing"
)

type incomingUpdate struct {
	upsert     []*routing.RouteDef
	deletedIDs []string
}

// Client is a DataClient implementation to be used in tests, supporting
// the initial set and incremental updates of route definitions.
type Client struct {
	mu       sync.Mutex
	routes   map[string]*routing.RouteDef
	order    []string
	updates  chan incomingUpdate
	failNext int
}

// New creates a Client with an initial set of route definitions.
func New(initial []*routing.RouteDef) *Client {
	c := &Client{
		routes:  make(map[string]*routing.RouteDef),
		updates: make(chan incomingUpdate, 16),
	}

	c.upsert(initial)
	return c
}

func (c *Client) upsert(defs []*routing.RouteDef) {
	for _, d := range defs {
		if _, ok := c.routes[d.ID]; !ok {
			c.order = append(c.order, d.ID)
		}

		c.routes[d.ID] = d
	}
}

func (c *Client) delete(ids []string) {
	for _, id := range ids {
		delete(c.routes, id)
	}

	var order []string
	for _, id := range c.order {
		if _, ok := c.routes[id]; ok {
			order = append(order, id)
		}
	}

	c.order = order
}

func (c *Client) checkFail() error {
	if c.failNext > 0 {
		c.failNext--
		return errors.New("failed to get routes")
	}

	return nil
}

// LoadAll returns the current set of route definitions, including the
// updates already received.
func (c *Client) LoadAll() ([]*routing.RouteDef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkFail(); err != nil {
		return nil, err
	}

	c.drain()
	defs := make([]*routing.RouteDef, 0, len(c.order))
	for _, id := range c.order {
		defs = append(defs, c.routes[id])
	}

	return defs, nil
}

func (c *Client) drain() {
	for {
		select {
		case u := <-c.updates:
			c.delete(u.deletedIDs)
			c.upsert(u.upsert)
		default:
			return
		}
	}
}

// LoadUpdate returns the pending update, if any.
func (c *Client) LoadUpdate() ([]*routing.RouteDef, []string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkFail(); err != nil {
		return nil, nil, err
	}

	select {
	case u := <-c.updates:
		c.delete(u.deletedIDs)
		c.upsert(u.upsert)
		return u.upsert, u.deletedIDs, nil
	default:
		return nil, nil, nil
	}
}

// Update feeds an update to the client, to be returned by the next
// LoadUpdate call.
func (c *Client) Update(upsert []*routing.RouteDef, deletedIDs []string) {
	c.updates <- incomingUpdate{upsert: upsert, deletedIDs: deletedIDs}
}

// FailNext makes the next call to LoadAll or LoadUpdate fail.
func (c *Client) FailNext() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext++
}
