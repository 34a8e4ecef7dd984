package routing

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type incomingType uint

const (
	incomingReset incomingType = iota
	incomingUpdate
)

func (it incomingType) String() string {
	switch it {
	case incomingReset:
		return "reset"
	case incomingUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// route definitions of a single client, in the order of their arrival
type routeDefs struct {
	order []string
	byID  map[string]*RouteDef
}

type incomingData struct {
	typ            incomingType
	client         int
	upsertedRoutes []*RouteDef
	deletedIDs     []string
}

func (d *incomingData) log(suppress bool) {
	if suppress {
		log.Infof("route settings, %v, upsert count: %v", d.typ, len(d.upsertedRoutes))
		log.Infof("route settings, %v, delete count: %v", d.typ, len(d.deletedIDs))
		return
	}

	for _, r := range d.upsertedRoutes {
		log.Infof("route settings, %v, route: %v", d.typ, r.ID)
	}

	for _, id := range d.deletedIDs {
		log.Infof("route settings, %v, deleted id: %v", d.typ, id)
	}
}

func sleep(d time.Duration, quit <-chan struct{}) bool {
	select {
	case <-time.After(d):
		return true
	case <-quit:
		return false
	}
}

func send(out chan<- *incomingData, d *incomingData, quit <-chan struct{}) bool {
	select {
	case out <- d:
		return true
	case <-quit:
		return false
	}
}

func receiveInitial(i int, c DataClient, pollTimeout time.Duration, out chan<- *incomingData, quit <-chan struct{}) bool {
	for {
		routes, err := c.LoadAll()
		if err == nil {
			return send(out, &incomingData{typ: incomingReset, client: i, upsertedRoutes: routes}, quit)
		}

		log.Errorf("error while receiving initial data: %v", err)
		if !sleep(pollTimeout, quit) {
			return false
		}
	}
}

func receiveUpdates(i int, c DataClient, pollTimeout time.Duration, out chan<- *incomingData, quit <-chan struct{}) bool {
	for {
		if !sleep(pollTimeout, quit) {
			return false
		}

		routes, deletedIDs, err := c.LoadUpdate()
		if err != nil {
			log.Errorf("error while receiving update: %v", err)
			return true
		}

		if len(routes) == 0 && len(deletedIDs) == 0 {
			continue
		}

		if !send(out, &incomingData{typ: incomingUpdate, client: i, upsertedRoutes: routes, deletedIDs: deletedIDs}, quit) {
			return false
		}
	}
}

func receiveFromClient(i int, c DataClient, o Options, out chan<- *incomingData, quit <-chan struct{}) {
	for {
		if !receiveInitial(i, c, o.PollTimeout, out, quit) {
			return
		}

		if !receiveUpdates(i, c, o.PollTimeout, out, quit) {
			return
		}
	}
}

func applyIncoming(defs *routeDefs, d *incomingData) *routeDefs {
	if d.typ == incomingReset || defs == nil {
		defs = &routeDefs{byID: make(map[string]*RouteDef)}
	}

	if d.typ == incomingUpdate && len(d.deletedIDs) > 0 {
		deleted := make(map[string]bool)
		for _, id := range d.deletedIDs {
			deleted[id] = true
			delete(defs.byID, id)
		}

		var order []string
		for _, id := range defs.order {
			if !deleted[id] {
				order = append(order, id)
			}
		}

		defs.order = order
	}

	for _, def := range d.upsertedRoutes {
		if _, exists := defs.byID[def.ID]; !exists {
			defs.order = append(defs.order, def.ID)
		}

		defs.byID[def.ID] = def
	}

	return defs
}

// merges the definitions of the clients by id. A definition keeps the
// position where its id first appears, and takes the value from the last
// client defining it.
func mergeDefs(defsByClient []*routeDefs) []*RouteDef {
	var order []string
	merged := make(map[string]*RouteDef)
	for _, defs := range defsByClient {
		if defs == nil {
			continue
		}

		for _, id := range defs.order {
			if _, exists := merged[id]; !exists {
				order = append(order, id)
			}

			merged[id] = defs.byID[id]
		}
	}

	all := make([]*RouteDef, 0, len(order))
	for _, id := range order {
		all = append(all, merged[id])
	}

	return all
}

func receiveRouteDefs(o Options, quit <-chan struct{}) <-chan []*RouteDef {
	in := make(chan *incomingData)
	out := make(chan []*RouteDef)
	defsByClient := make([]*routeDefs, len(o.DataClients))
	initialized := make([]bool, len(o.DataClients))

	for i, c := range o.DataClients {
		go receiveFromClient(i, c, o, in, quit)
	}

	allInitialized := func() bool {
		for _, ok := range initialized {
			if !ok {
				return false
			}
		}

		return true
	}

	go func() {
		defer close(out)

		if len(o.DataClients) == 0 {
			select {
			case out <- nil:
			case <-quit:
			}

			return
		}

		for {
			var incoming *incomingData
			select {
			case incoming = <-in:
			case <-quit:
				return
			}

			incoming.log(o.SuppressLogs)
			c := incoming.client
			defsByClient[c] = applyIncoming(defsByClient[c], incoming)
			initialized[c] = true
			if !allInitialized() {
				continue
			}

			select {
			case out <- mergeDefs(defsByClient):
			case <-quit:
				return
			}
		}
	}()

	return out
}

// skips the invalid definitions, logs and counts them
func processRouteDefs(o Options, defs []*RouteDef) *Table {
	to := o.tableOptions()
	t := &Table{}
	for _, def := range defs {
		o.Metrics.DeleteInvalidRoute(def.ID)
		r, err := processRouteDef(to, def)
		if err != nil {
			err = HandleValidationError(o.Metrics, err, def.ID)
			log.Errorf("failed to process route %q: %v", def.ID, err)
			continue
		}

		t.routes = append(t.routes, r)
	}

	return t
}

func receiveRouteTables(o Options, quit <-chan struct{}) <-chan *Table {
	out := make(chan *Table)
	updates := receiveRouteDefs(o, quit)
	go func() {
		defer close(out)
		for defs := range updates {
			t := processRouteDefs(o, defs)
			log.Infof("route table updated, %d routes of %d definitions", len(t.routes), len(defs))
			select {
			case out <- t:
			case <-quit:
				return
			}
		}
	}()

	return out
}
