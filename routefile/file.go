package routefile

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/zalando/routecond/routing"
)

var errMissingID = errors.New("route definition without id")

type document struct {
	Routes []*routing.RouteDef `json:"routes"`
}

// Parse parses a YAML or JSON document containing route definitions. The
// ids must be unique.
func Parse(b []byte) ([]*routing.RouteDef, error) {
	var d document
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to parse route definitions: %w", err)
	}

	ids := make(map[string]bool)
	for i, r := range d.Routes {
		if r == nil || r.ID == "" {
			return nil, fmt.Errorf("%w at position %d", errMissingID, i)
		}

		if ids[r.ID] {
			return nil, fmt.Errorf("duplicate route id: %s", r.ID)
		}

		ids[r.ID] = true
	}

	return d.Routes, nil
}

// Client loads the route definitions once, when opened.
type Client struct {
	routes []*routing.RouteDef
}

// Open reads and parses a route file.
func Open(path string) (*Client, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	routes, err := Parse(b)
	if err != nil {
		return nil, err
	}

	return &Client{routes: routes}, nil
}

// LoadAll returns the parsed route definitions.
func (c *Client) LoadAll() ([]*routing.RouteDef, error) {
	return c.routes, nil
}

// LoadUpdate returns no updates.
func (c *Client) LoadUpdate() ([]*routing.RouteDef, []string, error) {
	return nil, nil, nil
}
