/*
Package source implements conditions to match routes based on the source
IP of a request.

It supports one or more IP addresses with or without a netmask. When the
X-Forwarded-For header is set, the source is taken from it, otherwise
from the REMOTE_ADDR server variable. The source condition uses the first
entry of the header, and the source_from_last condition the last one.

This condition should not be used as the only gatekeeper for secure
endpoints.

Examples:

	// only match requests from 1.2.3.4
	[source, "1.2.3.4"]

	// only match requests from 1.2.3.4 and the 2.2.2.0/24 network
	[source_from_last, "1.2.3.4", "2.2.2.0/24"]
*/
package source

import (
	"net/netip"

	"go4.org/netipx"

	"github.com/zalando/routecond/conditions"
	snet "github.com/zalando/routecond/net"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

type sourceCondition int

const (
	source sourceCondition = iota
	sourceFromLast
)

type spec struct {
	typ sourceCondition
}

type condition struct {
	typ  sourceCondition
	nets *netipx.IPSet
}

// New creates the source condition specification.
func New() routing.ConditionSpec { return &spec{typ: source} }

// NewFromLast creates the source_from_last condition specification.
func NewFromLast() routing.ConditionSpec { return &spec{typ: sourceFromLast} }

func (s *spec) Name() string {
	if s.typ == sourceFromLast {
		return conditions.SourceFromLastName
	}

	return conditions.SourceName
}

func (s *spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) == 0 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	cidrs, err := conditions.StringArgs(args)
	if err != nil {
		return nil, err
	}

	nets, err := snet.ParseIPCIDRs(cidrs)
	if err != nil {
		return nil, err
	}

	return &condition{s.typ, nets}, nil
}

func (c *condition) Satisfied(r *request.Request) bool {
	var src netip.Addr
	if c.typ == sourceFromLast {
		src = snet.RemoteAddrFromLast(r)
	} else {
		src = snet.RemoteAddr(r)
	}

	return c.nets.Contains(src)
}
