// Package host provides the host condition.
package host

import (
	"net"
	"strings"

	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

type spec struct{}

type condition struct {
	hosts []string
}

// New creates a condition specification, whose instances match the
// request host.
//
// The host condition requires one or more host names, and matches if the
// HTTP_HOST server variable, without the port, equals to any of them. The
// comparison is case insensitive.
func New() routing.ConditionSpec { return &spec{} }

func (*spec) Name() string {
	return conditions.HostName
}

func (*spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) == 0 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	hosts, err := conditions.StringArgs(args)
	if err != nil {
		return nil, err
	}

	return &condition{hosts: hosts}, nil
}

func requestHost(r *request.Request) string {
	h, _ := r.ServerValue("HTTP_HOST", "").(string)
	if hh, _, err := net.SplitHostPort(h); err == nil {
		return hh
	}

	return h
}

func (c *condition) Satisfied(r *request.Request) bool {
	h := requestHost(r)
	for _, host := range c.hosts {
		if strings.EqualFold(host, h) {
			return true
		}
	}

	return false
}
