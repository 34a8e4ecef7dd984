/*
Package cron implements a condition to match routes only when the system
time matches the given cron-like expression.

For supported and unsupported features refer to the documentation of the
"cronmask" package (https://github.com/sarslanhan/cronmask).

Example:

	// matches during the working hours of the week days
	[cron, "* 9-17 * * 1-5"]
*/
package cron

import (
	"time"

	"github.com/sarslanhan/cronmask"

	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

type clock func() time.Time

type spec struct{}

// New creates the cron condition specification.
func New() routing.ConditionSpec {
	return &spec{}
}

func (*spec) Name() string {
	return conditions.CronName
}

func (*spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) != 1 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	expr, ok := args[0].(string)
	if !ok {
		return nil, conditions.ErrInvalidConditionParameters
	}

	mask, err := cronmask.New(expr)
	if err != nil {
		return nil, err
	}

	return &condition{
		mask:    mask,
		getTime: time.Now,
	}, nil
}

type condition struct {
	mask    *cronmask.CronMask
	getTime clock
}

func (c *condition) Satisfied(*request.Request) bool {
	return c.mask.Match(c.getTime())
}
