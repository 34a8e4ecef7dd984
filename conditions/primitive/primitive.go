// Package primitive provides the conditions that always or never match.
package primitive

import (
	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

type spec struct {
	value bool
}

type condition bool

// NewTrue provides a condition spec to create a condition that is always
// satisfied.
func NewTrue() routing.ConditionSpec { return &spec{value: true} }

// NewFalse provides a condition spec to create a condition that is never
// satisfied.
func NewFalse() routing.ConditionSpec { return &spec{} }

func (s *spec) Name() string {
	if s.value {
		return conditions.TrueName
	}

	return conditions.FalseName
}

func (s *spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) != 0 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	return condition(s.value), nil
}

func (c condition) Satisfied(*request.Request) bool {
	return bool(c)
}
