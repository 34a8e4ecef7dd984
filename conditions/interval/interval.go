// Copyright 2015 Zalando SE
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package interval implements conditions to match routes only during some
period of time. Package includes three conditions: between, before and
after. All of them can be created using the date represented as a string
in RFC3339 format, or as an int, int64 or float64 unix time.

The between condition matches only if the current date is inside the
specified range of dates. The range is closed, so the boundaries are
included. It requires two dates, and the upper boundary must be after the
lower boundary. Both dates need to be of the same kind.

The before condition matches only if the current date is before the
specified date. The after condition matches only if the current date is
after the specified date. The boundary is not included in either case.

Examples:

	[between, "2016-01-01T12:00:00+02:00", "2016-02-01T12:00:00+02:00"]
	[between, 1451642400, 1454320800]
	[before, "2016-02-01T12:00:00+02:00"]
	[after, 1451642400]
*/
package interval

import (
	"time"

	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

type intervalType int

const (
	between intervalType = iota
	before
	after
)

type spec struct {
	typ intervalType
}

type condition struct {
	typ   intervalType
	begin time.Time
	end   time.Time
	now   func() time.Time
}

// NewBetween creates the between condition specification.
func NewBetween() routing.ConditionSpec { return &spec{between} }

// NewBefore creates the before condition specification.
func NewBefore() routing.ConditionSpec { return &spec{before} }

// NewAfter creates the after condition specification.
func NewAfter() routing.ConditionSpec { return &spec{after} }

func (s *spec) Name() string {
	switch s.typ {
	case between:
		return conditions.BetweenName
	case before:
		return conditions.BeforeName
	case after:
		return conditions.AfterName
	default:
		panic("invalid interval condition type")
	}
}

func (s *spec) Create(args []interface{}) (routing.Condition, error) {
	switch s.typ {
	case between:
		if len(args) != 2 {
			return nil, conditions.ErrInvalidConditionParameters
		}
	default:
		if len(args) != 1 {
			return nil, conditions.ErrInvalidConditionParameters
		}
	}

	switch s.typ {
	case between:
		if begin, end, ok := parseArgs(args[0], args[1]); ok && begin.Before(end) {
			return &condition{typ: s.typ, begin: begin, end: end, now: time.Now}, nil
		}
	case before:
		if end, _, ok := parseArg(args[0]); ok {
			return &condition{typ: s.typ, end: end, now: time.Now}, nil
		}
	case after:
		if begin, _, ok := parseArg(args[0]); ok {
			return &condition{typ: s.typ, begin: begin, now: time.Now}, nil
		}
	}

	return nil, conditions.ErrInvalidConditionParameters
}

func parseArgs(arg1, arg2 interface{}) (time.Time, time.Time, bool) {
	begin, unix1, ok := parseArg(arg1)
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	end, unix2, ok := parseArg(arg2)
	if !ok || unix1 != unix2 {
		return time.Time{}, time.Time{}, false
	}

	return begin, end, true
}

// returns the time, whether it was set as unix time, and whether the
// argument was valid
func parseArg(arg interface{}) (time.Time, bool, bool) {
	switch a := arg.(type) {
	case string:
		t, err := time.Parse(time.RFC3339, a)
		if err == nil {
			return t, false, true
		}
	case float64:
		return time.Unix(int64(a), 0), true, true
	case int64:
		return time.Unix(a, 0), true, true
	case int:
		return time.Unix(int64(a), 0), true, true
	}

	return time.Time{}, false, false
}

func (c *condition) Satisfied(*request.Request) bool {
	now := c.now()
	switch c.typ {
	case between:
		return !now.Before(c.begin) && !now.After(c.end)
	case before:
		return c.end.After(now)
	case after:
		return c.begin.Before(now)
	default:
		return false
	}
}
