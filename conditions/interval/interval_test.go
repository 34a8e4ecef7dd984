package interval

import (
	"testing"
	"time"

	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

func TestCreate(t *testing.T) {
	for _, ti := range []struct {
		msg  string
		spec routing.ConditionSpec
		args []interface{}
		err  bool
	}{{
		"between, nil arguments",
		NewBetween(),
		nil,
		true,
	}, {
		"between, wrong number of arguments",
		NewBetween(),
		[]interface{}{"2016-01-01T12:00:00+07:00"},
		true,
	}, {
		"between, first argument is not a date",
		NewBetween(),
		[]interface{}{'1', "2016-01-01T12:00:00+07:00"},
		true,
	}, {
		"between, mixed unix and string",
		NewBetween(),
		[]interface{}{time.Date(2021, 2, 18, 0, 0, 0, 0, time.UTC).Unix(), "2021-02-18T01:00:00Z"},
		true,
	}, {
		"between, begin is after end",
		NewBetween(),
		[]interface{}{"2016-02-01T12:00:00+07:00", "2016-01-01T12:00:00+07:00"},
		true,
	}, {
		"between, begin is the same as end",
		NewBetween(),
		[]interface{}{"2016-02-01T12:00:00+07:00", "2016-02-01T12:00:00+07:00"},
		true,
	}, {
		"between, valid with time zone",
		NewBetween(),
		[]interface{}{"2016-01-01T12:00:00+07:00", "2016-02-01T12:00:00+07:00"},
		false,
	}, {
		"between, valid unix time",
		NewBetween(),
		[]interface{}{float64(1451649600), float64(1454328000)},
		false,
	}, {
		"before, too many arguments",
		NewBefore(),
		[]interface{}{"2016-01-01T12:00:00Z", "2016-02-01T12:00:00Z"},
		true,
	}, {
		"before, invalid date",
		NewBefore(),
		[]interface{}{"yesterday"},
		true,
	}, {
		"before, valid",
		NewBefore(),
		[]interface{}{"2016-01-01T12:00:00Z"},
		false,
	}, {
		"after, valid int",
		NewAfter(),
		[]interface{}{1451649600},
		false,
	}} {
		t.Run(ti.msg, func(t *testing.T) {
			_, err := ti.spec.Create(ti.args)
			if ti.err && err == nil {
				t.Error("failed to fail")
			} else if !ti.err && err != nil {
				t.Error(err)
			}
		})
	}
}

func TestSatisfied(t *testing.T) {
	begin := "2016-01-01T12:00:00Z"
	end := "2016-02-01T12:00:00Z"
	mustParse := func(s string) time.Time {
		tm, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatal(err)
		}

		return tm
	}

	for _, ti := range []struct {
		msg      string
		spec     routing.ConditionSpec
		args     []interface{}
		now      time.Time
		expected bool
	}{
		{"between, inside", NewBetween(), []interface{}{begin, end}, mustParse("2016-01-15T12:00:00Z"), true},
		{"between, lower boundary", NewBetween(), []interface{}{begin, end}, mustParse(begin), true},
		{"between, upper boundary", NewBetween(), []interface{}{begin, end}, mustParse(end), true},
		{"between, before", NewBetween(), []interface{}{begin, end}, mustParse("2015-12-31T12:00:00Z"), false},
		{"between, after", NewBetween(), []interface{}{begin, end}, mustParse("2016-02-02T12:00:00Z"), false},
		{"before, before", NewBefore(), []interface{}{end}, mustParse(begin), true},
		{"before, boundary", NewBefore(), []interface{}{end}, mustParse(end), false},
		{"after, after", NewAfter(), []interface{}{begin}, mustParse(end), true},
		{"after, boundary", NewAfter(), []interface{}{begin}, mustParse(begin), false},
	} {
		t.Run(ti.msg, func(t *testing.T) {
			c, err := ti.spec.Create(ti.args)
			if err != nil {
				t.Fatal(err)
			}

			c.(*condition).now = func() time.Time { return ti.now }
			if c.Satisfied(request.New(request.Sources{})) != ti.expected {
				t.Error("failed to match as expected")
			}
		})
	}
}
