package header

import (
	"testing"

	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

func TestHeader(t *testing.T) {
	for _, ti := range []struct {
		msg      string
		spec     routing.ConditionSpec
		args     []interface{}
		headers  request.Values
		err      bool
		expected bool
	}{{
		msg:  "no args",
		spec: New(),
		err:  true,
	}, {
		msg:  "too many args",
		spec: New(),
		args: []interface{}{"foo", "bar", "baz"},
		err:  true,
	}, {
		msg:  "invalid regexp",
		spec: New(),
		args: []interface{}{"foo", "("},
		err:  true,
	}, {
		msg:  "not a string",
		spec: New(),
		args: []interface{}{42},
		err:  true,
	}, {
		msg:      "exists",
		spec:     New(),
		args:     []interface{}{"x-tenant"},
		headers:  request.Values{"X-Tenant": "acme"},
		expected: true,
	}, {
		msg:  "missing",
		spec: New(),
		args: []interface{}{"X-Tenant"},
	}, {
		msg:      "value matches",
		spec:     New(),
		args:     []interface{}{"Accept", "^application/json"},
		headers:  request.Values{"accept": "application/json; charset=utf-8"},
		expected: true,
	}, {
		msg:      "one of the values matches",
		spec:     New(),
		args:     []interface{}{"Accept", "^text/html$"},
		headers:  request.Values{"Accept": []string{"application/json", "text/html"}},
		expected: true,
	}, {
		msg:     "value does not match",
		spec:    New(),
		args:    []interface{}{"Accept", "^application/json"},
		headers: request.Values{"Accept": "text/html"},
	}, {
		msg:  "ajax with args",
		spec: NewAjax(),
		args: []interface{}{"foo"},
		err:  true,
	}, {
		msg:      "ajax",
		spec:     NewAjax(),
		headers:  request.Values{"X-Requested-With": "XMLHttpRequest"},
		expected: true,
	}, {
		msg:  "not ajax",
		spec: NewAjax(),
	}} {
		t.Run(ti.msg, func(t *testing.T) {
			c, err := ti.spec.Create(ti.args)
			if ti.err {
				if err == nil {
					t.Error("failed to fail")
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if c.Satisfied(request.New(request.Sources{Headers: ti.headers})) != ti.expected {
				t.Error("failed to match as expected")
			}
		})
	}
}
