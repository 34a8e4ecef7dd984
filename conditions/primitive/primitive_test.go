package primitive

import (
	"testing"

	"github.com/zalando/routecond/request"
)

func TestPrimitive(t *testing.T) {
	r := request.New(request.Sources{})
	for _, ti := range []struct {
		name     string
		expected bool
		create   func() (bool, error)
	}{{
		"true",
		true,
		func() (bool, error) {
			c, err := NewTrue().Create(nil)
			if err != nil {
				return false, err
			}

			return c.Satisfied(r), nil
		},
	}, {
		"false",
		false,
		func() (bool, error) {
			c, err := NewFalse().Create(nil)
			if err != nil {
				return false, err
			}

			return c.Satisfied(r), nil
		},
	}} {
		v, err := ti.create()
		if err != nil {
			t.Fatal(ti.name, err)
		}

		if v != ti.expected {
			t.Error(ti.name, "unexpected result")
		}
	}

	if _, err := NewTrue().Create([]interface{}{"foo"}); err == nil {
		t.Error("failed to fail")
	}
}
