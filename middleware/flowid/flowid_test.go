package flowid

import (
	"bytes"
	"errors"
	"net/http"
	"testing"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

const (
	testFlowID    = "FLOW-ID-FOR-TESTING"
	invalidFlowID = "[<>] (o) [<>]"
)

type failingGenerator struct{}

func (failingGenerator) Generate() (string, error) { return "", errors.New("no entropy") }

func run(t *testing.T, args []interface{}, incoming string) (seen string, rsp *http.Response) {
	m, err := NewSpec().CreateMiddleware(args)
	if err != nil {
		t.Fatal(err)
	}

	var h request.Values
	if incoming != "" {
		h = request.Values{HeaderName: incoming}
	}

	rsp, err = middleware.New(m).Run(
		request.New(request.Sources{Headers: h}),
		middleware.HandlerFunc(func(r *request.Request) (*http.Response, error) {
			seen = r.Header(HeaderName)
			return middleware.NewTextResponse(http.StatusOK, ""), nil
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	return seen, rsp
}

func TestFlowID(t *testing.T) {
	for _, ti := range []struct {
		msg       string
		args      []interface{}
		incoming  string
		expectNew bool
	}{
		{"generate", nil, "", true},
		{"reuse, missing", []interface{}{ReuseParameterValue}, "", true},
		{"reuse existing", []interface{}{ReuseParameterValue}, testFlowID, false},
		{"reuse is case insensitive", []interface{}{"REUSE"}, testFlowID, false},
		{"ignore existing", []interface{}{"dummy"}, testFlowID, true},
		{"reject invalid", []interface{}{ReuseParameterValue}, invalidFlowID, true},
		{"reject short", []interface{}{ReuseParameterValue}, "abc", true},
	} {
		t.Run(ti.msg, func(t *testing.T) {
			seen, rsp := run(t, ti.args, ti.incoming)
			if seen == "" || !IsValid(seen) {
				t.Fatalf("invalid flow id: %q", seen)
			}

			if ti.expectNew && seen == ti.incoming {
				t.Error("failed to generate a new flow id")
			}

			if !ti.expectNew && seen != ti.incoming {
				t.Errorf("failed to reuse the flow id, got: %s", seen)
			}

			if got := rsp.Header.Get(HeaderName); got != seen {
				t.Errorf("flow id not echoed, got: %s, expected: %s", got, seen)
			}
		})
	}
}

func TestInvalidParameters(t *testing.T) {
	for _, args := range [][]interface{}{{true}, {1}, {ReuseParameterValue, 1}} {
		if _, err := NewSpec().CreateMiddleware(args); err != middleware.ErrInvalidMiddlewareParameters {
			t.Errorf("expected an invalid parameters error for %v, got %v", args, err)
		}
	}
}

func TestGeneratorFailure(t *testing.T) {
	m, err := WithGenerator(failingGenerator{}).CreateMiddleware(nil)
	if err != nil {
		t.Fatal(err)
	}

	rsp, err := middleware.New(m).Run(request.New(request.Sources{}), middleware.HandlerFunc(func(r *request.Request) (*http.Response, error) {
		return middleware.NewTextResponse(http.StatusOK, ""), nil
	}))
	if err != nil || rsp.StatusCode != http.StatusOK {
		t.Fatalf("failed to continue the chain: %v", err)
	}

	if rsp.Header.Get(HeaderName) != "" {
		t.Error("unexpected flow id")
	}
}

func TestULIDGenerator(t *testing.T) {
	g := NewULIDGeneratorWithEntropy(bytes.NewReader(make([]byte, 32)))
	id, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}

	if len(id) != 26 || !IsValid(id) {
		t.Errorf("invalid ulid: %s", id)
	}

	ids := make(map[string]bool)
	g = NewULIDGenerator()
	for i := 0; i < 100; i++ {
		id, err := g.Generate()
		if err != nil {
			t.Fatal(err)
		}

		ids[id] = true
	}

	if len(ids) != 100 {
		t.Error("duplicate ids")
	}
}
