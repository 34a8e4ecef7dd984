package routing_test

import (
	"io"
	"testing"
	"time"

	"github.com/zalando/routecond/handlers"
	"github.com/zalando/routecond/metrics"
	"github.com/zalando/routecond/metrics/metricstest"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
	"github.com/zalando/routecond/routing/testdataclient"
)

const pollTimeout = 15 * time.Millisecond

func content(id, text string) *routing.RouteDef {
	return &routing.RouteDef{
		ID:        id,
		Condition: "*",
		Handler:   routing.HandlerDef{Name: handlers.InlineContentName, Args: []interface{}{text}},
	}
}

func testRequest(method, path string) *request.Request {
	return request.New(request.Sources{Server: request.Values{
		"REQUEST_METHOD": method,
		"HTTP_HOST":      "www.example.org",
		"REQUEST_URI":    path,
	}})
}

func testOptions(m metrics.Metrics, dc ...routing.DataClient) routing.Options {
	return routing.Options{
		Factory:            routing.NewFactory(routing.NewRegistry(routing.NewURLSpec(routing.URLOptions{}), routing.NewCustomSpec())),
		MiddlewareRegistry: middleware.Registry{},
		HandlerRegistry:    handlers.NewRegistry(),
		PollTimeout:        pollTimeout,
		DataClients:        dc,
		Metrics:            m,
	}
}

func waitFirstLoad(t *testing.T, rt *routing.Routing) {
	select {
	case <-rt.FirstLoad():
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for the first load")
	}
}

func serveBody(t *testing.T, r *routing.Route, req *request.Request) string {
	rsp, err := r.Serve(req)
	if err != nil {
		t.Fatal(err)
	}

	b, err := io.ReadAll(rsp.Body)
	if err != nil {
		t.Fatal(err)
	}

	return string(b)
}

func waitFor(t *testing.T, f func() bool) {
	deadline := time.Now().Add(time.Second)
	for !f() {
		if time.Now().After(deadline) {
			t.Fatal("timeout")
		}

		time.Sleep(pollTimeout)
	}
}

func TestFirstMatchingRouteWins(t *testing.T) {
	defs := []*routing.RouteDef{{
		ID:        "users",
		Condition: []interface{}{[]interface{}{"url", "/users/:id"}, []interface{}{"!custom", func(r *request.Request, _ ...interface{}) bool { return r.IsPost() }}},
		Handler:   routing.HandlerDef{Name: handlers.InlineContentName, Args: []interface{}{"users"}},
	}, {
		ID:        "any-user",
		Condition: "/users/*rest",
		Handler:   routing.HandlerDef{Name: handlers.InlineContentName, Args: []interface{}{"any user"}},
	}, content("catchall", "catchall")}

	rt := routing.New(testOptions(nil, testdataclient.New(defs)))
	defer rt.Close()
	waitFirstLoad(t, rt)

	for _, ti := range []struct {
		method, path string
		expectedID   string
		args         map[string]string
	}{
		{"GET", "/users/42", "users", map[string]string{"id": "42"}},
		{"POST", "/users/42", "any-user", map[string]string{"rest": "/42"}},
		{"GET", "/users/42/roles", "any-user", map[string]string{"rest": "/42/roles"}},
		{"GET", "/", "catchall", nil},
	} {
		r, args := rt.Route(testRequest(ti.method, ti.path))
		if r == nil {
			t.Fatalf("failed to route %s %s", ti.method, ti.path)
		}

		if r.ID != ti.expectedID {
			t.Errorf("invalid route for %s %s, got: %s, expected: %s", ti.method, ti.path, r.ID, ti.expectedID)
		}

		if len(args) != len(ti.args) {
			t.Errorf("invalid args for %s %s: %v", ti.method, ti.path, args)
		}

		for k, v := range ti.args {
			if args[k] != v {
				t.Errorf("invalid arg %s for %s %s, got: %s, expected: %s", k, ti.method, ti.path, args[k], v)
			}
		}
	}
}

func TestNoRoute(t *testing.T) {
	rt := routing.New(testOptions(nil, testdataclient.New([]*routing.RouteDef{{
		ID:        "foo",
		Condition: "/foo",
		Handler:   routing.HandlerDef{Name: handlers.StatusName, Args: []interface{}{200}},
	}})))
	defer rt.Close()
	waitFirstLoad(t, rt)

	if r, _ := rt.Route(testRequest("GET", "/bar")); r != nil {
		t.Error("unexpected route")
	}
}

func TestInvalidRoutesAreSkipped(t *testing.T) {
	m := &metricstest.MockMetrics{}
	dc := testdataclient.New([]*routing.RouteDef{{
		ID:        "unknown-condition",
		Condition: []interface{}{"foo"},
		Handler:   routing.HandlerDef{Name: handlers.StatusName, Args: []interface{}{200}},
	}, {
		ID:         "unknown-middleware",
		Condition:  "*",
		Middleware: []routing.MiddlewareDef{{Name: "foo"}},
		Handler:    routing.HandlerDef{Name: handlers.StatusName, Args: []interface{}{200}},
	}, {
		ID:        "invalid-handler-args",
		Condition: "*",
		Handler:   routing.HandlerDef{Name: handlers.StatusName, Args: []interface{}{"foo"}},
	}, content("valid", "valid")})

	rt := routing.New(testOptions(m, dc))
	defer rt.Close()
	waitFirstLoad(t, rt)

	routes := rt.Get().Routes()
	if len(routes) != 1 || routes[0].ID != "valid" {
		t.Fatalf("failed to skip invalid routes: %d", len(routes))
	}

	for _, key := range []string{
		"route.invalid.unknown-condition..unknown_condition_type",
		"route.invalid.unknown-middleware..unknown_middleware",
		"route.invalid.invalid-handler-args..invalid_handler_params",
	} {
		if v, ok := m.Gauge(key); !ok || v != 1 {
			t.Errorf("invalid route not reported: %s", key)
		}
	}
}

func TestUpdate(t *testing.T) {
	dc := testdataclient.New([]*routing.RouteDef{content("foo", "foo")})
	rt := routing.New(testOptions(nil, dc))
	defer rt.Close()
	waitFirstLoad(t, rt)

	r, _ := rt.Route(testRequest("GET", "/"))
	if body := serveBody(t, r, testRequest("GET", "/")); body != "foo" {
		t.Fatalf("invalid initial route: %s", body)
	}

	dc.Update([]*routing.RouteDef{content("bar", "bar")}, []string{"foo"})
	waitFor(t, func() bool {
		r, _ := rt.Route(testRequest("GET", "/"))
		return r != nil && r.ID == "bar"
	})
}

func TestReloadAfterFailedUpdate(t *testing.T) {
	dc := testdataclient.New([]*routing.RouteDef{content("foo", "foo")})
	rt := routing.New(testOptions(nil, dc))
	defer rt.Close()
	waitFirstLoad(t, rt)

	dc.FailNext()
	dc.Update([]*routing.RouteDef{content("bar", "bar")}, []string{"foo"})
	waitFor(t, func() bool {
		r, _ := rt.Route(testRequest("GET", "/"))
		return r != nil && r.ID == "bar"
	})
}

func TestMergeClients(t *testing.T) {
	dc1 := testdataclient.New([]*routing.RouteDef{content("foo", "foo from 1"), content("bar", "bar")})
	dc2 := testdataclient.New([]*routing.RouteDef{content("foo", "foo from 2")})
	rt := routing.New(testOptions(nil, dc1, dc2))
	defer rt.Close()
	waitFirstLoad(t, rt)

	routes := rt.Get().Routes()
	if len(routes) != 2 {
		t.Fatalf("invalid number of routes: %d", len(routes))
	}

	if routes[0].ID != "foo" || routes[1].ID != "bar" {
		t.Errorf("invalid order: %s, %s", routes[0].ID, routes[1].ID)
	}

	if body := serveBody(t, routes[0], testRequest("GET", "/")); body != "foo from 2" {
		t.Errorf("failed to override: %s", body)
	}
}

func TestNoDataClients(t *testing.T) {
	rt := routing.New(testOptions(nil))
	defer rt.Close()
	waitFirstLoad(t, rt)

	if len(rt.Get().Routes()) != 0 {
		t.Error("unexpected routes")
	}
}

func TestNewTableFailsFast(t *testing.T) {
	o := routing.TableOptions{
		Factory:         routing.NewFactory(routing.NewRegistry()),
		HandlerRegistry: handlers.NewRegistry(),
	}

	_, err := routing.NewTable(o, []*routing.RouteDef{
		content("valid", "valid"),
		{ID: "invalid", Condition: []interface{}{"unknown"}, Handler: routing.HandlerDef{Name: handlers.StatusName, Args: []interface{}{200}}},
	})
	if err == nil {
		t.Fatal("failed to fail")
	}

	table, err := routing.NewTable(o, []*routing.RouteDef{content("valid", "valid")})
	if err != nil {
		t.Fatal(err)
	}

	if r, _ := table.Match(testRequest("GET", "/foo")); r == nil || r.ID != "valid" {
		t.Error("failed to match")
	}
}

func TestMissingHandler(t *testing.T) {
	o := routing.TableOptions{
		Factory:         routing.NewFactory(routing.NewRegistry()),
		HandlerRegistry: handlers.NewRegistry(),
	}

	if _, err := routing.NewTable(o, []*routing.RouteDef{{ID: "foo", Condition: "*"}}); err == nil {
		t.Error("failed to fail")
	}
}
