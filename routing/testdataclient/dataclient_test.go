package testdataclient

import (
	"testing"

	"github.com/zalando/routecond/routing"
)

func def(id string) *routing.RouteDef {
	return &routing.RouteDef{ID: id, Condition: "/" + id, Handler: routing.HandlerDef{Name: "status", Args: []interface{}{200}}}
}

func TestInitial(t *testing.T) {
	dc := New([]*routing.RouteDef{def("foo"), def("bar")})
	defs, err := dc.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(defs) != 2 || defs[0].ID != "foo" || defs[1].ID != "bar" {
		t.Error("failed to load initial definitions in order")
	}
}

func TestUpdate(t *testing.T) {
	dc := New([]*routing.RouteDef{def("foo"), def("bar")})
	upsert, deleted, err := dc.LoadUpdate()
	if err != nil || len(upsert) != 0 || len(deleted) != 0 {
		t.Fatal("unexpected update")
	}

	dc.Update([]*routing.RouteDef{def("baz")}, []string{"foo"})
	upsert, deleted, err = dc.LoadUpdate()
	if err != nil {
		t.Fatal(err)
	}

	if len(upsert) != 1 || upsert[0].ID != "baz" || len(deleted) != 1 || deleted[0] != "foo" {
		t.Error("failed to receive update")
	}

	defs, err := dc.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(defs) != 2 || defs[0].ID != "bar" || defs[1].ID != "baz" {
		t.Error("update not applied")
	}
}

func TestFailNext(t *testing.T) {
	dc := New(nil)
	dc.FailNext()
	if _, err := dc.LoadAll(); err == nil {
		t.Error("failed to fail")
	}

	if _, err := dc.LoadAll(); err != nil {
		t.Error(err)
	}
}
