package handlers

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/request"
)

func testRequest() *request.Request {
	return request.New(request.Sources{Server: request.Values{
		"HTTP_HOST":   "www.example.org",
		"REQUEST_URI": "/foo/bar",
	}})
}

func TestHandlers(t *testing.T) {
	for _, ti := range []struct {
		msg          string
		name         string
		args         []interface{}
		createErr    bool
		status       int
		body         string
		header       string
		headerValue  string
		notFoundFail bool
	}{{
		msg:    "status",
		name:   StatusName,
		args:   []interface{}{float64(418)},
		status: http.StatusTeapot,
		body:   "I'm a teapot",
	}, {
		msg:    "status with body",
		name:   StatusName,
		args:   []interface{}{201, "created"},
		status: http.StatusCreated,
		body:   "created",
	}, {
		msg:    "status no content",
		name:   StatusName,
		args:   []interface{}{204},
		status: http.StatusNoContent,
	}, {
		msg:       "status invalid code",
		name:      StatusName,
		args:      []interface{}{"200"},
		createErr: true,
	}, {
		msg:       "status out of range",
		name:      StatusName,
		args:      []interface{}{99},
		createErr: true,
	}, {
		msg:         "inline content",
		name:        InlineContentName,
		args:        []interface{}{`{"foo": 42}`, "application/json"},
		status:      http.StatusOK,
		body:        `{"foo": 42}`,
		header:      "Content-Type",
		headerValue: "application/json",
	}, {
		msg:         "inline content detected type",
		name:        InlineContentName,
		args:        []interface{}{"Hello, world!"},
		status:      http.StatusOK,
		body:        "Hello, world!",
		header:      "Content-Type",
		headerValue: "text/plain; charset=utf-8",
	}, {
		msg:       "inline content without args",
		name:      InlineContentName,
		createErr: true,
	}, {
		msg:         "redirect absolute",
		name:        RedirectToName,
		args:        []interface{}{308, "https://www.example.com/baz"},
		status:      http.StatusPermanentRedirect,
		header:      "Location",
		headerValue: "https://www.example.com/baz",
	}, {
		msg:         "redirect relative",
		name:        RedirectToName,
		args:        []interface{}{float64(302), "/baz"},
		status:      http.StatusFound,
		header:      "Location",
		headerValue: "http://www.example.org/baz",
	}, {
		msg:       "redirect not a redirect status",
		name:      RedirectToName,
		args:      []interface{}{200, "/baz"},
		createErr: true,
	}, {
		msg:          "not found",
		name:         NotFoundName,
		notFoundFail: true,
	}, {
		msg:       "not found with args",
		name:      NotFoundName,
		args:      []interface{}{"foo"},
		createErr: true,
	}} {
		t.Run(ti.msg, func(t *testing.T) {
			spec, ok := NewRegistry()[ti.name]
			if !ok {
				t.Fatalf("handler not registered: %s", ti.name)
			}

			h, err := spec.CreateHandler(ti.args)
			if ti.createErr {
				if !errors.Is(err, ErrInvalidHandlerParameters) {
					t.Fatalf("expected invalid parameters, got: %v", err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			rsp, err := h.Serve(testRequest())
			if ti.notFoundFail {
				if !errors.Is(err, failure.ErrNotFound) {
					t.Fatalf("expected not found, got: %v", err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if rsp.StatusCode != ti.status {
				t.Errorf("invalid status, got: %d, expected: %d", rsp.StatusCode, ti.status)
			}

			b, err := io.ReadAll(rsp.Body)
			if err != nil {
				t.Fatal(err)
			}

			if string(b) != ti.body {
				t.Errorf("invalid body, got: %q, expected: %q", b, ti.body)
			}

			if ti.header != "" && rsp.Header.Get(ti.header) != ti.headerValue {
				t.Errorf("invalid header %s, got: %q, expected: %q", ti.header, rsp.Header.Get(ti.header), ti.headerValue)
			}
		})
	}
}
