package errorhandler

import (
	"encoding/json"
	"errors"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/request"
)

type (
	debugRequest struct {
		Method  string            `json:"method"`
		URL     string            `json:"url"`
		Params  map[string]string `json:"params,omitempty"`
		Query   request.Values    `json:"query,omitempty"`
		Body    request.Values    `json:"body,omitempty"`
		Headers request.Values    `json:"headers,omitempty"`
	}

	debugDocument struct {
		Kind    string        `json:"kind"`
		Message string        `json:"message"`
		Causes  []string      `json:"causes,omitempty"`
		Request *debugRequest `json:"request,omitempty"`
	}
)

// DebugRenderer renders the failures as JSON documents containing the
// kind, the message and the chain of the wrapped causes of the failure,
// and optionally the request.
type DebugRenderer struct{}

var _ RequestRenderer = DebugRenderer{}

func isKind(err error) bool {
	_, ok := err.(failure.Kind)
	return ok
}

// collects the messages of the wrapped errors, depth first, skipping the
// kind markers
func causes(err error) []string {
	var c []string
	var walk func(error)
	walk = func(err error) {
		var next []error
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			if e := u.Unwrap(); e != nil {
				next = []error{e}
			}
		case interface{ Unwrap() []error }:
			next = u.Unwrap()
		}

		for _, e := range next {
			if !isKind(e) {
				c = append(c, e.Error())
			}

			walk(e)
		}
	}

	walk(err)
	return c
}

func convertRequest(r *request.Request) *debugRequest {
	return &debugRequest{
		Method:  r.Method(),
		URL:     r.URL(),
		Params:  r.Params(),
		Query:   r.Query(),
		Body:    r.Body(),
		Headers: r.Headers(),
	}
}

func (DebugRenderer) document(r *request.Request, err error) debugDocument {
	doc := debugDocument{
		Kind:    string(failure.KindOf(err)),
		Message: err.Error(),
		Causes:  causes(err),
	}

	if r != nil {
		doc.Request = convertRequest(r)
	}

	return doc
}

// Render creates the diagnostic document of a failure.
func (d DebugRenderer) Render(err error) ([]byte, string, error) {
	return d.RenderRequest(nil, err)
}

// RenderRequest creates the diagnostic document of a failure and the
// request that caused it.
func (d DebugRenderer) RenderRequest(r *request.Request, err error) ([]byte, string, error) {
	if err == nil {
		return nil, "", errors.New("no failure to render")
	}

	b, jerr := json.MarshalIndent(d.document(r, err), "", "  ")
	if jerr != nil {
		return nil, "", jerr
	}

	return b, "application/json", nil
}
