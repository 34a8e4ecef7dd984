package handlers

import (
	"net/http"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/request"
)

type notFoundSpec struct{}

type notFound struct{}

// NewNotFound creates the spec of the notFound handler. It doesn't accept
// arguments, and it always fails with failure.ErrNotFound, e.g. to hide a
// subtree of the matched urls.
func NewNotFound() Spec { return notFoundSpec{} }

func (notFoundSpec) Name() string { return NotFoundName }

func (notFoundSpec) CreateHandler(args []interface{}) (Handler, error) {
	if len(args) != 0 {
		return nil, ErrInvalidHandlerParameters
	}

	return notFound{}, nil
}

func (notFound) Serve(r *request.Request) (*http.Response, error) {
	return nil, failure.NotFound("%s", r.Path())
}
