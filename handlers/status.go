package handlers

import (
	"net/http"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

type statusSpec struct{}

type status struct {
	code int
	body string
}

// NewStatus creates the spec of the status handler. It responds with the
// status code of the first argument, and with the optional text body of the
// second argument. When the body is not set, the status text is used.
//
//	handler: {name: status, args: [204]}
func NewStatus() Spec { return statusSpec{} }

func (statusSpec) Name() string { return StatusName }

func (statusSpec) CreateHandler(args []interface{}) (Handler, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, ErrInvalidHandlerParameters
	}

	code, err := codeArg(args[0])
	if err != nil {
		return nil, err
	}

	s := &status{code: code}
	if len(args) == 2 {
		if s.body, err = stringArg(args[1]); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *status) Serve(*request.Request) (*http.Response, error) {
	if s.code == http.StatusNoContent || s.code == http.StatusNotModified {
		return middleware.NewResponse(s.code, "", nil), nil
	}

	return middleware.NewTextResponse(s.code, s.body), nil
}
