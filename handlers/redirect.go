package handlers

import (
	"net/http"
	"net/url"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

type redirectSpec struct{}

type redirect struct {
	code     int
	location *url.URL
}

// NewRedirectTo creates the spec of the redirectTo handler. It expects two
// arguments: the redirect status code and the location. When the location
// is relative, the missing parts are taken from the url of the request.
//
//	handler: {name: redirectTo, args: [308, "https://www.example.org"]}
func NewRedirectTo() Spec { return redirectSpec{} }

func (redirectSpec) Name() string { return RedirectToName }

func (redirectSpec) CreateHandler(args []interface{}) (Handler, error) {
	if len(args) != 2 {
		return nil, ErrInvalidHandlerParameters
	}

	code, err := codeArg(args[0])
	if err != nil || code < 300 || code > 399 {
		return nil, ErrInvalidHandlerParameters
	}

	location, err := stringArg(args[1])
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, ErrInvalidHandlerParameters
	}

	return &redirect{code: code, location: u}, nil
}

func (r *redirect) Serve(req *request.Request) (*http.Response, error) {
	location := r.location.String()
	if !r.location.IsAbs() {
		if base, err := url.Parse(req.URL()); err == nil {
			location = base.ResolveReference(r.location).String()
		}
	}

	rsp := middleware.NewResponse(r.code, "", nil)
	rsp.Header.Set("Location", location)
	return rsp, nil
}
