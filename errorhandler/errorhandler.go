/*
Package errorhandler translates the failures raised while serving a
request into HTTP responses.

The decision depends on the kind of the failure and on the debug flag, in
this order:

 1. failure.ErrInvalidCsrfToken: 403, with a page asking the user to
    retry the action
 2. failure.ErrNotFound: 404
 3. any other failure, debug disabled: a generic 500, without details
 4. debug enabled and a Renderer available: 500, with the rendered
    diagnostic document
 5. otherwise the failure is returned to the caller

A failing Renderer is handled as a missing one.
*/
package errorhandler

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

// AreYouSurePage is the body of the response to a missing or invalid csrf
// token.
const AreYouSurePage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Something went wrong</title></head>
<body>
<p>The link you followed has expired.</p>
<p>Are you sure you want to do this? <a href="javascript:history.back()">Please try again.</a></p>
</body>
</html>
`

// Renderer creates a diagnostic document of a failure.
type Renderer interface {
	Render(err error) (body []byte, contentType string, rerr error)
}

// RequestRenderer is implemented by the renderers that can include the
// request in the diagnostic document.
type RequestRenderer interface {
	Renderer
	RenderRequest(r *request.Request, err error) (body []byte, contentType string, rerr error)
}

// Translator resolves failures to responses.
type Translator struct {

	// Debug enables the diagnostic responses.
	Debug bool

	// Renderer creates the diagnostic responses. Optional.
	Renderer Renderer
}

// New creates a Translator.
func New(renderer Renderer, debug bool) *Translator {
	return &Translator{Debug: debug, Renderer: renderer}
}

// Resolve translates a failure to a response, or returns it when it
// cannot be translated.
func Resolve(err error, debug bool, renderer Renderer) (*http.Response, error) {
	return New(renderer, debug).Resolve(err)
}

func csrfResponse() *http.Response {
	return middleware.NewResponse(http.StatusForbidden, "text/html; charset=utf-8", []byte(AreYouSurePage))
}

// Resolve translates a failure to a response, or returns it when it
// cannot be translated.
func (t *Translator) Resolve(err error) (*http.Response, error) {
	return t.ResolveRequest(nil, err)
}

func (t *Translator) render(r *request.Request, err error) ([]byte, string, error) {
	if rr, ok := t.Renderer.(RequestRenderer); ok && r != nil {
		return rr.RenderRequest(r, err)
	}

	return t.Renderer.Render(err)
}

// ResolveRequest is like Resolve, and when the renderer supports it, it
// includes the failed request in the diagnostic document.
func (t *Translator) ResolveRequest(r *request.Request, err error) (*http.Response, error) {
	if err == nil {
		return nil, nil
	}

	switch failure.KindOf(err) {
	case failure.ErrInvalidCsrfToken:
		return csrfResponse(), nil
	case failure.ErrNotFound:
		return middleware.NewTextResponse(http.StatusNotFound, ""), nil
	}

	if !t.Debug {
		return middleware.NewTextResponse(http.StatusInternalServerError, ""), nil
	}

	if t.Renderer == nil {
		return nil, err
	}

	body, contentType, rerr := t.render(r, err)
	if rerr != nil {
		log.Errorf("failed to render diagnostic document: %v", rerr)
		return nil, err
	}

	return middleware.NewResponse(http.StatusInternalServerError, contentType, body), nil
}
