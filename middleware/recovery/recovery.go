// Package recovery provides a middleware unit converting panics raised
// by the rest of the chain into unhandled failures.
package recovery

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

const Name = "recover"

type spec struct{}

type recovery struct{}

// NewSpec creates the spec of the recover middleware. It takes no
// arguments.
func NewSpec() middleware.Spec { return spec{} }

// New creates a recover unit.
func New() middleware.Middleware { return recovery{} }

func (spec) Name() string { return Name }

func (spec) CreateMiddleware(args []interface{}) (middleware.Middleware, error) {
	if len(args) != 0 {
		return nil, middleware.ErrInvalidMiddlewareParameters
	}

	return New(), nil
}

func (recovery) Handle(r *request.Request, next middleware.Next) (rsp *http.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Errorf("recovered from panic while serving %s %s: %v", r.Method(), r.Path(), p)
			rsp = nil
			if perr, ok := p.(error); ok {
				err = failure.Unhandled(fmt.Errorf("panic: %w", perr))
				return
			}

			err = failure.Unhandled(fmt.Errorf("panic: %v", p))
		}
	}()

	return next(r)
}
