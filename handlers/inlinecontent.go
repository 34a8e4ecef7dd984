package handlers

import (
	"net/http"

	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

type inlineContentSpec struct{}

type inlineContent struct {
	text string
	mime string
}

// NewInlineContent creates the spec of the inlineContent handler.
//
// It accepts two arguments: the content and the optional content type.
// When the content type is not set, it tries to detect it using
// http.DetectContentType.
//
// The handler responds with status code 200.
func NewInlineContent() Spec { return inlineContentSpec{} }

func (inlineContentSpec) Name() string { return InlineContentName }

func (inlineContentSpec) CreateHandler(args []interface{}) (Handler, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, ErrInvalidHandlerParameters
	}

	var (
		c   inlineContent
		err error
	)

	c.text, err = stringArg(args[0])
	if err != nil {
		return nil, err
	}

	if len(args) == 2 {
		c.mime, err = stringArg(args[1])
		if err != nil {
			return nil, err
		}
	} else {
		c.mime = http.DetectContentType([]byte(c.text))
	}

	return &c, nil
}

func (c *inlineContent) Serve(*request.Request) (*http.Response, error) {
	return middleware.NewResponse(http.StatusOK, c.mime, []byte(c.text)), nil
}
