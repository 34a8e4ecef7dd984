package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// NewResponse creates a response with a fully buffered body.
func NewResponse(code int, contentType string, body []byte) *http.Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}

	h.Set("Content-Length", strconv.Itoa(len(body)))
	return &http.Response{
		StatusCode:    code,
		Status:        strconv.Itoa(code) + " " + http.StatusText(code),
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// NewTextResponse creates a plain text response. When text is empty, the
// status text of the code is used.
func NewTextResponse(code int, text string) *http.Response {
	if text == "" {
		text = http.StatusText(code)
	}

	return NewResponse(code, "text/plain; charset=utf-8", []byte(text))
}
