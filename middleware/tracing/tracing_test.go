package tracing

import (
	"net/http"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
)

func testRequest(headers request.Values) *request.Request {
	return request.New(request.Sources{
		Server: request.Values{
			"REQUEST_METHOD": "POST",
			"HTTP_HOST":      "www.example.org",
			"REQUEST_URI":    "/users/42",
		},
		Headers: headers,
	})
}

func TestSpan(t *testing.T) {
	tracer := mocktracer.New()
	m, err := NewSpec(tracer).CreateMiddleware([]interface{}{"users"})
	require.NoError(t, err)

	var active opentracing.Span
	rsp, err := middleware.New(m).Run(testRequest(nil), middleware.HandlerFunc(func(r *request.Request) (*http.Response, error) {
		active = opentracing.SpanFromContext(r.Context())
		return middleware.NewTextResponse(http.StatusCreated, ""), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rsp.StatusCode)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "users", span.OperationName)
	assert.Equal(t, "POST", span.Tag("http.method"))
	assert.Equal(t, "http://www.example.org/users/42", span.Tag("http.url"))
	assert.Equal(t, uint16(http.StatusCreated), span.Tag("http.status_code"))
	assert.Nil(t, span.Tag("error"))
	assert.Same(t, span, active)
}

func TestSpanWithParent(t *testing.T) {
	tracer := mocktracer.New()
	parent := tracer.StartSpan("parent")
	h := make(http.Header)
	require.NoError(t, tracer.Inject(parent.Context(), opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(h)))

	headers := make(request.Values)
	for k := range h {
		headers[k] = h.Get(k)
	}

	m, err := NewSpec(tracer).CreateMiddleware(nil)
	require.NoError(t, err)

	_, err = middleware.New(m).Run(testRequest(headers), middleware.HandlerFunc(func(*request.Request) (*http.Response, error) {
		return middleware.NewTextResponse(http.StatusOK, ""), nil
	}))
	require.NoError(t, err)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, DefaultOperationName, spans[0].OperationName)
	assert.Equal(t, parent.Context().(mocktracer.MockSpanContext).SpanID, spans[0].ParentID)
}

func TestSpanOnFailure(t *testing.T) {
	tracer := mocktracer.New()
	m, err := NewSpec(tracer).CreateMiddleware(nil)
	require.NoError(t, err)

	_, err = middleware.New(m).Run(testRequest(nil), middleware.HandlerFunc(func(*request.Request) (*http.Response, error) {
		return nil, failure.NotFound("no such user")
	}))
	require.ErrorIs(t, err, failure.ErrNotFound)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, true, spans[0].Tag("error"))
	assert.Equal(t, string(failure.ErrNotFound), spans[0].Tag(FailureKindTag))
	assert.Len(t, spans[0].Logs(), 1)
}

func TestGlobalTracer(t *testing.T) {
	tracer := mocktracer.New()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	m, err := NewSpec(nil).CreateMiddleware(nil)
	require.NoError(t, err)

	_, err = middleware.New(m).Run(testRequest(nil), middleware.HandlerFunc(func(*request.Request) (*http.Response, error) {
		return middleware.NewTextResponse(http.StatusInternalServerError, ""), nil
	}))
	require.NoError(t, err)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, true, spans[0].Tag("error"))
}

func TestInvalidArgs(t *testing.T) {
	for _, args := range [][]interface{}{{42}, {""}, {"foo", "bar"}} {
		_, err := NewSpec(nil).CreateMiddleware(args)
		assert.Error(t, err)
	}
}
