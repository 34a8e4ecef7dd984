/*
Package request implements the normalized, read-only view of an incoming
HTTP request that the routing conditions and the middleware operate on.

A Request is a snapshot of six named sources:

  - query: the query string parameters
  - body: the parsed request body (form fields or a JSON object)
  - cookie: the request cookies
  - files: metadata of the uploaded files
  - server: CGI style server and environment variables
  - headers: the request headers

Every source has two accessors. The first one returns a copy of the whole
mapping, the second one returns a single value, or the optional default when
the key is not set:

	r.Query()                  // all query parameters
	r.QueryValue("page")       // the value of 'page' or nil
	r.QueryValue("page", "1")  // the value of 'page' or "1"

Once constructed, a Request never changes. The With* methods return modified
copies, which allows middleware to forward a transformed request to the rest
of the chain.
*/
package request

import (
	"context"
	"net/http"
	"strings"
)

const (
	// MethodOverrideField is the body field that overrides the request
	// method, regardless of the other method sources.
	MethodOverrideField = "_method"

	// MethodOverrideHeader overrides the raw request method reported by
	// the server.
	MethodOverrideHeader = "X-Http-Method-Override"

	serverRequestMethod = "REQUEST_METHOD"
	serverHTTPS         = "HTTPS"
	serverHost          = "HTTP_HOST"
	serverRequestURI    = "REQUEST_URI"
)

// Values contains the key-value pairs of a single request source.
type Values map[string]interface{}

// Sources holds the raw mappings a Request is constructed from. This is
// the only ingestion point from the host environment.
type Sources struct {
	Query   Values
	Body    Values
	Cookie  Values
	Files   Values
	Server  Values
	Headers Values
}

// Request is an immutable snapshot of an incoming request.
type Request struct {
	query   Values
	body    Values
	cookie  Values
	files   Values
	server  Values
	headers Values
	params  map[string]string
	ctx     context.Context
}

// New creates a Request from the raw sources. The mappings are copied, later
// changes to them don't affect the Request. Header keys are canonicalized.
func New(s Sources) *Request {
	return &Request{
		query:   s.Query.copy(),
		body:    s.Body.copy(),
		cookie:  s.Cookie.copy(),
		files:   s.Files.copy(),
		server:  s.Server.copy(),
		headers: canonicalHeaders(s.Headers),
	}
}

// Get returns the value stored under key, or the first default value, or
// nil.
func (v Values) Get(key string, defaultValue ...interface{}) interface{} {
	if val, ok := v[key]; ok {
		return val
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return nil
}

// String returns the value stored under key when it is a string. When the
// value is a list of strings, it returns the first item.
func (v Values) String(key string) (string, bool) {
	switch val := v[key].(type) {
	case string:
		return val, true
	case []string:
		if len(val) > 0 {
			return val[0], true
		}
	case []interface{}:
		if len(val) > 0 {
			s, ok := val[0].(string)
			return s, ok
		}
	}

	return "", false
}

func (v Values) copy() Values {
	c := make(Values, len(v))
	for k, val := range v {
		c[k] = copyValue(val)
	}

	return c
}

func copyValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case Values:
		return vv.copy()
	case map[string]interface{}:
		return Values(vv).copy()
	case []string:
		return append([]string(nil), vv...)
	case []interface{}:
		c := make([]interface{}, len(vv))
		for i := range vv {
			c[i] = copyValue(vv[i])
		}

		return c
	default:
		return v
	}
}

func canonicalHeaders(h Values) Values {
	c := make(Values, len(h))
	for k, v := range h {
		c[http.CanonicalHeaderKey(k)] = copyValue(v)
	}

	return c
}

// Query returns all the query parameters.
func (r *Request) Query() Values { return r.query.copy() }

// QueryValue returns a single query parameter.
func (r *Request) QueryValue(key string, defaultValue ...interface{}) interface{} {
	return copyValue(r.query.Get(key, defaultValue...))
}

// Body returns all the body fields.
func (r *Request) Body() Values { return r.body.copy() }

// BodyValue returns a single body field.
func (r *Request) BodyValue(key string, defaultValue ...interface{}) interface{} {
	return copyValue(r.body.Get(key, defaultValue...))
}

// Cookie returns all the cookies.
func (r *Request) Cookie() Values { return r.cookie.copy() }

// CookieValue returns a single cookie value.
func (r *Request) CookieValue(key string, defaultValue ...interface{}) interface{} {
	return copyValue(r.cookie.Get(key, defaultValue...))
}

// Files returns the metadata of all the uploaded files.
func (r *Request) Files() Values { return r.files.copy() }

// FilesValue returns the metadata of a single uploaded file.
func (r *Request) FilesValue(key string, defaultValue ...interface{}) interface{} {
	return copyValue(r.files.Get(key, defaultValue...))
}

// Server returns all the server variables.
func (r *Request) Server() Values { return r.server.copy() }

// ServerValue returns a single server variable.
func (r *Request) ServerValue(key string, defaultValue ...interface{}) interface{} {
	return copyValue(r.server.Get(key, defaultValue...))
}

// Headers returns all the request headers, with canonical keys.
func (r *Request) Headers() Values { return r.headers.copy() }

// HeadersValue returns a single header. The lookup is case-insensitive.
func (r *Request) HeadersValue(key string, defaultValue ...interface{}) interface{} {
	return copyValue(r.headers.Get(http.CanonicalHeaderKey(key), defaultValue...))
}

// Header returns the value of a header as a string, or an empty string.
func (r *Request) Header(key string) string {
	s, _ := r.headers.String(http.CanonicalHeaderKey(key))
	return s
}

// Method returns the effective HTTP method in upper case. The method is
// resolved from the following sources, the first one set wins:
//
//  1. the _method body field
//  2. the X-HTTP-METHOD-OVERRIDE header
//  3. the REQUEST_METHOD server variable
//  4. GET
func (r *Request) Method() string {
	if m, ok := r.body.String(MethodOverrideField); ok && m != "" {
		return strings.ToUpper(m)
	}

	if m := r.Header(MethodOverrideHeader); m != "" {
		return strings.ToUpper(m)
	}

	if m, ok := r.server.String(serverRequestMethod); ok && m != "" {
		return strings.ToUpper(m)
	}

	return http.MethodGet
}

func (r *Request) isMethod(m string) bool {
	return strings.EqualFold(r.Method(), m)
}

// IsGet tells whether the effective method is GET.
func (r *Request) IsGet() bool { return r.isMethod(http.MethodGet) }

// IsHead tells whether the effective method is HEAD.
func (r *Request) IsHead() bool { return r.isMethod(http.MethodHead) }

// IsPost tells whether the effective method is POST.
func (r *Request) IsPost() bool { return r.isMethod(http.MethodPost) }

// IsPut tells whether the effective method is PUT.
func (r *Request) IsPut() bool { return r.isMethod(http.MethodPut) }

// IsPatch tells whether the effective method is PATCH.
func (r *Request) IsPatch() bool { return r.isMethod(http.MethodPatch) }

// IsDelete tells whether the effective method is DELETE.
func (r *Request) IsDelete() bool { return r.isMethod(http.MethodDelete) }

// IsOptions tells whether the effective method is OPTIONS.
func (r *Request) IsOptions() bool { return r.isMethod(http.MethodOptions) }

// IsReadVerb tells whether the request uses a method that doesn't modify
// state: GET, HEAD or OPTIONS.
func (r *Request) IsReadVerb() bool {
	return r.IsGet() || r.IsHead() || r.IsOptions()
}

// URL returns the absolute url of the request: the scheme, the host and the
// request uri. The scheme is https only when the HTTPS server variable is
// set to 'on'.
func (r *Request) URL() string {
	scheme := "http"
	if https, _ := r.server.String(serverHTTPS); https == "on" {
		scheme = "https"
	}

	host, _ := r.server.String(serverHost)
	uri, _ := r.server.String(serverRequestURI)
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}

	return scheme + "://" + host + uri
}

// Path returns the path part of the request uri, without the query.
func (r *Request) Path() string {
	uri, _ := r.server.String(serverRequestURI)
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}

	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}

	return uri
}

// Context returns the context of the request. It is never nil.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}

	return r.ctx
}

func (r *Request) shallow() *Request {
	c := *r
	return &c
}

// WithContext returns a copy of the request with ctx set as its context.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic("nil context")
	}

	c := r.shallow()
	c.ctx = ctx
	return c
}

// Params returns the arguments captured by the condition of the matched
// route, e.g. the wildcards of a url pattern.
func (r *Request) Params() map[string]string {
	p := make(map[string]string, len(r.params))
	for k, v := range r.params {
		p[k] = v
	}

	return p
}

// Param returns a single captured argument, or an empty string.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// WithParams returns a copy of the request with the captured arguments set.
func (r *Request) WithParams(params map[string]string) *Request {
	c := r.shallow()
	c.params = make(map[string]string, len(params))
	for k, v := range params {
		c.params[k] = v
	}

	return c
}

// WithHeader returns a copy of the request with the header set to value.
func (r *Request) WithHeader(key, value string) *Request {
	c := r.shallow()
	c.headers = r.headers.copy()
	c.headers[http.CanonicalHeaderKey(key)] = value
	return c
}

// WithBody returns a copy of the request with the body field set to value.
func (r *Request) WithBody(key string, value interface{}) *Request {
	c := r.shallow()
	c.body = r.body.copy()
	c.body[key] = copyValue(value)
	return c
}
