package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultMaxBodyBytes is used when Options.MaxBodyBytes is not set.
const DefaultMaxBodyBytes = 10 << 20

// ErrBodyTooLarge is returned when the request body exceeds the configured
// limit.
var ErrBodyTooLarge = errors.New("request body too large")

// Options for FromHTTP.
type Options struct {

	// MaxBodyBytes limits how much of the request body is read when parsing
	// form fields, multipart uploads or JSON. Defaults to
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// FileInfo contains the metadata of an uploaded file. The content of the
// file is not part of the request snapshot.
type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
}

func flatten(m map[string][]string) Values {
	v := make(Values, len(m))
	for k, vals := range m {
		switch len(vals) {
		case 0:
			v[k] = ""
		case 1:
			v[k] = vals[0]
		default:
			v[k] = append([]string(nil), vals...)
		}
	}

	return v
}

func cookies(r *http.Request) Values {
	v := make(Values)
	for _, c := range r.Cookies() {
		if _, ok := v[c.Name]; ok {
			continue
		}

		v[c.Name] = c.Value
	}

	return v
}

func serverVars(r *http.Request) Values {
	v := Values{
		serverRequestMethod: r.Method,
		serverRequestURI:    r.RequestURI,
		serverHost:          r.Host,
		"REMOTE_ADDR":       r.RemoteAddr,
		"SERVER_PROTOCOL":   r.Proto,
		"QUERY_STRING":      r.URL.RawQuery,
	}

	// absolute form request targets are reduced to the path and query
	if !strings.HasPrefix(r.RequestURI, "/") {
		v[serverRequestURI] = r.URL.RequestURI()
	}

	if r.TLS != nil {
		v[serverHTTPS] = "on"
	}

	for k := range r.Header {
		name := "HTTP_" + strings.ToUpper(strings.ReplaceAll(k, "-", "_"))
		if name == serverHost {
			continue
		}

		v[name] = r.Header.Get(k)
	}

	return v
}

func jsonBody(b []byte) (Values, error) {
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("invalid json body")
	}

	v := make(Values)
	result := gjson.ParseBytes(b)
	if !result.IsObject() {
		return v, nil
	}

	result.ForEach(func(key, value gjson.Result) bool {
		v[key.String()] = value.Value()
		return true
	})

	return v, nil
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}

	return mt
}

func readBody(r *http.Request, maxBytes int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}

	if int64(len(b)) > maxBytes {
		return nil, ErrBodyTooLarge
	}

	return b, nil
}

func bodyError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return ErrBodyTooLarge
	}

	return err
}

func body(r *http.Request, maxBytes int64) (Values, Values, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return Values{}, Values{}, nil
	}

	switch mediaType(r) {
	case "application/json":
		b, err := readBody(r, maxBytes)
		if err != nil {
			return nil, nil, err
		}

		r.Body = io.NopCloser(bytes.NewReader(b))
		if len(bytes.TrimSpace(b)) == 0 {
			return Values{}, Values{}, nil
		}

		v, err := jsonBody(b)
		return v, Values{}, err
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, nil, bodyError(err)
		}

		files := make(Values)
		for name, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}

			h := headers[0]
			files[name] = FileInfo{
				Name:        h.Filename,
				Size:        h.Size,
				ContentType: h.Header.Get("Content-Type"),
			}
		}

		return flatten(r.MultipartForm.Value), files, nil
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
		if err := r.ParseForm(); err != nil {
			return nil, nil, bodyError(err)
		}

		return flatten(r.PostForm), Values{}, nil
	default:
		return Values{}, Values{}, nil
	}
}

// FromHTTP creates a Request from a net/http request. It parses the body
// when it contains form fields, a multipart upload or a JSON object.
func FromHTTP(r *http.Request, o Options) (*Request, error) {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}

	b, files, err := body(r, o.MaxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse request body: %w", err)
	}

	req := New(Sources{
		Query:   flatten(r.URL.Query()),
		Body:    b,
		Cookie:  cookies(r),
		Files:   files,
		Server:  serverVars(r),
		Headers: flatten(r.Header),
	})

	req.ctx = r.Context()
	return req, nil
}
