package routing

import (
	"strings"

	"github.com/dimfeld/httppath"
	"github.com/zalando/routecond/failure"
)

// URLMatcher matches request paths against a compiled url pattern.
type URLMatcher interface {

	// Match tells whether the path matches, and returns the values
	// captured by the pattern.
	Match(path string) (bool, map[string]string)
}

// URLOptions configure how the url patterns are compiled.
type URLOptions struct {

	// Compile creates the matcher of a url pattern. Defaults to
	// CompilePattern.
	Compile func(pattern string) (URLMatcher, error)
}

type segmentKind int

const (
	literalSegment segmentKind = iota
	paramSegment
	freeSegment
)

type segment struct {
	kind  segmentKind
	value string
}

type pathPattern struct {
	any      bool
	segments []segment
}

func splitPath(p string) []string {
	p = strings.Trim(httppath.Clean(p), "/")
	if p == "" {
		return nil
	}

	return strings.Split(p, "/")
}

// CompilePattern compiles a url pattern with the default grammar:
//
//   - a single * matches any path
//   - literal segments match themselves
//   - :name matches a single segment, capturing it as name
//   - *name as the last segment matches the rest of the path, capturing it
//     with a leading slash
//
// Both the pattern and the matched paths are cleaned before comparing, and
// a trailing slash is ignored, e.g. /users/:id matches /users/42/.
func CompilePattern(pattern string) (URLMatcher, error) {
	if pattern == "*" {
		return &pathPattern{any: true}, nil
	}

	parts := splitPath(pattern)
	p := &pathPattern{segments: make([]segment, len(parts))}
	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, ":"):
			p.segments[i] = segment{kind: paramSegment, value: part[1:]}
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return nil, failure.Errorf(
					failure.ErrInvalidConditionSpec,
					"free wildcard param should be last: %s",
					pattern,
				)
			}

			p.segments[i] = segment{kind: freeSegment, value: part[1:]}
		default:
			p.segments[i] = segment{kind: literalSegment, value: part}
		}
	}

	return p, nil
}

func (p *pathPattern) Match(path string) (bool, map[string]string) {
	if p.any {
		return true, nil
	}

	parts := splitPath(path)
	var args map[string]string
	capture := func(name, value string) {
		if name == "" {
			return
		}

		if args == nil {
			args = make(map[string]string)
		}

		args[name] = value
	}

	for i, s := range p.segments {
		switch s.kind {
		case freeSegment:
			if i > len(parts) {
				return false, nil
			}

			capture(s.value, "/"+strings.Join(parts[i:], "/"))
			return true, args
		case paramSegment:
			if i >= len(parts) {
				return false, nil
			}

			capture(s.value, parts[i])
		default:
			if i >= len(parts) || parts[i] != s.value {
				return false, nil
			}
		}
	}

	if len(parts) != len(p.segments) {
		return false, nil
	}

	return true, args
}
