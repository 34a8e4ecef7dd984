package metrics

import "net/http"

const unknownMethod = "_unknownmethod_"

var measuredMethods = map[string]bool{
	http.MethodOptions: true,
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodTrace:   true,
	http.MethodConnect: true,
}

// the method label is limited to the standard methods, to keep the
// cardinality of the serve metrics bounded
func measuredMethod(m string) string {
	if measuredMethods[m] {
		return m
	}

	return unknownMethod
}
