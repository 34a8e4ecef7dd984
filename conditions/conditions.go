// Package conditions contains the names and the common errors of the
// registered condition types. The implementations live in the
// subpackages, and the builtin subpackage provides a registry with all of
// them.
package conditions

import "errors"

// ErrInvalidConditionParameters is used in case of invalid condition
// parameters.
var ErrInvalidConditionParameters = errors.New("invalid condition parameters")

// All the registered condition types provided by the subpackages.
const (
	MethodName         = "method"
	HeaderName         = "header"
	AjaxName           = "ajax"
	CookieName         = "cookie"
	QueryVarName       = "query_var"
	HostName           = "host"
	AfterName          = "after"
	BeforeName         = "before"
	BetweenName        = "between"
	CronName           = "cron"
	SourceName         = "source"
	SourceFromLastName = "source_from_last"
	JWTClaimsName      = "jwt_claims"
	JWTClaimsAnyName   = "jwt_claims_any"
	ExprName           = "expr"
	TrueName           = "true"
	FalseName          = "false"
)

// StringArgs returns the arguments as strings, or fails when any of them
// is not a string.
func StringArgs(args []interface{}) ([]string, error) {
	s := make([]string, 0, len(args))
	for _, a := range args {
		as, ok := a.(string)
		if !ok {
			return nil, ErrInvalidConditionParameters
		}

		s = append(s, as)
	}

	return s, nil
}

// ValueStrings returns the string values of a request source value, that
// can be either a single string or a list.
func ValueStrings(v interface{}) []string {
	switch vt := v.(type) {
	case string:
		return []string{vt}
	case []string:
		return vt
	case []interface{}:
		var s []string
		for _, vi := range vt {
			if vs, ok := vi.(string); ok {
				s = append(s, vs)
			}
		}

		return s
	default:
		return nil
	}
}
