package middleware

import "time"

// IntArg returns an integer argument. Numbers decoded from YAML or JSON
// documents are accepted both as int and as float64.
func IntArg(a interface{}) (int, error) {
	switch v := a.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, ErrInvalidMiddlewareParameters
		}

		return int(v), nil
	default:
		return 0, ErrInvalidMiddlewareParameters
	}
}

// StringArg returns a string argument.
func StringArg(a interface{}) (string, error) {
	s, ok := a.(string)
	if !ok {
		return "", ErrInvalidMiddlewareParameters
	}

	return s, nil
}

// DurationArg returns a duration argument, accepted as a duration, as a
// string parsable by time.ParseDuration or as a number of milliseconds.
func DurationArg(a interface{}) (time.Duration, error) {
	switch v := a.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, ErrInvalidMiddlewareParameters
		}

		return d, nil
	default:
		ms, err := IntArg(a)
		if err != nil {
			return 0, err
		}

		return time.Duration(ms) * time.Millisecond, nil
	}
}
