package config

import (
	"errors"
	"strings"
)

var errEmptySecret = errors.New("empty secret")

// secretsFlag collects the values of a repeated flag. The string
// representation doesn't reveal the values.
type secretsFlag []string

func (f *secretsFlag) String() string {
	if f == nil || len(*f) == 0 {
		return ""
	}

	return strings.Repeat("*", len(*f))
}

func (f *secretsFlag) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errEmptySecret
	}

	*f = append(*f, value)
	return nil
}

func (f *secretsFlag) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var values []string
	if err := unmarshal(&values); err != nil {
		return err
	}

	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return errEmptySecret
		}
	}

	*f = values
	return nil
}
