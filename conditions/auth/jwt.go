/*
Package auth implements conditions to match based on the claims of the
JWT token found in the Authorization header of the request.

The token is decoded without verifying its signature, the conditions are
meant for routing and not for access control.

Examples:

	// all the key value pairs have to match
	[jwt_claims, iss, "https://accounts.google.com", email, "jdoe@example.org"]

	// one of the key value pairs has to match
	[jwt_claims_any, iss, "https://accounts.google.com", iss, "https://auth.example.org"]
*/
package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/zalando/routecond/conditions"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

const (
	authHeaderName   = "Authorization"
	authHeaderPrefix = "Bearer "
)

type matchBehavior int

const (
	matchBehaviorAll matchBehavior = iota
	matchBehaviorAny
)

type (
	spec struct {
		name          string
		matchBehavior matchBehavior
	}

	condition struct {
		kv            map[string][]string
		matchBehavior matchBehavior
		parser        *jwt.Parser
	}
)

// NewClaims creates the jwt_claims condition specification.
func NewClaims() routing.ConditionSpec {
	return &spec{name: conditions.JWTClaimsName, matchBehavior: matchBehaviorAll}
}

// NewClaimsAny creates the jwt_claims_any condition specification.
func NewClaimsAny() routing.ConditionSpec {
	return &spec{name: conditions.JWTClaimsAnyName, matchBehavior: matchBehaviorAny}
}

func (s *spec) Name() string {
	return s.name
}

func (s *spec) Create(args []interface{}) (routing.Condition, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, conditions.ErrInvalidConditionParameters
	}

	sargs, err := conditions.StringArgs(args)
	if err != nil {
		return nil, err
	}

	kv := make(map[string][]string)
	for i := 0; i < len(sargs); i += 2 {
		kv[sargs[i]] = append(kv[sargs[i]], sargs[i+1])
	}

	return &condition{
		kv:            kv,
		matchBehavior: s.matchBehavior,
		parser:        jwt.NewParser(),
	}, nil
}

func (c *condition) claims(r *request.Request) (jwt.MapClaims, bool) {
	ahead := r.Header(authHeaderName)
	if !strings.HasPrefix(ahead, authHeaderPrefix) {
		return nil, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := c.parser.ParseUnverified(strings.TrimPrefix(ahead, authHeaderPrefix), claims); err != nil {
		return nil, false
	}

	return claims, true
}

// claim values are matched when they are strings or, like the aud claim,
// lists of strings
func claimMatches(claims jwt.MapClaims, key, expected string) bool {
	for _, v := range conditions.ValueStrings(claims[key]) {
		if v == expected {
			return true
		}
	}

	return false
}

func (c *condition) Satisfied(r *request.Request) bool {
	claims, ok := c.claims(r)
	if !ok {
		return false
	}

	switch c.matchBehavior {
	case matchBehaviorAll:
		for key, values := range c.kv {
			for _, v := range values {
				if !claimMatches(claims, key, v) {
					return false
				}
			}
		}

		return true
	case matchBehaviorAny:
		for key, values := range c.kv {
			for _, v := range values {
				if claimMatches(claims, key, v) {
					return true
				}
			}
		}

		return false
	default:
		return false
	}
}
