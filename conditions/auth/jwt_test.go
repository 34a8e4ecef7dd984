package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"

	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/routing"
)

func token(t *testing.T, claims jwt.MapClaims) string {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func TestCreate(t *testing.T) {
	for _, args := range [][]interface{}{
		nil,
		{"iss"},
		{"iss", "foo", "sub"},
		{"iss", 42},
	} {
		if _, err := NewClaims().Create(args); err == nil {
			t.Errorf("failed to fail: %v", args)
		}
	}
}

func TestSatisfied(t *testing.T) {
	claims := jwt.MapClaims{
		"iss":   "https://auth.example.org",
		"email": "jdoe@example.org",
		"aud":   []string{"shop", "cms"},
	}

	for _, ti := range []struct {
		msg      string
		spec     routing.ConditionSpec
		args     []interface{}
		header   string
		expected bool
	}{{
		msg:    "no header",
		spec:   NewClaims(),
		args:   []interface{}{"iss", "https://auth.example.org"},
		header: "",
	}, {
		msg:    "not a bearer token",
		spec:   NewClaims(),
		args:   []interface{}{"iss", "https://auth.example.org"},
		header: "Basic Zm9vOmJhcg==",
	}, {
		msg:    "invalid token",
		spec:   NewClaims(),
		args:   []interface{}{"iss", "https://auth.example.org"},
		header: "Bearer foo.bar.baz",
	}, {
		msg:      "all match",
		spec:     NewClaims(),
		args:     []interface{}{"iss", "https://auth.example.org", "email", "jdoe@example.org"},
		header:   "Bearer " + token(t, claims),
		expected: true,
	}, {
		msg:      "list claim",
		spec:     NewClaims(),
		args:     []interface{}{"aud", "cms"},
		header:   "Bearer " + token(t, claims),
		expected: true,
	}, {
		msg:    "one does not match",
		spec:   NewClaims(),
		args:   []interface{}{"iss", "https://auth.example.org", "email", "other@example.org"},
		header: "Bearer " + token(t, claims),
	}, {
		msg:      "any matches",
		spec:     NewClaimsAny(),
		args:     []interface{}{"iss", "https://accounts.google.com", "iss", "https://auth.example.org"},
		header:   "Bearer " + token(t, claims),
		expected: true,
	}, {
		msg:    "none matches",
		spec:   NewClaimsAny(),
		args:   []interface{}{"iss", "https://accounts.google.com", "sub", "foo"},
		header: "Bearer " + token(t, claims),
	}} {
		t.Run(ti.msg, func(t *testing.T) {
			c, err := ti.spec.Create(ti.args)
			if err != nil {
				t.Fatal(err)
			}

			r := request.New(request.Sources{Headers: request.Values{"Authorization": ti.header}})
			if c.Satisfied(r) != ti.expected {
				t.Error("failed to match as expected")
			}
		})
	}
}
