package csrf

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalando/routecond/failure"
	"github.com/zalando/routecond/middleware"
	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/secrets"
)

func testStore(t *testing.T, secret string) *SealedStore {
	e, err := secrets.NewEncrypter(secrets.StaticSource(secret))
	require.NoError(t, err)
	return NewSealedStore(e, time.Hour)
}

type mockStore struct {
	valid       bool
	generated   string
	generateErr error
	lookups     int
}

func (s *mockStore) TokenForRequest(*request.Request) string {
	s.lookups++
	return "token"
}

func (s *mockStore) IsValid(string) bool       { return s.valid }
func (s *mockStore) Generate() (string, error) { return s.generated, s.generateErr }

func TestSealedStore(t *testing.T) {
	s := testStore(t, "secret")
	token, err := s.Generate()
	require.NoError(t, err)
	assert.True(t, s.IsValid(token))

	other, err := s.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	assert.False(t, s.IsValid(""))
	assert.False(t, s.IsValid("not a token"))
	assert.False(t, s.IsValid(token[:len(token)-2]))
	assert.False(t, testStore(t, "other secret").IsValid(token))
}

func TestSealedStoreExpiry(t *testing.T) {
	s := testStore(t, "secret")
	now := time.Now()
	s.now = func() time.Time { return now }
	token, err := s.Generate()
	require.NoError(t, err)

	s.now = func() time.Time { return now.Add(59 * time.Minute) }
	assert.True(t, s.IsValid(token))

	s.now = func() time.Time { return now.Add(61 * time.Minute) }
	assert.False(t, s.IsValid(token))
}

func TestTokenForRequest(t *testing.T) {
	s := testStore(t, "secret")
	assert.Equal(t, "from-body", s.TokenForRequest(request.New(request.Sources{
		Body:    request.Values{"_csrf": "from-body"},
		Headers: request.Values{"X-CSRF-Token": "from-header"},
	})))

	assert.Equal(t, "from-header", s.TokenForRequest(request.New(request.Sources{
		Headers: request.Values{"x-csrf-token": "from-header"},
	})))

	assert.Equal(t, "", s.TokenForRequest(request.New(request.Sources{})))
}

func serveToken(r *request.Request) (*http.Response, error) {
	return middleware.NewTextResponse(http.StatusOK, Token(r)), nil
}

func TestInvalidTokenFails(t *testing.T) {
	store := &mockStore{}
	var called bool
	_, err := New(store).Handle(request.New(request.Sources{}), func(*request.Request) (*http.Response, error) {
		called = true
		return nil, nil
	})

	assert.ErrorIs(t, err, failure.ErrInvalidCsrfToken)
	assert.Equal(t, failure.ErrInvalidCsrfToken, failure.KindOf(err))
	assert.False(t, called)
	assert.Equal(t, 1, store.lookups)
}

func TestValidTokenRotates(t *testing.T) {
	store := &mockStore{valid: true, generated: "next-token"}
	rsp, err := New(store).Handle(request.New(request.Sources{}), serveToken)
	require.NoError(t, err)
	assert.Equal(t, "next-token", rsp.Header.Get(TokenHeader))

	b := make([]byte, 64)
	n, _ := rsp.Body.Read(b)
	assert.Equal(t, "next-token", string(b[:n]))
}

func TestGenerateFails(t *testing.T) {
	errGenerate := errors.New("no entropy")
	store := &mockStore{valid: true, generateErr: errGenerate}
	_, err := New(store).Handle(request.New(request.Sources{}), serveToken)
	assert.ErrorIs(t, err, errGenerate)
}

func TestRoundTrip(t *testing.T) {
	store := testStore(t, "secret")
	issue, err := NewSpec(store).CreateMiddleware([]interface{}{"issue"})
	require.NoError(t, err)

	rsp, err := issue.Handle(request.New(request.Sources{}), serveToken)
	require.NoError(t, err)
	token := rsp.Header.Get(TokenHeader)
	require.NotEmpty(t, token)

	check, err := NewSpec(store).CreateMiddleware(nil)
	require.NoError(t, err)

	rsp, err = check.Handle(request.New(request.Sources{
		Server: request.Values{"REQUEST_METHOD": "POST"},
		Body:   request.Values{"_csrf": token},
	}), serveToken)
	require.NoError(t, err)
	assert.NotEqual(t, token, rsp.Header.Get(TokenHeader))

	_, err = check.Handle(request.New(request.Sources{
		Server: request.Values{"REQUEST_METHOD": "POST"},
	}), serveToken)
	assert.ErrorIs(t, err, failure.ErrInvalidCsrfToken)
}

func TestCreateMiddleware(t *testing.T) {
	s := NewSpec(&mockStore{})
	assert.Equal(t, Name, s.Name())

	for _, args := range [][]interface{}{
		{"foo"},
		{42},
		{"issue", "foo"},
	} {
		_, err := s.CreateMiddleware(args)
		assert.ErrorIs(t, err, middleware.ErrInvalidMiddlewareParameters)
	}
}
