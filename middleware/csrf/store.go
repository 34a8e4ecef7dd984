package csrf

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zalando/routecond/request"
	"github.com/zalando/routecond/secrets"
)

// DefaultMaxAge is the validity of the tokens when not set otherwise.
const DefaultMaxAge = 12 * time.Hour

// Store looks up, validates and generates the tokens.
type Store interface {

	// TokenForRequest returns the token sent with the request, or an
	// empty string.
	TokenForRequest(r *request.Request) string

	// IsValid tells whether a token was generated by the store and was
	// not expired.
	IsValid(token string) bool

	// Generate creates a new token.
	Generate() (string, error)
}

// SealedStore generates tokens of a random id and the time of creation,
// encrypted with the secrets of an Encrypter. It doesn't need to persist
// the tokens, and the tokens are valid for all the instances sharing the
// same secrets.
type SealedStore struct {
	encrypter *secrets.Encrypter
	maxAge    time.Duration
	now       func() time.Time
}

// NewSealedStore creates a store. When maxAge is not positive,
// DefaultMaxAge is used.
func NewSealedStore(e *secrets.Encrypter, maxAge time.Duration) *SealedStore {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	return &SealedStore{encrypter: e, maxAge: maxAge, now: time.Now}
}

// TokenForRequest returns the token from the _csrf body field, or from the
// X-Csrf-Token header.
func (s *SealedStore) TokenForRequest(r *request.Request) string {
	if t, ok := r.BodyValue(TokenField).(string); ok && t != "" {
		return t
	}

	return r.Header(TokenHeader)
}

func (s *SealedStore) Generate() (string, error) {
	payload := uuid.NewString() + "|" + strconv.FormatInt(s.now().Unix(), 10)
	sealed, err := s.encrypter.Encrypt([]byte(payload))
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (s *SealedStore) open(token string) (time.Time, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, err
	}

	payload, err := s.encrypter.Decrypt(sealed)
	if err != nil {
		return time.Time{}, err
	}

	id, created, ok := strings.Cut(string(payload), "|")
	if !ok {
		return time.Time{}, errors.New("invalid token payload")
	}

	if _, err := uuid.Parse(id); err != nil {
		return time.Time{}, err
	}

	sec, err := strconv.ParseInt(created, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(sec, 0), nil
}

func (s *SealedStore) IsValid(token string) bool {
	if token == "" {
		return false
	}

	created, err := s.open(token)
	if err != nil {
		return false
	}

	age := s.now().Sub(created)
	return age >= -time.Minute && age <= s.maxAge
}
