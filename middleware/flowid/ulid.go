package flowid

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

// Generator creates flow ids.
type Generator interface {
	// Generate returns a new flow id, or an error in case of failure.
	Generate() (string, error)
}

type ulidGenerator struct {
	sync.Mutex
	r io.Reader
}

// NewULIDGenerator creates a generator of ULID flow ids, with a
// pseudo-random entropy source.
func NewULIDGenerator() Generator {
	return NewULIDGeneratorWithEntropy(rand.New(rand.NewSource(time.Now().UTC().UnixNano()))) // #nosec
}

// NewULIDGeneratorWithEntropy creates a generator of ULID flow ids with
// a custom entropy source. It is safe for concurrent use even if r is
// not.
func NewULIDGeneratorWithEntropy(r io.Reader) Generator {
	return &ulidGenerator{r: r}
}

func (g *ulidGenerator) Generate() (string, error) {
	g.Lock()
	id, err := ulid.New(ulid.Now(), g.r)
	g.Unlock()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
