// Package secrets provides symmetric encryption with rotatable secrets.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/scrypt"
)

var errNoCiphers = errors.New("no ciphers which can be used")

// SecretSource provides the secrets to derive the encryption keys from.
// The first secret is used for encryption, all of them for decryption.
type SecretSource interface {
	GetSecret() ([][]byte, error)
}

type staticSecretSource [][]byte

type fileSecretSource struct {
	fileName string
}

// StaticSource returns a secret source with fixed secrets.
func StaticSource(secrets ...string) SecretSource {
	s := make(staticSecretSource, len(secrets))
	for i, si := range secrets {
		s[i] = []byte(si)
	}

	return s
}

func (s staticSecretSource) GetSecret() ([][]byte, error) {
	if len(s) == 0 {
		return nil, errors.New("no secrets")
	}

	for i, si := range s {
		if len(si) == 0 {
			return nil, fmt.Errorf("secret %d is empty", i)
		}
	}

	return s, nil
}

// FileSource returns a secret source reading comma separated secrets
// from a file, every time when the ciphers are refreshed.
func FileSource(fileName string) SecretSource {
	return &fileSecretSource{fileName: fileName}
}

func (fss *fileSecretSource) GetSecret() ([][]byte, error) {
	contents, err := os.ReadFile(fss.fileName)
	if err != nil {
		return nil, err
	}

	secrets := strings.Split(strings.TrimSpace(string(contents)), ",")
	byteSecrets := make([][]byte, len(secrets))
	for i, s := range secrets {
		byteSecrets[i] = []byte(s)
		if len(byteSecrets[i]) == 0 {
			return nil, fmt.Errorf("file %s secret %d is empty", fss.fileName, i)
		}
	}

	return byteSecrets, nil
}

// Encrypter seals and opens data with AES-GCM, using keys derived with
// scrypt from the secrets of its source.
type Encrypter struct {
	mu           sync.RWMutex
	cipherSuites []cipher.AEAD
	secretSource SecretSource
	closer       chan struct{}
	closeOnce    sync.Once
	closedHook   chan struct{}
}

// NewEncrypter creates an Encrypter and initializes its ciphers from the
// source.
func NewEncrypter(s SecretSource) (*Encrypter, error) {
	e := &Encrypter{
		secretSource: s,
		closer:       make(chan struct{}),
	}

	if err := e.RefreshCiphers(); err != nil {
		return nil, fmt.Errorf("failed to read secrets from secret source: %w", err)
	}

	return e, nil
}

func (e *Encrypter) createNonce(c cipher.AEAD) ([]byte, error) {
	nonce := make([]byte, c.NonceSize())
	if _, err := io.ReadFull(crand.Reader, nonce); err != nil {
		return nil, err
	}

	return nonce, nil
}

// Encrypt encrypts given plaintext
func (e *Encrypter) Encrypt(plaintext []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.cipherSuites) == 0 {
		return nil, errNoCiphers
	}

	c := e.cipherSuites[0]
	nonce, err := e.createNonce(c)
	if err != nil {
		return nil, err
	}

	return c.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt decrypts given cipher text
func (e *Encrypter) Decrypt(cipherText []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.cipherSuites) == 0 {
		return nil, errNoCiphers
	}

	for _, c := range e.cipherSuites {
		nonceSize := c.NonceSize()
		if len(cipherText) < nonceSize {
			return nil, fmt.Errorf("failed to decrypt, ciphertext too short %d", len(cipherText))
		}

		nonce, input := cipherText[:nonceSize], cipherText[nonceSize:]
		data, err := c.Open(nil, nonce, input, nil)
		if err == nil {
			return data, nil
		}
	}

	return nil, errors.New("none of the ciphers can decrypt the data")
}

// RefreshCiphers rotates the list of cipher.AEAD initialized with
// SecretSource from the Encrypter.
func (e *Encrypter) RefreshCiphers() error {
	secrets, err := e.secretSource.GetSecret()
	if err != nil {
		return err
	}

	suites := make([]cipher.AEAD, len(secrets))
	for i, s := range secrets {
		key, err := scrypt.Key(s, []byte{}, 1<<15, 8, 1, 32)
		if err != nil {
			return fmt.Errorf("failed to create key: %w", err)
		}

		block, err := aes.NewCipher(key)
		if err != nil {
			return fmt.Errorf("failed to create new cipher: %w", err)
		}

		aesgcm, err := cipher.NewGCM(block)
		if err != nil {
			return fmt.Errorf("failed to create new GCM: %w", err)
		}

		suites[i] = aesgcm
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cipherSuites = suites
	return nil
}

// RunCipherRefresher refreshes the ciphers periodically, until the
// Encrypter is closed.
func (e *Encrypter) RunCipherRefresher(refreshInterval time.Duration) {
	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-e.closer:
				if e.closedHook != nil {
					close(e.closedHook)
				}

				return
			case <-ticker.C:
				log.Debug("started refresh of ciphers")
				if err := e.RefreshCiphers(); err != nil {
					log.Errorf("failed to refresh the ciphers: %v", err)
				}

				log.Debug("finished refresh of ciphers")
			}
		}
	}()
}

// Close stops the cipher refresher.
func (e *Encrypter) Close() {
	e.closeOnce.Do(func() { close(e.closer) })
}
