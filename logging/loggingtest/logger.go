// Package loggingtest implements a logger that records the entries, and
// allows to wait for expected messages in tests.
package loggingtest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// TestLogger implements logging.Logger. The entries logged after Close are
// discarded.
type TestLogger struct {
	mu      sync.Mutex
	entries []string
	changed chan struct{}
	closed  bool
}

var ErrWaitTimeout = errors.New("timeout")

func New() *TestLogger {
	return &TestLogger{changed: make(chan struct{})}
}

func (tl *TestLogger) save(e string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.closed {
		return
	}

	tl.entries = append(tl.entries, e)
	close(tl.changed)
	tl.changed = make(chan struct{})
}

// returns the number of entries containing exp, and a channel closed on
// the next entry
func (tl *TestLogger) match(exp string) (int, <-chan struct{}) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	var n int
	for _, e := range tl.entries {
		if strings.Contains(e, exp) {
			n++
		}
	}

	return n, tl.changed
}

// WaitForN waits until n entries containing exp were logged, or the
// timeout expires.
func (tl *TestLogger) WaitForN(exp string, n int, to time.Duration) error {
	timeout := time.After(to)
	for {
		found, changed := tl.match(exp)
		if found >= n {
			return nil
		}

		select {
		case <-changed:
		case <-timeout:
			return ErrWaitTimeout
		}
	}
}

// WaitFor waits until an entry containing exp was logged, or the timeout
// expires.
func (tl *TestLogger) WaitFor(exp string, to time.Duration) error {
	return tl.WaitForN(exp, 1, to)
}

// Count returns the number of the recorded entries containing exp.
func (tl *TestLogger) Count(exp string) int {
	n, _ := tl.match(exp)
	return n
}

// Reset drops the recorded entries.
func (tl *TestLogger) Reset() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.entries = nil
}

func (tl *TestLogger) Close() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.closed = true
}

func (tl *TestLogger) Error(a ...interface{})            { tl.save(fmt.Sprint(a...)) }
func (tl *TestLogger) Errorf(f string, a ...interface{}) { tl.save(fmt.Sprintf(f, a...)) }
func (tl *TestLogger) Warn(a ...interface{})             { tl.save(fmt.Sprint(a...)) }
func (tl *TestLogger) Warnf(f string, a ...interface{})  { tl.save(fmt.Sprintf(f, a...)) }
func (tl *TestLogger) Info(a ...interface{})             { tl.save(fmt.Sprint(a...)) }
func (tl *TestLogger) Infof(f string, a ...interface{})  { tl.save(fmt.Sprintf(f, a...)) }
func (tl *TestLogger) Debug(a ...interface{})            { tl.save(fmt.Sprint(a...)) }
func (tl *TestLogger) Debugf(f string, a ...interface{}) { tl.save(fmt.Sprintf(f, a...)) }
