// Package goroutine launches background work with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// SafeGo runs fn in a goroutine. A panic is logged with its stack instead of
// crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go run(log, name, fn)
}

// Tracker runs goroutines like SafeGo and lets shutdown wait for them.
type Tracker struct {
	log logger.Interface
	wg  sync.WaitGroup
}

func NewTracker(log logger.Interface) *Tracker {
	return &Tracker{log: log}
}

func (t *Tracker) Go(name string, fn func()) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		run(t.log, name, fn)
	}()
}

// Wait blocks until every tracked goroutine has returned.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func run(log logger.Interface, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
