// Package mocks provides shared test doubles for stagerun packages.
package mocks

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AndreyAkinshin/stagerun/internal/model"
)

// Invoker implements runner.Invoker for testing.
// Use NewInvoker() to create instances with a fluent builder API.
type Invoker struct {
	statuses map[string]model.Status
	fallback model.Status
	delay    time.Duration

	// InvokeFunc is called by Invoke when set, replacing the status table.
	InvokeFunc func(ctx context.Context, file string) model.Status

	// Execution tracking (thread-safe)
	invokeCount int32
	inFlight    int32
	maxInFlight int32
	mu          sync.Mutex
	order       []string
}

// NewInvoker creates a mock compiler that exits 0 for every file.
func NewInvoker() *Invoker {
	return &Invoker{
		statuses: make(map[string]model.Status),
		fallback: model.Exited(0),
	}
}

// WithExit makes the compiler exit with code for the file named name.
func (m *Invoker) WithExit(name string, code int) *Invoker {
	m.statuses[name] = model.Exited(code)
	return m
}

// WithStatus sets the full termination status for the file named name.
func (m *Invoker) WithStatus(name string, s model.Status) *Invoker {
	m.statuses[name] = s
	return m
}

// WithDefault sets the status returned for files without an explicit entry.
func (m *Invoker) WithDefault(s model.Status) *Invoker {
	m.fallback = s
	return m
}

// WithDelay makes every invocation take at least d, or until ctx is done.
func (m *Invoker) WithDelay(d time.Duration) *Invoker {
	m.delay = d
	return m
}

// WithInvokeFunc sets the function called by Invoke.
func (m *Invoker) WithInvokeFunc(fn func(ctx context.Context, file string) model.Status) *Invoker {
	m.InvokeFunc = fn
	return m
}

// Invoke records the call and returns the configured status. Files are
// matched by base name.
func (m *Invoker) Invoke(ctx context.Context, file string) model.Status {
	atomic.AddInt32(&m.invokeCount, 1)
	cur := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		prev := atomic.LoadInt32(&m.maxInFlight)
		if cur <= prev || atomic.CompareAndSwapInt32(&m.maxInFlight, prev, cur) {
			break
		}
	}

	name := filepath.Base(file)
	m.mu.Lock()
	m.order = append(m.order, name)
	m.mu.Unlock()

	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, file)
	}

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return model.Canceled(ctx.Err())
		case <-timer.C:
		}
	}

	if s, ok := m.statuses[name]; ok {
		return s
	}
	return m.fallback
}

// Test inspection methods

// InvokeCount returns the number of times Invoke was called.
func (m *Invoker) InvokeCount() int32 {
	return atomic.LoadInt32(&m.invokeCount)
}

// MaxInFlight returns the highest number of concurrent Invoke calls observed.
func (m *Invoker) MaxInFlight() int32 {
	return atomic.LoadInt32(&m.maxInFlight)
}

// Order returns the base names of invoked files in call order.
func (m *Invoker) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.order))
	copy(result, m.order)
	return result
}

// Reset clears execution tracking state.
func (m *Invoker) Reset() {
	atomic.StoreInt32(&m.invokeCount, 0)
	atomic.StoreInt32(&m.maxInFlight, 0)
	m.mu.Lock()
	m.order = nil
	m.mu.Unlock()
}
