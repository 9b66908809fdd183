package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"image-text-extractor/internal/logger"
)

const (
	component = "ShutdownManager"

	DefaultTimeout = 10 * time.Second
)

type Shutdownable interface {
	Shutdown()
}

// Func adapts a plain function to Shutdownable.
type Func func()

func (f Func) Shutdown() { f() }

type entry struct {
	name string
	c    Shutdownable
}

// Manager stops registered components in reverse registration order, each
// bounded by a timeout. It runs at most once.
type Manager struct {
	components []entry
	logger     logger.Logger
	timeout    time.Duration
	onSignal   func()

	mu      sync.Mutex
	done    chan struct{}
	stopped chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	sigs    chan os.Signal
}

func NewManager(log logger.Logger, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		logger:  log,
		timeout: timeout,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (m *Manager) Register(name string, c Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, entry{name: name, c: c})
}

// OnSignal sets what runs after a signal-triggered shutdown, typically
// quitting the GUI event loop.
func (m *Manager) OnSignal(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSignal = fn
}

// Listen shuts down on SIGINT or SIGTERM.
func (m *Manager) Listen() {
	m.mu.Lock()
	if m.sigs != nil {
		m.mu.Unlock()
		return
	}
	m.sigs = make(chan os.Signal, 1)
	sigs := m.sigs
	m.mu.Unlock()

	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigs:
			m.logger.Info(component, "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
			m.mu.Lock()
			fn := m.onSignal
			m.mu.Unlock()
			if fn != nil {
				fn()
			}
		case <-m.done:
		}
	}()
}

// Shutdown stops every component. Concurrent and later calls wait for the
// first one to finish.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	select {
	case <-m.done:
		m.mu.Unlock()
		<-m.stopped
		return
	default:
		close(m.done)
	}
	components := append([]entry(nil), m.components...)
	if m.sigs != nil {
		signal.Stop(m.sigs)
	}
	m.mu.Unlock()

	m.logger.Info(component, "shutdown sequence initiated", map[string]interface{}{
		"components": len(components),
	})

	m.cancel()
	defer close(m.stopped)

	for i := len(components) - 1; i >= 0; i-- {
		e := components[i]
		start := time.Now()

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			e.c.Shutdown()
		}()

		select {
		case <-finished:
			m.logger.Debug(component, "component stopped", map[string]interface{}{
				"component":   e.name,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		case <-time.After(m.timeout):
			m.logger.Warning(component, "component shutdown timeout", map[string]interface{}{
				"component": e.name,
				"timeout":   m.timeout.String(),
			})
		}
	}

	m.logger.Info(component, "shutdown sequence completed", nil)
}

// Context is cancelled when shutdown starts.
func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
