// Package console manages the process-wide console text encoding.
//
// While a tool runs, the console input and output code pages are forced to
// UTF-8 so that the child's output decodes consistently, and the previous
// code pages are restored afterwards. On platforms without console code pages
// the operations are no-ops.
package console

import (
	"log/slog"
	"sync"
)

// UTF8 is the code page identifier for UTF-8.
const UTF8 uint32 = 65001

// CodePages holds the console input and output code pages.
type CodePages struct {
	Input  uint32
	Output uint32
}

var utf8Pages = CodePages{Input: UTF8, Output: UTF8}

// Platform reads and writes the console code pages of the current process.
type Platform interface {
	CodePages() (CodePages, error)
	SetCodePages(pages CodePages) error
}

// Manager reference counts UTF-8 overrides of the console code pages.
//
// The first Acquire saves the current code pages and switches to UTF-8; the
// last release restores the saved pages. Failures never propagate: the first
// one is logged at warn level and later ones are silent for the lifetime of
// the Manager.
type Manager struct {
	platform Platform

	mu         sync.Mutex
	refs       int
	saved      CodePages
	overridden bool
	warned     bool
}

// Default is the process-wide manager backed by the operating system console.
var Default = NewManager(systemPlatform{})

// NewManager creates a manager for the given platform.
func NewManager(platform Platform) *Manager {
	return &Manager{platform: platform}
}

// Acquire forces UTF-8 console code pages until the returned release function
// is called. Release is idempotent.
func (m *Manager) Acquire(log *slog.Logger) (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refs++
	if m.refs == 1 {
		m.overrideLocked(log)
	}

	var once sync.Once

	return func() {
		once.Do(func() { m.release(log) })
	}
}

// Warned reports whether a console configuration failure has been logged.
func (m *Manager) Warned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.warned
}

func (m *Manager) overrideLocked(log *slog.Logger) {
	current, err := m.platform.CodePages()
	if err != nil {
		m.warnLocked(log, "read", err)

		return
	}

	if current == utf8Pages {
		return
	}

	if err := m.platform.SetCodePages(utf8Pages); err != nil {
		m.warnLocked(log, "set", err)

		return
	}

	m.saved = current
	m.overridden = true
}

func (m *Manager) release(log *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refs--
	if m.refs > 0 || !m.overridden {
		return
	}

	m.overridden = false

	if err := m.platform.SetCodePages(m.saved); err != nil {
		m.warnLocked(log, "restore", err)
	}
}

func (m *Manager) warnLocked(log *slog.Logger, op string, err error) {
	if m.warned {
		return
	}

	m.warned = true

	if log != nil {
		log.Warn("Unable to configure console encoding, tool output may not be decoded as UTF-8",
			"op", op,
			"error", err,
		)
	}
}
