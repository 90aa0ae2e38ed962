package printer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sangkips/kasir-api/pkg/logger"
)

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

var stateNames = map[State]string{
	StateDisconnected:  "disconnected",
	StateConnecting:    "connecting",
	StateConnected:     "connected",
	StateDisconnecting: "disconnecting",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

const statusIdle = "No printer connected."

// Status is a snapshot of the manager for display.
type Status struct {
	State     State         `json:"state"`
	Connected bool          `json:"connected"`
	Transport TransportKind `json:"transport"`
	Device    string        `json:"device,omitempty"`
	Message   string        `json:"message"`
}

// Manager owns the single active printer connection. Connect, Disconnect and
// Print may be called from any goroutine.
type Manager struct {
	transports     map[TransportKind]Transport
	connectTimeout time.Duration

	// lifecycle serializes Connect, Disconnect and Close.
	lifecycle sync.Mutex
	// printMu serializes Print calls; Disconnect waits for an in-flight print.
	printMu sync.Mutex

	mu         sync.Mutex
	state      State
	pending    TransportKind // transport being opened while Connecting
	active     Transport
	handle     DeviceHandle
	generation uint64
	message    string
	closed     bool
}

// NewManager returns a disconnected manager over the given transports, at
// most one per kind. A zero connectTimeout leaves timeouts to the platform.
func NewManager(connectTimeout time.Duration, transports ...Transport) *Manager {
	m := &Manager{
		transports:     make(map[TransportKind]Transport, len(transports)),
		connectTimeout: connectTimeout,
		message:        statusIdle,
	}
	for _, t := range transports {
		if t != nil {
			m.transports[t.Kind()] = t
		}
	}
	return m
}

// Status returns the current state snapshot.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

func (m *Manager) statusLocked() Status {
	s := Status{
		State:     m.state,
		Connected: m.state == StateConnected,
		Message:   m.message,
	}
	switch {
	case m.state == StateConnecting:
		s.Transport = m.pending
	case m.active != nil:
		s.Transport = m.handle.Kind
		s.Device = m.handle.Name
	}
	return s
}

func (m *Manager) setState(state State, message string) {
	m.mu.Lock()
	m.state = state
	m.message = message
	m.mu.Unlock()
}

func (m *Manager) ConnectRadio(ctx context.Context) (Status, error) {
	return m.Connect(ctx, TransportRadio)
}

func (m *Manager) ConnectWired(ctx context.Context) (Status, error) {
	return m.Connect(ctx, TransportWired)
}

// Connect opens a device on the given transport. An existing connection is
// closed first, so at most one device handle is ever held.
func (m *Manager) Connect(ctx context.Context, kind TransportKind) (Status, error) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return m.Status(), ErrManagerClosed
	}

	t, ok := m.transports[kind]
	if !ok {
		return m.Status(), fmt.Errorf("%w: %s", ErrUnknownTransport, kind)
	}

	m.disconnectLocked("switching transport")

	m.mu.Lock()
	m.state = StateConnecting
	m.pending = kind
	m.message = fmt.Sprintf("Searching for %s printer...", kind)
	m.mu.Unlock()
	logger.Info("printer", "Connecting", "transport", kind.String())

	if m.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.connectTimeout)
		defer cancel()
	}

	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	var once sync.Once
	onDisconnect := func() {
		once.Do(func() { go m.handleDeviceDisconnect(gen) })
	}

	handle, err := t.Open(ctx, onDisconnect)
	if err != nil {
		message := "Connection failed: " + err.Error()
		if errors.Is(err, ErrDeviceNotFound) {
			message = fmt.Sprintf("No matching %s printer found.", kind)
		}
		m.setState(StateDisconnected, message)
		logger.Warn("printer", "Connect failed", "transport", kind.String(), "error", err)
		return m.Status(), err
	}

	m.mu.Lock()
	m.active = t
	m.handle = handle
	m.state = StateConnected
	m.message = fmt.Sprintf("Connected to %s via %s", handle.Name, kind)
	status := m.statusLocked()
	m.mu.Unlock()

	logger.Info("printer", "Connected", "transport", kind.String(), "device", handle.Name, "id", handle.ID)
	return status, nil
}

// Disconnect closes the active connection, if any.
func (m *Manager) Disconnect() Status {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.disconnectLocked("requested")
	return m.Status()
}

// disconnectLocked tears the active connection down. The caller holds lifecycle.
func (m *Manager) disconnectLocked(reason string) {
	m.printMu.Lock()
	defer m.printMu.Unlock()

	m.mu.Lock()
	t := m.active
	handle := m.handle
	if t == nil {
		m.mu.Unlock()
		return
	}
	m.state = StateDisconnecting
	m.message = "Disconnecting..."
	m.generation++
	m.mu.Unlock()

	if err := t.Close(); err != nil {
		logger.Warn("printer", "Close failed", "transport", handle.Kind.String(), "error", err)
	}

	m.mu.Lock()
	m.active = nil
	m.handle = DeviceHandle{}
	m.state = StateDisconnected
	m.message = "Printer disconnected."
	m.mu.Unlock()

	logger.Info("printer", "Disconnected", "transport", handle.Kind.String(), "device", handle.Name, "reason", reason)
}

// handleDeviceDisconnect reacts to a peripheral-initiated disconnect. Events
// from a connection that has since been replaced are ignored.
func (m *Manager) handleDeviceDisconnect(gen uint64) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	current := m.generation == gen && m.active != nil
	m.mu.Unlock()
	if !current {
		return
	}
	m.disconnectLocked("device")
}

// Print sends data to the connected printer. Calls are serialized so chunk
// sequences of concurrent jobs never interleave.
func (m *Manager) Print(ctx context.Context, data []byte) error {
	m.printMu.Lock()
	defer m.printMu.Unlock()

	m.mu.Lock()
	t := m.active
	connected := m.state == StateConnected
	handle := m.handle
	m.mu.Unlock()

	if !connected || t == nil {
		return ErrNotConnected
	}

	start := time.Now()
	if err := t.Send(ctx, data); err != nil {
		m.mu.Lock()
		if m.active == t {
			m.message = "Print failed: " + err.Error()
		}
		m.mu.Unlock()
		logger.Error("printer", "Print failed", "transport", handle.Kind.String(), "device", handle.Name, "bytes", len(data), "error", err)
		return err
	}

	logger.Debug("printer", "Printed", "transport", handle.Kind.String(), "bytes", len(data), "duration", time.Since(start))
	return nil
}

// Close disconnects and rejects further connects.
func (m *Manager) Close() error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.disconnectLocked("shutdown")

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
