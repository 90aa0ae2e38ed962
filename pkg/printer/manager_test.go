package printer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport tracks overlapping sends.
type recordingTransport struct {
	kind    TransportKind
	openErr error
	delay   time.Duration
	// opening and openGate, when set, hold Open until the test releases it
	opening  chan struct{}
	openGate chan struct{}

	mu           sync.Mutex
	opens        int
	closes       int
	onDisconnect func()
	sent         [][]byte

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (r *recordingTransport) Kind() TransportKind { return r.kind }

func (r *recordingTransport) Open(_ context.Context, onDisconnect func()) (DeviceHandle, error) {
	if r.openGate != nil {
		close(r.opening)
		<-r.openGate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.openErr != nil {
		return DeviceHandle{}, r.openErr
	}
	r.opens++
	r.onDisconnect = onDisconnect
	return DeviceHandle{Kind: r.kind, Name: r.kind.String() + "-printer", ID: "1"}, nil
}

func (r *recordingTransport) Send(_ context.Context, data []byte) error {
	n := r.inFlight.Add(1)
	for {
		m := r.maxInFlight.Load()
		if n <= m || r.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(r.delay)
	r.mu.Lock()
	r.sent = append(r.sent, data)
	r.mu.Unlock()
	r.inFlight.Add(-1)
	return nil
}

func (r *recordingTransport) Close() error {
	r.mu.Lock()
	r.closes++
	r.mu.Unlock()
	return nil
}

func (r *recordingTransport) counts() (opens, closes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opens, r.closes
}

func (r *recordingTransport) disconnectCallback() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onDisconnect
}

func TestManager_InitialState(t *testing.T) {
	m := NewManager(0)
	s := m.Status()
	assert.Equal(t, StateDisconnected, s.State)
	assert.False(t, s.Connected)
	assert.Equal(t, TransportNone, s.Transport)
	assert.Equal(t, "No printer connected.", s.Message)
}

func TestManager_PrintRequiresConnection(t *testing.T) {
	m := NewManager(0, &recordingTransport{kind: TransportRadio})
	assert.ErrorIs(t, m.Print(context.Background(), []byte("x")), ErrNotConnected)
}

func TestManager_ConnectRadioAndPrint(t *testing.T) {
	dev, char := newPrinterDevice()
	m := NewManager(time.Second, NewRadioTransport(&fakeAdapter{device: dev}, ""))

	s, err := m.ConnectRadio(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateConnected, s.State)
	assert.True(t, s.Connected)
	assert.Equal(t, TransportRadio, s.Transport)
	assert.Equal(t, "RPP02N", s.Device)
	assert.Equal(t, "Connected to RPP02N via radio", s.Message)

	require.NoError(t, m.Print(context.Background(), payload(250)))
	assert.Len(t, char.Writes(), 3)
}

func TestManager_ConnectWired(t *testing.T) {
	dev := newUSBPrinter()
	m := NewManager(0, NewWiredTransport(&fakeUSBBackend{device: dev}, DefaultWiredOptions()))

	s, err := m.ConnectWired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TransportWired, s.Transport)

	require.NoError(t, m.Print(context.Background(), []byte("receipt")))
	assert.Len(t, dev.transfers, 1)
}

func TestManager_ConnectFailureLeavesDisconnected(t *testing.T) {
	m := NewManager(0,
		NewRadioTransport(&fakeAdapter{}, ""),
		&recordingTransport{kind: TransportWired, openErr: errors.New("boom")},
	)

	s, err := m.ConnectRadio(context.Background())
	assert.ErrorIs(t, err, ErrDeviceNotFound)
	assert.Equal(t, StateDisconnected, s.State)
	assert.Equal(t, "No matching radio printer found.", s.Message)

	s, err = m.ConnectWired(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateDisconnected, s.State)
	assert.Equal(t, "Connection failed: boom", s.Message)

	assert.ErrorIs(t, m.Print(context.Background(), []byte("x")), ErrNotConnected)
}

func TestManager_StatusWhileConnectingNamesTransport(t *testing.T) {
	wired := &recordingTransport{kind: TransportWired, opening: make(chan struct{}), openGate: make(chan struct{})}
	m := NewManager(0, wired)

	done := make(chan error, 1)
	go func() {
		_, err := m.ConnectWired(context.Background())
		done <- err
	}()
	<-wired.opening

	s := m.Status()
	assert.Equal(t, StateConnecting, s.State)
	assert.Equal(t, TransportWired, s.Transport)
	assert.Empty(t, s.Device)
	assert.Equal(t, "Searching for wired printer...", s.Message)

	close(wired.openGate)
	require.NoError(t, <-done)
	assert.Equal(t, TransportWired, m.Status().Transport)
}

func TestManager_UnknownTransport(t *testing.T) {
	m := NewManager(0)
	_, err := m.Connect(context.Background(), TransportWired)
	assert.ErrorIs(t, err, ErrUnknownTransport)
}

func TestManager_SwitchingTransportClosesPrevious(t *testing.T) {
	radio := &recordingTransport{kind: TransportRadio}
	wired := &recordingTransport{kind: TransportWired}
	m := NewManager(0, radio, wired)

	_, err := m.ConnectRadio(context.Background())
	require.NoError(t, err)
	s, err := m.ConnectWired(context.Background())
	require.NoError(t, err)

	assert.Equal(t, TransportWired, s.Transport)
	opens, closes := radio.counts()
	assert.Equal(t, 1, opens)
	assert.Equal(t, 1, closes)

	// reconnecting the same transport closes it before reopening
	_, err = m.ConnectWired(context.Background())
	require.NoError(t, err)
	opens, closes = wired.counts()
	assert.Equal(t, 2, opens)
	assert.Equal(t, 1, closes)
}

func TestManager_Disconnect(t *testing.T) {
	radio := &recordingTransport{kind: TransportRadio}
	m := NewManager(0, radio)

	s := m.Disconnect()
	assert.Equal(t, StateDisconnected, s.State)

	_, err := m.ConnectRadio(context.Background())
	require.NoError(t, err)

	s = m.Disconnect()
	assert.Equal(t, StateDisconnected, s.State)
	assert.Equal(t, "Printer disconnected.", s.Message)
	assert.Equal(t, TransportNone, s.Transport)
	_, closes := radio.counts()
	assert.Equal(t, 1, closes)
	assert.ErrorIs(t, m.Print(context.Background(), []byte("x")), ErrNotConnected)
}

func TestManager_DeviceDisconnectEvent(t *testing.T) {
	dev, _ := newPrinterDevice()
	m := NewManager(0, NewRadioTransport(&fakeAdapter{device: dev}, ""))

	_, err := m.ConnectRadio(context.Background())
	require.NoError(t, err)

	dev.drop()
	dev.drop()

	assert.Eventually(t, func() bool {
		return m.Status().State == StateDisconnected
	}, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, m.Print(context.Background(), []byte("x")), ErrNotConnected)
	assert.Equal(t, 1, dev.Disconnects())
}

func TestManager_StaleDisconnectEventIgnored(t *testing.T) {
	radio := &recordingTransport{kind: TransportRadio}
	m := NewManager(0, radio)

	_, err := m.ConnectRadio(context.Background())
	require.NoError(t, err)
	stale := radio.disconnectCallback()

	_, err = m.ConnectRadio(context.Background())
	require.NoError(t, err)

	stale()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateConnected, m.Status().State)
}

func TestManager_WiredDeviceGoneDuringPrint(t *testing.T) {
	dev := newUSBPrinter()
	m := NewManager(0, NewWiredTransport(&fakeUSBBackend{device: dev}, DefaultWiredOptions()))
	_, err := m.ConnectWired(context.Background())
	require.NoError(t, err)

	dev.mu.Lock()
	dev.transferErr = ErrDeviceGone
	dev.mu.Unlock()

	err = m.Print(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrTransferFailure)
	assert.Eventually(t, func() bool {
		return m.Status().State == StateDisconnected
	}, time.Second, 5*time.Millisecond)
}

func TestManager_PrintsAreSerialized(t *testing.T) {
	radio := &recordingTransport{kind: TransportRadio, delay: 2 * time.Millisecond}
	m := NewManager(0, radio)
	_, err := m.ConnectRadio(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.Print(context.Background(), []byte("job")))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, radio.maxInFlight.Load())
	assert.Len(t, radio.sent, 8)
}

func TestManager_Close(t *testing.T) {
	radio := &recordingTransport{kind: TransportRadio}
	m := NewManager(0, radio)
	_, err := m.ConnectRadio(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Close())
	_, closes := radio.counts()
	assert.Equal(t, 1, closes)

	_, err = m.ConnectRadio(context.Background())
	assert.ErrorIs(t, err, ErrManagerClosed)
}
