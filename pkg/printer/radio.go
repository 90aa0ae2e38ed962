package printer

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	// SerialServiceUUID is the serial port profile advertised by thermal printers.
	SerialServiceUUID = "00001101-0000-1000-8000-00805f9b34fb"
	// RadioChunkSize is the largest fragment written to a characteristic at once.
	RadioChunkSize = 100
)

// RadioAdapter discovers radio peripherals advertising a service.
type RadioAdapter interface {
	// Discover returns the first device advertising serviceUUID, or an
	// error wrapping ErrDeviceNotFound.
	Discover(ctx context.Context, serviceUUID string) (RadioDevice, error)
}

// RadioDevice is a discovered peripheral.
type RadioDevice interface {
	ID() string
	Name() string
	Connect(ctx context.Context) error
	Disconnect() error
	Services(ctx context.Context) ([]RadioService, error)
	// OnDisconnect registers fn for a peripheral-initiated disconnect.
	OnDisconnect(fn func())
}

// RadioService is a primary service of a connected peripheral.
type RadioService interface {
	UUID() string
	Characteristics(ctx context.Context) ([]RadioCharacteristic, error)
}

// RadioCharacteristic is one endpoint of a service.
type RadioCharacteristic interface {
	UUID() string
	Writable() bool
	Write(ctx context.Context, data []byte) error
}

// RadioTransport prints over a short-range radio link, writing payloads in
// RadioChunkSize fragments to the first writable characteristic.
type RadioTransport struct {
	adapter     RadioAdapter
	serviceUUID string
	chunkSize   int

	mu     sync.Mutex
	device RadioDevice
	char   RadioCharacteristic
}

// NewRadioTransport returns a transport that discovers devices through adapter.
// An empty serviceUUID means SerialServiceUUID.
func NewRadioTransport(adapter RadioAdapter, serviceUUID string) *RadioTransport {
	if serviceUUID == "" {
		serviceUUID = SerialServiceUUID
	}
	return &RadioTransport{
		adapter:     adapter,
		serviceUUID: serviceUUID,
		chunkSize:   RadioChunkSize,
	}
}

func (t *RadioTransport) Kind() TransportKind {
	return TransportRadio
}

func (t *RadioTransport) Open(ctx context.Context, onDisconnect func()) (DeviceHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.adapter == nil {
		return DeviceHandle{}, fmt.Errorf("%w: radio adapter unavailable", ErrConnectionFailure)
	}

	device, err := t.adapter.Discover(ctx, t.serviceUUID)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return DeviceHandle{}, err
		}
		return DeviceHandle{}, fmt.Errorf("%w: discovery: %w", ErrConnectionFailure, err)
	}

	if err := device.Connect(ctx); err != nil {
		return DeviceHandle{}, fmt.Errorf("%w: connect %s: %w", ErrConnectionFailure, device.Name(), err)
	}

	char, err := firstWritable(ctx, device)
	if err != nil {
		_ = device.Disconnect()
		return DeviceHandle{}, err
	}

	if onDisconnect != nil {
		device.OnDisconnect(onDisconnect)
	}
	t.device = device
	t.char = char

	return DeviceHandle{Kind: TransportRadio, Name: device.Name(), ID: device.ID()}, nil
}

func firstWritable(ctx context.Context, device RadioDevice) (RadioCharacteristic, error) {
	services, err := device.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list services: %w", ErrConnectionFailure, err)
	}
	for _, svc := range services {
		chars, err := svc.Characteristics(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list characteristics of %s: %w", ErrConnectionFailure, svc.UUID(), err)
		}
		for _, c := range chars {
			if c.Writable() {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no writable characteristic on %s", ErrConnectionFailure, device.Name())
}

// Send writes data in order, one chunk at a time; each write completes
// before the next starts.
func (t *RadioTransport) Send(ctx context.Context, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.char == nil {
		return ErrNotConnected
	}

	for offset := 0; offset < len(data); offset += t.chunkSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: at offset %d: %w", ErrTransferFailure, offset, err)
		}
		end := min(offset+t.chunkSize, len(data))
		if err := t.char.Write(ctx, data[offset:end]); err != nil {
			return fmt.Errorf("%w: at offset %d: %w", ErrTransferFailure, offset, err)
		}
	}
	return nil
}

func (t *RadioTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	device := t.device
	t.device = nil
	t.char = nil
	if device == nil {
		return nil
	}
	return device.Disconnect()
}
