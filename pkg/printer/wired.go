package printer

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// PrinterClassCode is the USB device class of printers.
const PrinterClassCode = 7

// USBBackend opens wired devices by class code.
type USBBackend interface {
	// OpenDevice opens the first device of the class, or returns an error
	// wrapping ErrDeviceNotFound.
	OpenDevice(ctx context.Context, classCode uint8) (USBDevice, error)
}

// USBDevice is an opened wired device.
type USBDevice interface {
	ID() string
	ProductName() string
	SelectConfiguration(n int) error
	ClaimInterface(n int) error
	// OutEndpoints lists the OUT endpoint numbers of the claimed interface.
	OutEndpoints() []int
	TransferOut(ctx context.Context, endpoint int, data []byte) (int, error)
	Close() error
}

// WiredOptions selects the device class, configuration and interface.
type WiredOptions struct {
	ClassCode     uint8
	Configuration int
	Interface     int
}

// DefaultWiredOptions returns class 7, configuration 1, interface 0.
func DefaultWiredOptions() WiredOptions {
	return WiredOptions{ClassCode: PrinterClassCode, Configuration: 1, Interface: 0}
}

// WiredTransport prints over a wired bus with one bulk transfer per Send.
type WiredTransport struct {
	backend USBBackend
	opts    WiredOptions

	mu           sync.Mutex
	device       USBDevice
	endpoint     int
	onDisconnect func()
}

func NewWiredTransport(backend USBBackend, opts WiredOptions) *WiredTransport {
	if opts.ClassCode == 0 {
		opts.ClassCode = PrinterClassCode
	}
	return &WiredTransport{backend: backend, opts: opts}
}

func (t *WiredTransport) Kind() TransportKind {
	return TransportWired
}

func (t *WiredTransport) Open(ctx context.Context, onDisconnect func()) (DeviceHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.backend == nil {
		return DeviceHandle{}, fmt.Errorf("%w: usb backend unavailable", ErrConnectionFailure)
	}

	device, err := t.backend.OpenDevice(ctx, t.opts.ClassCode)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return DeviceHandle{}, err
		}
		return DeviceHandle{}, fmt.Errorf("%w: open: %w", ErrConnectionFailure, err)
	}

	fail := func(err error) (DeviceHandle, error) {
		_ = device.Close()
		return DeviceHandle{}, fmt.Errorf("%w: %w", ErrConnectionFailure, err)
	}

	if err := device.SelectConfiguration(t.opts.Configuration); err != nil {
		return fail(fmt.Errorf("select configuration %d: %w", t.opts.Configuration, err))
	}
	if err := device.ClaimInterface(t.opts.Interface); err != nil {
		return fail(fmt.Errorf("claim interface %d: %w", t.opts.Interface, err))
	}
	endpoints := device.OutEndpoints()
	if len(endpoints) == 0 {
		return fail(fmt.Errorf("no OUT endpoint on %s", device.ProductName()))
	}

	t.device = device
	t.endpoint = endpoints[0]
	t.onDisconnect = onDisconnect

	return DeviceHandle{Kind: TransportWired, Name: device.ProductName(), ID: device.ID()}, nil
}

// Send performs a single bulk transfer of data. A device that vanished
// mid-transfer is reported through the disconnect callback.
func (t *WiredTransport) Send(ctx context.Context, data []byte) error {
	gone, err := t.send(ctx, data)
	if gone != nil {
		gone()
	}
	return err
}

func (t *WiredTransport) send(ctx context.Context, data []byte) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.device == nil {
		return nil, ErrNotConnected
	}

	n, err := t.device.TransferOut(ctx, t.endpoint, data)
	if err != nil {
		var gone func()
		if errors.Is(err, ErrDeviceGone) {
			gone = t.onDisconnect
		}
		return gone, fmt.Errorf("%w: %w", ErrTransferFailure, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: short write %d of %d bytes", ErrTransferFailure, n, len(data))
	}
	return nil, nil
}

func (t *WiredTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	device := t.device
	t.device = nil
	t.onDisconnect = nil
	if device == nil {
		return nil
	}
	return device.Close()
}
