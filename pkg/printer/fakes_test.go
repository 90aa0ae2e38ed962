package printer

import (
	"context"
	"sync"
)

type fakeCharacteristic struct {
	uuid     string
	writable bool
	failAt   int // 1-based write number that fails, 0 never

	mu     sync.Mutex
	writes [][]byte
}

func (c *fakeCharacteristic) UUID() string   { return c.uuid }
func (c *fakeCharacteristic) Writable() bool { return c.writable }

func (c *fakeCharacteristic) Write(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAt > 0 && len(c.writes)+1 == c.failAt {
		return errWriteRejected
	}
	c.writes = append(c.writes, append([]byte(nil), data...))
	return nil
}

func (c *fakeCharacteristic) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

type fakeService struct {
	uuid  string
	chars []RadioCharacteristic
}

func (s *fakeService) UUID() string { return s.uuid }
func (s *fakeService) Characteristics(context.Context) ([]RadioCharacteristic, error) {
	return s.chars, nil
}

type fakeRadioDevice struct {
	id, name   string
	connectErr error
	services   []RadioService

	mu           sync.Mutex
	connected    bool
	disconnects  int
	onDisconnect func()
}

func (d *fakeRadioDevice) ID() string   { return d.id }
func (d *fakeRadioDevice) Name() string { return d.name }

func (d *fakeRadioDevice) Connect(context.Context) error {
	if d.connectErr != nil {
		return d.connectErr
	}
	d.mu.Lock()
	d.connected = true
	d.mu.Unlock()
	return nil
}

func (d *fakeRadioDevice) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	d.disconnects++
	return nil
}

func (d *fakeRadioDevice) Services(context.Context) ([]RadioService, error) {
	return d.services, nil
}

func (d *fakeRadioDevice) OnDisconnect(fn func()) {
	d.mu.Lock()
	d.onDisconnect = fn
	d.mu.Unlock()
}

// drop simulates the peripheral going away.
func (d *fakeRadioDevice) drop() {
	d.mu.Lock()
	fn := d.onDisconnect
	d.connected = false
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (d *fakeRadioDevice) Disconnects() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disconnects
}

type fakeAdapter struct {
	device *fakeRadioDevice
	err    error
	uuids  []string
}

func (a *fakeAdapter) Discover(_ context.Context, serviceUUID string) (RadioDevice, error) {
	a.uuids = append(a.uuids, serviceUUID)
	if a.err != nil {
		return nil, a.err
	}
	if a.device == nil {
		return nil, ErrDeviceNotFound
	}
	return a.device, nil
}

// newPrinterDevice returns a device whose second service carries the first
// writable characteristic.
func newPrinterDevice() (*fakeRadioDevice, *fakeCharacteristic) {
	writable := &fakeCharacteristic{uuid: "2af1", writable: true}
	dev := &fakeRadioDevice{
		id:   "AA:BB:CC:DD:EE:FF",
		name: "RPP02N",
		services: []RadioService{
			&fakeService{uuid: "180a", chars: []RadioCharacteristic{&fakeCharacteristic{uuid: "2a29"}}},
			&fakeService{uuid: "18f0", chars: []RadioCharacteristic{
				&fakeCharacteristic{uuid: "2af0"},
				writable,
				&fakeCharacteristic{uuid: "2af2", writable: true},
			}},
		},
	}
	return dev, writable
}

type fakeUSBDevice struct {
	id, name    string
	configErr   error
	claimErr    error
	endpoints   []int
	transferErr error
	short       bool

	mu         sync.Mutex
	config     int
	iface      int
	transfers  [][]byte
	endpointNo []int
	closed     int
}

func (d *fakeUSBDevice) ID() string          { return d.id }
func (d *fakeUSBDevice) ProductName() string { return d.name }

func (d *fakeUSBDevice) SelectConfiguration(n int) error {
	d.config = n
	return d.configErr
}

func (d *fakeUSBDevice) ClaimInterface(n int) error {
	d.iface = n
	return d.claimErr
}

func (d *fakeUSBDevice) OutEndpoints() []int { return d.endpoints }

func (d *fakeUSBDevice) TransferOut(_ context.Context, endpoint int, data []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.transferErr != nil {
		return 0, d.transferErr
	}
	d.transfers = append(d.transfers, append([]byte(nil), data...))
	d.endpointNo = append(d.endpointNo, endpoint)
	if d.short {
		return len(data) - 1, nil
	}
	return len(data), nil
}

func (d *fakeUSBDevice) Close() error {
	d.mu.Lock()
	d.closed++
	d.mu.Unlock()
	return nil
}

type fakeUSBBackend struct {
	device *fakeUSBDevice
	class  uint8
}

func (b *fakeUSBBackend) OpenDevice(_ context.Context, classCode uint8) (USBDevice, error) {
	b.class = classCode
	if b.device == nil {
		return nil, ErrDeviceNotFound
	}
	return b.device, nil
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const errWriteRejected = sentinelError("write rejected")
