// Package usb implements the wired printer back end with libusb.
package usb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/gousb"
	"github.com/sangkips/kasir-api/pkg/printer"
)

var (
	_ printer.USBBackend = (*Backend)(nil)
	_ printer.USBDevice  = (*Device)(nil)
)

// Backend opens printers through a libusb context.
type Backend struct {
	ctx *gousb.Context
}

func NewBackend() *Backend {
	return &Backend{ctx: gousb.NewContext()}
}

func (b *Backend) Close() error {
	return b.ctx.Close()
}

// OpenDevice opens the first device whose device or interface class matches.
func (b *Backend) OpenDevice(_ context.Context, classCode uint8) (printer.USBDevice, error) {
	class := gousb.Class(classCode)
	devs, err := b.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return matchesClass(desc, class)
	})
	if len(devs) == 0 {
		if err != nil {
			return nil, fmt.Errorf("%w: class %d: %w", printer.ErrDeviceNotFound, classCode, err)
		}
		return nil, fmt.Errorf("%w: class %d", printer.ErrDeviceNotFound, classCode)
	}

	dev := devs[0]
	for _, extra := range devs[1:] {
		_ = extra.Close()
	}

	if err := dev.SetAutoDetach(true); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("usb: auto detach: %w", err)
	}

	name, err := dev.Product()
	if err != nil || name == "" {
		name = dev.Desc.Product.String()
	}

	return &Device{
		dev:  dev,
		id:   fmt.Sprintf("%03d:%03d", dev.Desc.Bus, dev.Desc.Address),
		name: name,
	}, nil
}

// matchesClass reports whether the device, or any of its interface settings,
// carries class.
func matchesClass(desc *gousb.DeviceDesc, class gousb.Class) bool {
	if desc.Class == class {
		return true
	}
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class == class {
					return true
				}
			}
		}
	}
	return false
}

// outEndpoints returns the OUT endpoint numbers of an interface setting in order.
func outEndpoints(setting gousb.InterfaceSetting) []int {
	var nums []int
	for _, ep := range setting.Endpoints {
		if ep.Direction == gousb.EndpointDirectionOut {
			nums = append(nums, ep.Number)
		}
	}
	sort.Ints(nums)
	return nums
}

// Device is an opened libusb device.
type Device struct {
	dev  *gousb.Device
	id   string
	name string

	mu   sync.Mutex
	cfg  *gousb.Config
	intf *gousb.Interface
	eps  map[int]*gousb.OutEndpoint
}

func (d *Device) ID() string          { return d.id }
func (d *Device) ProductName() string { return d.name }

func (d *Device) SelectConfiguration(n int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cfg, err := d.dev.Config(n)
	if err != nil {
		return mapError(err)
	}
	d.cfg = cfg
	return nil
}

func (d *Device) ClaimInterface(n int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cfg == nil {
		return errors.New("usb: no configuration selected")
	}
	intf, err := d.cfg.Interface(n, 0)
	if err != nil {
		return mapError(err)
	}
	d.intf = intf
	d.eps = make(map[int]*gousb.OutEndpoint)
	return nil
}

func (d *Device) OutEndpoints() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.intf == nil {
		return nil
	}
	return outEndpoints(d.intf.Setting)
}

func (d *Device) TransferOut(ctx context.Context, endpoint int, data []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.intf == nil {
		return 0, errors.New("usb: no interface claimed")
	}

	ep, ok := d.eps[endpoint]
	if !ok {
		var err error
		ep, err = d.intf.OutEndpoint(endpoint)
		if err != nil {
			return 0, mapError(err)
		}
		d.eps[endpoint] = ep
	}

	n, err := ep.WriteContext(ctx, data)
	if err != nil {
		return n, mapError(err)
	}
	return n, nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.intf != nil {
		d.intf.Close()
		d.intf = nil
	}
	if d.cfg != nil {
		_ = d.cfg.Close()
		d.cfg = nil
	}
	d.eps = nil
	return d.dev.Close()
}

// mapError marks errors for an unplugged device with printer.ErrDeviceGone.
func mapError(err error) error {
	if errors.Is(err, gousb.ErrorNoDevice) || errors.Is(err, gousb.TransferNoDevice) {
		return fmt.Errorf("%w: %w", printer.ErrDeviceGone, err)
	}
	return err
}
