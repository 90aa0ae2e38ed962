// Package bluez implements the radio printer back end on Linux by talking to
// the BlueZ daemon over the system D-Bus.
package bluez

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/printer"
)

const (
	busName = "org.bluez"

	ifaceAdapter        = "org.bluez.Adapter1"
	ifaceDevice         = "org.bluez.Device1"
	ifaceGattService    = "org.bluez.GattService1"
	ifaceGattChar       = "org.bluez.GattCharacteristic1"
	ifaceProperties     = "org.freedesktop.DBus.Properties"
	methodManagedObject = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"

	resolvePoll = 100 * time.Millisecond
)

var (
	_ printer.RadioAdapter        = (*Adapter)(nil)
	_ printer.RadioDevice         = (*Device)(nil)
	_ printer.RadioService        = (*Service)(nil)
	_ printer.RadioCharacteristic = (*Characteristic)(nil)
)

type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Adapter discovers printers known to BlueZ. With a non-zero ScanWindow it
// runs a discovery scan first; otherwise only paired or cached devices match.
type Adapter struct {
	conn       *dbus.Conn
	ScanWindow time.Duration
}

// NewAdapter connects to the system bus.
func NewAdapter(scanWindow time.Duration) (*Adapter, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("bluez: connect system bus: %w", err)
	}
	return &Adapter{conn: conn, ScanWindow: scanWindow}, nil
}

func (a *Adapter) Close() error {
	return a.conn.Close()
}

func (a *Adapter) objects(ctx context.Context) (managedObjects, error) {
	var objects managedObjects
	err := a.conn.Object(busName, "/").CallWithContext(ctx, methodManagedObject, 0).Store(&objects)
	if err != nil {
		return nil, fmt.Errorf("bluez: get managed objects: %w", err)
	}
	return objects, nil
}

// Discover returns the first device advertising serviceUUID.
func (a *Adapter) Discover(ctx context.Context, serviceUUID string) (printer.RadioDevice, error) {
	if a.ScanWindow > 0 {
		if err := a.scan(ctx); err != nil {
			logger.Warn("bluez", "Discovery scan failed", "error", err)
		}
	}

	objects, err := a.objects(ctx)
	if err != nil {
		return nil, err
	}

	path, ok := matchDevice(objects, serviceUUID)
	if !ok {
		return nil, fmt.Errorf("%w: no device advertises %s", printer.ErrDeviceNotFound, serviceUUID)
	}

	props := objects[path][ifaceDevice]
	return &Device{
		adapter: a,
		path:    path,
		address: stringProp(props, "Address"),
		name:    deviceName(props),
	}, nil
}

func (a *Adapter) scan(ctx context.Context) error {
	objects, err := a.objects(ctx)
	if err != nil {
		return err
	}
	for _, path := range sortedPaths(objects) {
		if _, ok := objects[path][ifaceAdapter]; !ok {
			continue
		}
		obj := a.conn.Object(busName, path)
		if err := obj.CallWithContext(ctx, ifaceAdapter+".StartDiscovery", 0).Err; err != nil {
			return fmt.Errorf("bluez: start discovery on %s: %w", path, err)
		}
		select {
		case <-time.After(a.ScanWindow):
		case <-ctx.Done():
		}
		return obj.Call(ifaceAdapter+".StopDiscovery", 0).Err
	}
	return fmt.Errorf("bluez: no adapter present")
}

// matchDevice finds the first device, in path order, whose UUIDs contain serviceUUID.
func matchDevice(objects managedObjects, serviceUUID string) (dbus.ObjectPath, bool) {
	for _, path := range sortedPaths(objects) {
		props, ok := objects[path][ifaceDevice]
		if !ok {
			continue
		}
		uuids, _ := props["UUIDs"].Value().([]string)
		for _, u := range uuids {
			if strings.EqualFold(u, serviceUUID) {
				return path, true
			}
		}
	}
	return "", false
}

// gattLayout groups a device's characteristics under its services, both
// ordered by object path.
func gattLayout(objects managedObjects, device dbus.ObjectPath) []*Service {
	prefix := string(device) + "/"
	byPath := make(map[dbus.ObjectPath]*Service)
	var services []*Service

	for _, path := range sortedPaths(objects) {
		if !strings.HasPrefix(string(path), prefix) {
			continue
		}
		if props, ok := objects[path][ifaceGattService]; ok {
			svc := &Service{path: path, uuid: stringProp(props, "UUID")}
			byPath[path] = svc
			services = append(services, svc)
		}
	}

	for _, path := range sortedPaths(objects) {
		props, ok := objects[path][ifaceGattChar]
		if !ok {
			continue
		}
		owner, _ := props["Service"].Value().(dbus.ObjectPath)
		svc, ok := byPath[owner]
		if !ok {
			continue
		}
		flags, _ := props["Flags"].Value().([]string)
		svc.chars = append(svc.chars, &Characteristic{
			path:  path,
			uuid:  stringProp(props, "UUID"),
			flags: flags,
		})
	}
	return services
}

func sortedPaths(objects managedObjects) []dbus.ObjectPath {
	paths := make([]dbus.ObjectPath, 0, len(objects))
	for p := range objects {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}

func stringProp(props map[string]dbus.Variant, key string) string {
	s, _ := props[key].Value().(string)
	return s
}

func deviceName(props map[string]dbus.Variant) string {
	for _, key := range []string{"Alias", "Name", "Address"} {
		if s := stringProp(props, key); s != "" {
			return s
		}
	}
	return "unknown"
}

// Device is a BlueZ device object.
type Device struct {
	adapter *Adapter
	path    dbus.ObjectPath
	address string
	name    string

	mu   sync.Mutex
	done chan struct{}
}

func (d *Device) ID() string   { return d.address }
func (d *Device) Name() string { return d.name }

// Connect connects the device and waits until BlueZ has resolved its GATT services.
func (d *Device) Connect(ctx context.Context) error {
	obj := d.adapter.conn.Object(busName, d.path)
	if err := obj.CallWithContext(ctx, ifaceDevice+".Connect", 0).Err; err != nil {
		return fmt.Errorf("bluez: connect %s: %w", d.path, err)
	}

	ticker := time.NewTicker(resolvePoll)
	defer ticker.Stop()
	for {
		v, err := obj.GetProperty(ifaceDevice + ".ServicesResolved")
		if err == nil {
			if resolved, _ := v.Value().(bool); resolved {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("bluez: resolve services of %s: %w", d.path, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (d *Device) Disconnect() error {
	d.stopWatching()
	err := d.adapter.conn.Object(busName, d.path).Call(ifaceDevice+".Disconnect", 0).Err
	if err != nil {
		return fmt.Errorf("bluez: disconnect %s: %w", d.path, err)
	}
	return nil
}

func (d *Device) Services(ctx context.Context) ([]printer.RadioService, error) {
	objects, err := d.adapter.objects(ctx)
	if err != nil {
		return nil, err
	}
	layout := gattLayout(objects, d.path)
	services := make([]printer.RadioService, 0, len(layout))
	for _, svc := range layout {
		for _, c := range svc.chars {
			c.conn = d.adapter.conn
		}
		services = append(services, svc)
	}
	return services, nil
}

// OnDisconnect watches the device's Connected property and calls fn when it
// turns false.
func (d *Device) OnDisconnect(fn func()) {
	d.stopWatching()

	conn := d.adapter.conn
	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(d.path),
		dbus.WithMatchInterface(ifaceProperties),
		dbus.WithMatchMember("PropertiesChanged"),
	}
	if err := conn.AddMatchSignal(match...); err != nil {
		logger.Warn("bluez", "Cannot watch device", "path", string(d.path), "error", err)
		return
	}

	signals := make(chan *dbus.Signal, 8)
	done := make(chan struct{})
	conn.Signal(signals)

	d.mu.Lock()
	d.done = done
	d.mu.Unlock()

	go func() {
		defer func() {
			conn.RemoveSignal(signals)
			_ = conn.RemoveMatchSignal(match...)
		}()
		for {
			select {
			case <-done:
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				if sig.Path == d.path && disconnected(sig) {
					logger.Info("bluez", "Device dropped connection", "device", d.name)
					fn()
					return
				}
			}
		}
	}()
}

func (d *Device) stopWatching() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done != nil {
		close(d.done)
		d.done = nil
	}
}

// disconnected reports whether a PropertiesChanged signal sets Device1.Connected to false.
func disconnected(sig *dbus.Signal) bool {
	if len(sig.Body) < 2 {
		return false
	}
	if iface, _ := sig.Body[0].(string); iface != ifaceDevice {
		return false
	}
	changed, _ := sig.Body[1].(map[string]dbus.Variant)
	v, ok := changed["Connected"]
	if !ok {
		return false
	}
	connected, _ := v.Value().(bool)
	return !connected
}

// Service is a GATT service.
type Service struct {
	path  dbus.ObjectPath
	uuid  string
	chars []*Characteristic
}

func (s *Service) UUID() string { return s.uuid }

func (s *Service) Characteristics(context.Context) ([]printer.RadioCharacteristic, error) {
	out := make([]printer.RadioCharacteristic, 0, len(s.chars))
	for _, c := range s.chars {
		out = append(out, c)
	}
	return out, nil
}

// Characteristic is a GATT characteristic.
type Characteristic struct {
	conn  *dbus.Conn
	path  dbus.ObjectPath
	uuid  string
	flags []string
}

func (c *Characteristic) UUID() string { return c.uuid }

func (c *Characteristic) Writable() bool {
	return c.hasFlag("write") || c.hasFlag("write-without-response")
}

func (c *Characteristic) hasFlag(flag string) bool {
	for _, f := range c.flags {
		if f == flag {
			return true
		}
	}
	return false
}

// writeType prefers unacknowledged writes when the characteristic allows them.
func (c *Characteristic) writeType() string {
	if c.hasFlag("write-without-response") {
		return "command"
	}
	return "request"
}

func (c *Characteristic) Write(ctx context.Context, data []byte) error {
	opts := map[string]dbus.Variant{"type": dbus.MakeVariant(c.writeType())}
	err := c.conn.Object(busName, c.path).CallWithContext(ctx, ifaceGattChar+".WriteValue", 0, data, opts).Err
	if err != nil {
		return fmt.Errorf("bluez: write %s: %w", c.path, err)
	}
	return nil
}
