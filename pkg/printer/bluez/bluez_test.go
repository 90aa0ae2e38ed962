package bluez

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/sangkips/kasir-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() managedObjects {
	return managedObjects{
		"/org/bluez/hci0": {
			ifaceAdapter: {"Powered": dbus.MakeVariant(true)},
		},
		"/org/bluez/hci0/dev_11_22_33_44_55_66": {
			ifaceDevice: {
				"Address": dbus.MakeVariant("11:22:33:44:55:66"),
				"Name":    dbus.MakeVariant("Headphones"),
				"UUIDs":   dbus.MakeVariant([]string{"0000110b-0000-1000-8000-00805f9b34fb"}),
			},
		},
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF": {
			ifaceDevice: {
				"Address": dbus.MakeVariant("AA:BB:CC:DD:EE:FF"),
				"Alias":   dbus.MakeVariant("RPP02N"),
				"UUIDs":   dbus.MakeVariant([]string{"00001101-0000-1000-8000-00805F9B34FB"}),
			},
		},
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF/service0010": {
			ifaceGattService: {"UUID": dbus.MakeVariant("0000180a-0000-1000-8000-00805f9b34fb")},
		},
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF/service0010/char0011": {
			ifaceGattChar: {
				"UUID":    dbus.MakeVariant("00002a29-0000-1000-8000-00805f9b34fb"),
				"Service": dbus.MakeVariant(dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF/service0010")),
				"Flags":   dbus.MakeVariant([]string{"read"}),
			},
		},
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF/service0020": {
			ifaceGattService: {"UUID": dbus.MakeVariant("000018f0-0000-1000-8000-00805f9b34fb")},
		},
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF/service0020/char0021": {
			ifaceGattChar: {
				"UUID":    dbus.MakeVariant("00002af1-0000-1000-8000-00805f9b34fb"),
				"Service": dbus.MakeVariant(dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF/service0020")),
				"Flags":   dbus.MakeVariant([]string{"write", "write-without-response"}),
			},
		},
	}
}

func TestMatchDevice(t *testing.T) {
	path, ok := matchDevice(fixture(), printer.SerialServiceUUID)
	require.True(t, ok)
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF"), path)

	_, ok = matchDevice(fixture(), "0000fff0-0000-1000-8000-00805f9b34fb")
	assert.False(t, ok)
}

func TestDeviceName(t *testing.T) {
	objects := fixture()
	assert.Equal(t, "RPP02N", deviceName(objects["/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF"][ifaceDevice]))
	assert.Equal(t, "Headphones", deviceName(objects["/org/bluez/hci0/dev_11_22_33_44_55_66"][ifaceDevice]))
	assert.Equal(t, "unknown", deviceName(map[string]dbus.Variant{}))
}

func TestGattLayout(t *testing.T) {
	services := gattLayout(fixture(), "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF")
	require.Len(t, services, 2)

	assert.Equal(t, "0000180a-0000-1000-8000-00805f9b34fb", services[0].UUID())
	require.Len(t, services[0].chars, 1)
	assert.False(t, services[0].chars[0].Writable())

	require.Len(t, services[1].chars, 1)
	c := services[1].chars[0]
	assert.True(t, c.Writable())
	assert.Equal(t, "command", c.writeType())

	assert.Empty(t, gattLayout(fixture(), "/org/bluez/hci0/dev_11_22_33_44_55_66"))
}

func TestCharacteristicWriteType(t *testing.T) {
	assert.Equal(t, "request", (&Characteristic{flags: []string{"write"}}).writeType())
	assert.False(t, (&Characteristic{flags: []string{"notify"}}).Writable())
}

func TestDisconnected(t *testing.T) {
	drop := &dbus.Signal{Body: []interface{}{
		ifaceDevice,
		map[string]dbus.Variant{"Connected": dbus.MakeVariant(false)},
		[]string{},
	}}
	assert.True(t, disconnected(drop))

	up := &dbus.Signal{Body: []interface{}{
		ifaceDevice,
		map[string]dbus.Variant{"Connected": dbus.MakeVariant(true)},
	}}
	assert.False(t, disconnected(up))

	rssi := &dbus.Signal{Body: []interface{}{
		ifaceDevice,
		map[string]dbus.Variant{"RSSI": dbus.MakeVariant(int16(-60))},
	}}
	assert.False(t, disconnected(rssi))

	other := &dbus.Signal{Body: []interface{}{
		ifaceGattChar,
		map[string]dbus.Variant{"Connected": dbus.MakeVariant(false)},
	}}
	assert.False(t, disconnected(other))
	assert.False(t, disconnected(&dbus.Signal{}))
}
