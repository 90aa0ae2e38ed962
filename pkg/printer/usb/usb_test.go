package usb

import (
	"errors"
	"testing"

	"github.com/google/gousb"
	"github.com/sangkips/kasir-api/pkg/printer"
	"github.com/stretchr/testify/assert"
)

func TestMatchesClass(t *testing.T) {
	deviceLevel := &gousb.DeviceDesc{Class: gousb.ClassPrinter}
	assert.True(t, matchesClass(deviceLevel, gousb.ClassPrinter))

	interfaceLevel := &gousb.DeviceDesc{
		Class: gousb.ClassPerInterface,
		Configs: map[int]gousb.ConfigDesc{
			1: {Number: 1, Interfaces: []gousb.InterfaceDesc{
				{Number: 0, AltSettings: []gousb.InterfaceSetting{{Class: gousb.ClassPrinter}}},
			}},
		},
	}
	assert.True(t, matchesClass(interfaceLevel, gousb.ClassPrinter))

	keyboard := &gousb.DeviceDesc{
		Class: gousb.ClassPerInterface,
		Configs: map[int]gousb.ConfigDesc{
			1: {Number: 1, Interfaces: []gousb.InterfaceDesc{
				{Number: 0, AltSettings: []gousb.InterfaceSetting{{Class: gousb.ClassHID}}},
			}},
		},
	}
	assert.False(t, matchesClass(keyboard, gousb.ClassPrinter))
}

func TestOutEndpoints(t *testing.T) {
	setting := gousb.InterfaceSetting{
		Endpoints: map[gousb.EndpointAddress]gousb.EndpointDesc{
			0x81: {Number: 1, Direction: gousb.EndpointDirectionIn},
			0x03: {Number: 3, Direction: gousb.EndpointDirectionOut},
			0x02: {Number: 2, Direction: gousb.EndpointDirectionOut},
		},
	}
	assert.Equal(t, []int{2, 3}, outEndpoints(setting))
	assert.Empty(t, outEndpoints(gousb.InterfaceSetting{}))
}

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError(gousb.ErrorNoDevice), printer.ErrDeviceGone)
	assert.ErrorIs(t, mapError(gousb.TransferNoDevice), printer.ErrDeviceGone)

	other := errors.New("pipe")
	assert.Equal(t, other, mapError(other))
}
