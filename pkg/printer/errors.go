package printer

import "errors"

var (
	// ErrDeviceNotFound means discovery matched no device.
	ErrDeviceNotFound = errors.New("printer: no matching device found")
	// ErrConnectionFailure covers open and handshake failures, including a
	// device without a writable channel.
	ErrConnectionFailure = errors.New("printer: connection failed")
	// ErrTransferFailure means a write was rejected mid-stream.
	ErrTransferFailure = errors.New("printer: transfer failed")
	// ErrNotConnected is returned by Print when no transport is active.
	ErrNotConnected = errors.New("printer: not connected")
	// ErrDeviceGone is reported by back ends when the device vanished
	// during an operation.
	ErrDeviceGone       = errors.New("printer: device disconnected")
	ErrManagerClosed    = errors.New("printer: manager closed")
	ErrUnknownTransport = errors.New("printer: unknown transport")
)
