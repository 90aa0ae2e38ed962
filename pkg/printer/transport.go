package printer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TransportKind identifies a printer connection type.
type TransportKind int

const (
	TransportNone TransportKind = iota
	TransportRadio
	TransportWired
)

var transportKindNames = map[TransportKind]string{
	TransportNone:  "none",
	TransportRadio: "radio",
	TransportWired: "wired",
}

func (k TransportKind) String() string {
	if name, ok := transportKindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k TransportKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *TransportKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTransportKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseTransportKind accepts "none", "radio" and "wired". The platform
// names "bluetooth" and "usb" are accepted as aliases.
func ParseTransportKind(s string) (TransportKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TransportNone, nil
	case "radio", "bluetooth":
		return TransportRadio, nil
	case "wired", "usb":
		return TransportWired, nil
	}
	return TransportNone, fmt.Errorf("%w: %q", ErrUnknownTransport, s)
}

// DeviceHandle describes the device a transport has opened.
type DeviceHandle struct {
	Kind TransportKind `json:"transport"`
	Name string        `json:"name"`
	ID   string        `json:"id"`
}

// Transport moves raw ESC/POS bytes to one physical printer.
type Transport interface {
	Kind() TransportKind
	// Open discovers and opens a device. onDisconnect is invoked when the
	// device drops the connection on its own; it may be called from another
	// goroutine and must not block.
	Open(ctx context.Context, onDisconnect func()) (DeviceHandle, error)
	// Send writes data to the open device, returning once every byte has
	// been accepted.
	Send(ctx context.Context, data []byte) error
	Close() error
}
