package ports

import (
	"context"

	"github.com/mikey-austin/dlnactl/pkg/dlna"
)

// Invoker performs a single remote action call and returns its output arguments.
type Invoker interface {
	InvokeAction(ctx context.Context, dev dlna.Device, serviceType string, action string, args map[string]string) (map[string]string, error)
}

// Provider discovers devices and invokes actions on them.
type Provider interface {
	Invoker
	Discover(ctx context.Context) ([]dlna.Device, error)
}

// Event records the outcome of one command.
type Event struct {
	ID        string   `json:"id"`
	TS        int64    `json:"ts"`
	DeviceUDN string   `json:"udn"`
	Device    string   `json:"device"`
	Command   string   `json:"command"`
	Args      []string `json:"args,omitempty"`
	OK        bool     `json:"ok"`
	Result    any      `json:"result,omitempty"`
	ErrorKind string   `json:"errorKind,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// EventSink receives command outcome events.
type EventSink interface {
	Emit(ctx context.Context, ev Event) error
}

// Clock returns the current unix time in seconds.
type Clock interface {
	NowUnix() int64
}

// IDGen returns unique correlation IDs.
type IDGen interface {
	NewID() string
}
