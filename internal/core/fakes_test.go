package core

import (
	"context"
	"sync"

	"github.com/mikey-austin/dlnactl/internal/ports"
	"github.com/mikey-austin/dlnactl/pkg/dlna"
)

type invocation struct {
	UDN         string
	ServiceType string
	Action      string
	Args        map[string]string
}

type fakeInvoker struct {
	mu        sync.Mutex
	responses map[string]map[string]string
	errs      map[string]error
	calls     []invocation
}

func (f *fakeInvoker) InvokeAction(ctx context.Context, dev dlna.Device, serviceType string, action string, args map[string]string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, invocation{UDN: dev.UDN, ServiceType: serviceType, Action: action, Args: args})
	if err := f.errs[action]; err != nil {
		return nil, err
	}
	return f.responses[action], nil
}

func (f *fakeInvoker) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Action)
	}
	return out
}

func (f *fakeInvoker) last() invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type fakeProvider struct {
	*fakeInvoker
	devices []dlna.Device
	err     error
}

func (f fakeProvider) Discover(ctx context.Context) ([]dlna.Device, error) {
	return f.devices, f.err
}

type recordingSink struct {
	events []ports.Event
	err    error
}

func (s *recordingSink) Emit(ctx context.Context, ev ports.Event) error {
	s.events = append(s.events, ev)
	return s.err
}

type stubClock struct{}

func (stubClock) NowUnix() int64 { return 100 }

type stubIDGen struct{}

func (stubIDGen) NewID() string { return "id-1" }

// rendererDevice builds a device with AVTransport and RenderingControl; an
// empty maxVolume declares no Volume range.
func rendererDevice(udn, name, maxVolume string) dlna.Device {
	volume := dlna.StateVariable{Name: "Volume", DataType: "ui2"}
	if maxVolume != "" {
		volume.Range = &dlna.RawRange{Minimum: "0", Maximum: maxVolume, Step: "1"}
	}
	return dlna.Device{
		UDN:          udn,
		FriendlyName: name,
		DeviceType:   dlna.DeviceTypeMediaRenderer,
		Services: []dlna.Service{
			{
				ServiceID:   dlna.ServiceIDAVTransport,
				ServiceType: dlna.ServiceTypeAVTransport,
				StateVariables: []dlna.StateVariable{
					{Name: "TransportState", DataType: "string", AllowedValues: []string{"STOPPED", "PLAYING"}},
				},
			},
			{
				ServiceID:      dlna.ServiceIDRenderingControl,
				ServiceType:    dlna.ServiceTypeRenderingControl,
				StateVariables: []dlna.StateVariable{volume},
			},
		},
	}
}

func testRenderer(maxVolume string) *Renderer {
	return SelectRenderers([]dlna.Device{rendererDevice("uuid:r1", "Living Room", maxVolume)}, "", nil)[0]
}
