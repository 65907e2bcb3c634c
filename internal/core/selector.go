package core

import (
	"go.uber.org/zap"

	"github.com/mikey-austin/dlnactl/pkg/dlna"
)

// Renderer is a discovered device exposing the control service, together with
// the capability index of each of its services.
type Renderer struct {
	Device       dlna.Device
	Capabilities map[string]Index // keyed by service ID
}

// UDN returns the device UDN.
func (r *Renderer) UDN() string { return r.Device.UDN }

// Name returns the device friendly name.
func (r *Renderer) Name() string { return r.Device.FriendlyName }

// Lookup finds a state variable descriptor, preferring the service that
// declares it under the given service ID and falling back to any service in
// declaration order.
func (r *Renderer) Lookup(serviceID string, name string) (Descriptor, error) {
	if idx, ok := r.Capabilities[serviceID]; ok {
		if d, ok := idx[name]; ok {
			return d, nil
		}
	}
	for _, svc := range r.Device.Services {
		if d, ok := r.Capabilities[svc.ServiceID][name]; ok {
			return d, nil
		}
	}
	return Descriptor{}, newError(KindCapability, "", "state variable "+name+" not declared by "+r.Name(), nil)
}

// SelectRenderers keeps devices exposing a service whose ID equals serviceID,
// in discovery order and without de-duplication, and indexes their services.
func SelectRenderers(devs []dlna.Device, serviceID string, log *zap.Logger) []*Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	if serviceID == "" {
		serviceID = dlna.ServiceIDAVTransport
	}
	out := make([]*Renderer, 0, len(devs))
	for _, dev := range devs {
		if _, ok := dev.ServiceByID(serviceID); !ok {
			log.Debug("skipping device without control service",
				zap.String("device", dev.FriendlyName),
				zap.String("udn", dev.UDN),
				zap.String("service_id", serviceID))
			continue
		}
		r := &Renderer{Device: dev, Capabilities: make(map[string]Index, len(dev.Services))}
		for _, svc := range dev.Services {
			r.Capabilities[svc.ServiceID] = BuildIndex(svc.StateVariables, log)
		}
		log.Debug("renderer selected",
			zap.String("device", dev.FriendlyName),
			zap.String("udn", dev.UDN),
			zap.Int("services", len(dev.Services)))
		out = append(out, r)
	}
	return out
}
