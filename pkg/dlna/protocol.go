package dlna

import "strings"

// Service identifiers as advertised in device descriptions.
const (
	ServiceIDAVTransport      = "urn:upnp-org:serviceId:AVTransport"
	ServiceIDRenderingControl = "urn:upnp-org:serviceId:RenderingControl"
	ServiceIDConnectionMgr    = "urn:upnp-org:serviceId:ConnectionManager"
)

// Service types used as SOAP namespaces.
const (
	ServiceTypeAVTransport      = "urn:schemas-upnp-org:service:AVTransport:1"
	ServiceTypeRenderingControl = "urn:schemas-upnp-org:service:RenderingControl:1"
)

// DeviceTypeMediaRenderer is the default SSDP search target.
const DeviceTypeMediaRenderer = "urn:schemas-upnp-org:device:MediaRenderer:1"

// Seek units accepted by AVTransport.Seek.
const (
	SeekUnitAbsTime = "ABS_TIME"
	SeekUnitRelTime = "REL_TIME"
	SeekUnitTrackNr = "TRACK_NR"
)

// ChannelMaster is the RenderingControl channel used for volume and mute.
const ChannelMaster = "Master"

// InstanceID is the virtual instance addressed by every call.
const InstanceID = "0"

// Device is a discovered UPnP device and its described services.
type Device struct {
	UDN          string    `json:"udn"`
	FriendlyName string    `json:"friendlyName"`
	DeviceType   string    `json:"deviceType"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	ModelName    string    `json:"modelName,omitempty"`
	Location     string    `json:"location"`
	BaseURL      string    `json:"baseURL"`
	Services     []Service `json:"services,omitempty"`
}

// Service is a single service entry with its SCPD metadata.
type Service struct {
	ServiceID      string          `json:"serviceId"`
	ServiceType    string          `json:"serviceType"`
	ControlURL     string          `json:"controlURL"`
	SCPDURL        string          `json:"scpdURL"`
	EventSubURL    string          `json:"eventSubURL,omitempty"`
	Actions        []Action        `json:"actions,omitempty"`
	StateVariables []StateVariable `json:"stateVariables,omitempty"`
}

// Action describes a remotely invocable action.
type Action struct {
	Name      string     `json:"name"`
	Arguments []Argument `json:"arguments,omitempty"`
}

// Argument is a declared action argument.
type Argument struct {
	Name                 string `json:"name"`
	Direction            string `json:"direction"`
	RelatedStateVariable string `json:"relatedStateVariable,omitempty"`
}

// StateVariable is the raw stateVariable node from an SCPD document.
type StateVariable struct {
	Name          string    `json:"name"`
	DataType      string    `json:"dataType"`
	SendEvents    bool      `json:"sendEvents,omitempty"`
	AllowedValues []string  `json:"allowedValues,omitempty"`
	Range         *RawRange `json:"range,omitempty"`
}

// RawRange holds allowedValueRange text exactly as declared.
type RawRange struct {
	Minimum string `json:"minimum,omitempty"`
	Maximum string `json:"maximum,omitempty"`
	Step    string `json:"step,omitempty"`
}

// ServiceByID returns the service with the exact identifier.
func (d Device) ServiceByID(id string) (Service, bool) {
	for _, svc := range d.Services {
		if svc.ServiceID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// ServiceByType returns the first service whose type matches, ignoring version.
func (d Device) ServiceByType(serviceType string) (Service, bool) {
	want := stripVersion(serviceType)
	for _, svc := range d.Services {
		if svc.ServiceType == serviceType || stripVersion(svc.ServiceType) == want {
			return svc, true
		}
	}
	return Service{}, false
}

// Action returns the named action declaration.
func (s Service) Action(name string) (Action, bool) {
	for _, a := range s.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// InputArguments returns the names of "in" arguments in declared order.
func (a Action) InputArguments() []string {
	out := make([]string, 0, len(a.Arguments))
	for _, arg := range a.Arguments {
		if strings.EqualFold(arg.Direction, "in") {
			out = append(out, arg.Name)
		}
	}
	return out
}

func stripVersion(serviceType string) string {
	idx := strings.LastIndex(serviceType, ":")
	if idx <= 0 {
		return serviceType
	}
	return serviceType[:idx]
}
