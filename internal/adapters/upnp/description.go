package upnp

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/mikey-austin/dlnactl/pkg/dlna"
)

// Device description parsing.
type rootDescription struct {
	URLBase string     `xml:"URLBase"`
	Device  deviceNode `xml:"device"`
}

type deviceNode struct {
	DeviceType   string        `xml:"deviceType"`
	FriendlyName string        `xml:"friendlyName"`
	Manufacturer string        `xml:"manufacturer"`
	ModelName    string        `xml:"modelName"`
	UDN          string        `xml:"UDN"`
	Services     []serviceNode `xml:"serviceList>service"`
	Devices      []deviceNode  `xml:"deviceList>device"`
}

type serviceNode struct {
	ServiceType string `xml:"serviceType"`
	ServiceID   string `xml:"serviceId"`
	SCPDURL     string `xml:"SCPDURL"`
	ControlURL  string `xml:"controlURL"`
	EventSubURL string `xml:"eventSubURL"`
}

// Service description (SCPD) parsing.
type scpdDocument struct {
	Actions        []scpdAction   `xml:"actionList>action"`
	StateVariables []scpdVariable `xml:"serviceStateTable>stateVariable"`
}

type scpdAction struct {
	Name      string         `xml:"name"`
	Arguments []scpdArgument `xml:"argumentList>argument"`
}

type scpdArgument struct {
	Name                 string `xml:"name"`
	Direction            string `xml:"direction"`
	RelatedStateVariable string `xml:"relatedStateVariable"`
}

type scpdVariable struct {
	SendEvents    string     `xml:"sendEvents,attr"`
	Name          string     `xml:"name"`
	DataType      string     `xml:"dataType"`
	AllowedValues []string   `xml:"allowedValueList>allowedValue"`
	Range         *scpdRange `xml:"allowedValueRange"`
}

type scpdRange struct {
	Minimum string `xml:"minimum"`
	Maximum string `xml:"maximum"`
	Step    string `xml:"step"`
}

func parseDescription(payload []byte) (rootDescription, error) {
	var desc rootDescription
	if err := xml.Unmarshal(payload, &desc); err != nil {
		return rootDescription{}, fmt.Errorf("parse device description: %w", err)
	}
	if strings.TrimSpace(desc.Device.UDN) == "" {
		return rootDescription{}, fmt.Errorf("parse device description: missing UDN")
	}
	return desc, nil
}

func parseSCPD(payload []byte) (scpdDocument, error) {
	var doc scpdDocument
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return scpdDocument{}, fmt.Errorf("parse service description: %w", err)
	}
	return doc, nil
}

// BaseURL returns the URL relative references resolve against: URLBase when
// present, else the description location itself.
func (d rootDescription) BaseURL(location string) string {
	if base := strings.TrimSpace(d.URLBase); base != "" {
		return base
	}
	return location
}

// Devices flattens the root device and its embedded devices, depth first.
// Service URLs are resolved against base.
func (d rootDescription) Devices(location string) []dlna.Device {
	base := d.BaseURL(location)
	var out []dlna.Device
	var walk func(n deviceNode)
	walk = func(n deviceNode) {
		out = append(out, n.toDevice(location, base))
		for _, child := range n.Devices {
			walk(child)
		}
	}
	walk(d.Device)
	return out
}

func (n deviceNode) toDevice(location, base string) dlna.Device {
	dev := dlna.Device{
		UDN:          strings.TrimSpace(n.UDN),
		FriendlyName: strings.TrimSpace(n.FriendlyName),
		DeviceType:   strings.TrimSpace(n.DeviceType),
		Manufacturer: strings.TrimSpace(n.Manufacturer),
		ModelName:    strings.TrimSpace(n.ModelName),
		Location:     location,
		BaseURL:      base,
		Services:     make([]dlna.Service, 0, len(n.Services)),
	}
	for _, svc := range n.Services {
		dev.Services = append(dev.Services, dlna.Service{
			ServiceID:   strings.TrimSpace(svc.ServiceID),
			ServiceType: strings.TrimSpace(svc.ServiceType),
			ControlURL:  resolveURL(base, strings.TrimSpace(svc.ControlURL)),
			SCPDURL:     resolveURL(base, strings.TrimSpace(svc.SCPDURL)),
			EventSubURL: resolveURL(base, strings.TrimSpace(svc.EventSubURL)),
		})
	}
	return dev
}

// apply copies SCPD metadata onto svc. Values are kept raw; the capability
// index interprets them.
func (doc scpdDocument) apply(svc *dlna.Service) {
	svc.Actions = make([]dlna.Action, 0, len(doc.Actions))
	for _, a := range doc.Actions {
		action := dlna.Action{Name: strings.TrimSpace(a.Name)}
		for _, arg := range a.Arguments {
			action.Arguments = append(action.Arguments, dlna.Argument{
				Name:                 strings.TrimSpace(arg.Name),
				Direction:            strings.ToLower(strings.TrimSpace(arg.Direction)),
				RelatedStateVariable: strings.TrimSpace(arg.RelatedStateVariable),
			})
		}
		svc.Actions = append(svc.Actions, action)
	}
	svc.StateVariables = make([]dlna.StateVariable, 0, len(doc.StateVariables))
	for _, v := range doc.StateVariables {
		sv := dlna.StateVariable{
			Name:          strings.TrimSpace(v.Name),
			DataType:      strings.TrimSpace(v.DataType),
			SendEvents:    strings.EqualFold(strings.TrimSpace(v.SendEvents), "yes"),
			AllowedValues: v.AllowedValues,
		}
		if v.Range != nil {
			sv.Range = &dlna.RawRange{Minimum: v.Range.Minimum, Maximum: v.Range.Maximum, Step: v.Range.Step}
		}
		svc.StateVariables = append(svc.StateVariables, sv)
	}
}

func resolveURL(baseURL string, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + ref
	}
	rel, err := url.Parse(ref)
	if err != nil {
		base.Path = path.Join(base.Path, ref)
		return base.String()
	}
	return base.ResolveReference(rel).String()
}
