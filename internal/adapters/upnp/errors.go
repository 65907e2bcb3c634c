package upnp

import "fmt"

// FaultError is a UPnP error returned in a SOAP fault.
type FaultError struct {
	Action      string
	Code        string
	Description string
}

func (e *FaultError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("upnp action %s rejected: code %s", e.Action, e.Code)
	}
	return fmt.Sprintf("upnp action %s rejected: code %s (%s)", e.Action, e.Code, e.Description)
}

// StatusError is an HTTP failure without a decodable fault.
type StatusError struct {
	Action string
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upnp action %s failed: %s", e.Action, e.Status)
}

// TimeoutError indicates the device did not answer in time.
type TimeoutError struct {
	Action string
	Err    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("upnp action %s timed out", e.Action)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// UnreachableError indicates the device could not be reached.
type UnreachableError struct {
	Action string
	Err    error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("upnp action %s unreachable: %v", e.Action, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
