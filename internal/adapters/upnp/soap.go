package upnp

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey-austin/dlnactl/pkg/dlna"
)

const maxBodyBytes = 1 << 20

type argument struct {
	Name  string
	Value string
}

// InvokeAction posts a SOAP 1.1 action to the service control URL and returns
// the response's output arguments by name. A failed call is never retried.
func (c *Client) InvokeAction(ctx context.Context, dev dlna.Device, serviceType string, action string, args map[string]string) (map[string]string, error) {
	svc, ok := dev.ServiceByType(serviceType)
	if !ok {
		return nil, fmt.Errorf("device %s does not offer %s", dev.FriendlyName, serviceType)
	}
	if svc.ControlURL == "" {
		return nil, fmt.Errorf("service %s on %s has no control URL", svc.ServiceType, dev.FriendlyName)
	}

	ordered := orderArguments(svc, action, args)
	envelope := buildEnvelope(svc.ServiceType, action, ordered)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.ControlURL, bytes.NewReader(envelope))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPACTION", fmt.Sprintf(`"%s#%s"`, svc.ServiceType, action))

	c.log.Debug("upnp soap request",
		zap.String("endpoint", svc.ControlURL),
		zap.String("action", action),
		zap.String("service", svc.ServiceType),
		zap.Any("params", args))
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("upnp soap request failed", zap.String("endpoint", svc.ControlURL), zap.String("action", action), zap.Error(err))
		if isTimeout(ctx, err) {
			return nil, &TimeoutError{Action: action, Err: err}
		}
		return nil, &UnreachableError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &TimeoutError{Action: action, Err: err}
		}
		return nil, &UnreachableError{Action: action, Err: err}
	}
	if resp.StatusCode >= 400 {
		c.log.Debug("upnp soap error",
			zap.String("endpoint", svc.ControlURL),
			zap.String("action", action),
			zap.String("status", resp.Status),
			zap.String("body", truncateBody(string(payload), 512)))
		if code, desc := parseFault(payload); code != "" {
			return nil, &FaultError{Action: action, Code: code, Description: desc}
		}
		return nil, &StatusError{Action: action, Status: resp.Status}
	}
	c.log.Debug("upnp soap response", zap.String("action", action), zap.Int("bytes", len(payload)))
	return parseResponse(payload, action)
}

// orderArguments lists args in the order the SCPD declares the action's input
// arguments. Undeclared args follow, InstanceID first and the rest by name.
func orderArguments(svc dlna.Service, action string, args map[string]string) []argument {
	out := make([]argument, 0, len(args))
	used := make(map[string]struct{}, len(args))
	if a, ok := svc.Action(action); ok {
		for _, name := range a.InputArguments() {
			if v, ok := args[name]; ok {
				out = append(out, argument{Name: name, Value: v})
				used[name] = struct{}{}
			}
		}
	}
	rest := make([]string, 0, len(args))
	for name := range args {
		if _, ok := used[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if rest[i] == "InstanceID" || rest[j] == "InstanceID" {
			return rest[i] == "InstanceID"
		}
		return rest[i] < rest[j]
	})
	for _, name := range rest {
		out = append(out, argument{Name: name, Value: args[name]})
	}
	return out
}

func buildEnvelope(serviceType, action string, args []argument) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	buf.WriteString(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">`)
	buf.WriteString(`<s:Body><u:` + action + ` xmlns:u="` + escapeXML(serviceType) + `">`)
	for _, arg := range args {
		buf.WriteString("<" + arg.Name + ">" + escapeXML(arg.Value) + "</" + arg.Name + ">")
	}
	buf.WriteString(`</u:` + action + `></s:Body></s:Envelope>`)
	return buf.Bytes()
}

// parseResponse collects the child elements of <actionResponse>. An empty
// body or a body without the response element yields no arguments.
func parseResponse(payload []byte, action string) (map[string]string, error) {
	out := map[string]string{}
	if len(bytes.TrimSpace(payload)) == 0 {
		return out, nil
	}
	want := action + "Response"
	decoder := xml.NewDecoder(bytes.NewReader(payload))
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", want, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != want {
			continue
		}
		if err := readArguments(decoder, out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", want, err)
		}
		return out, nil
	}
}

func readArguments(decoder *xml.Decoder, out map[string]string) error {
	for {
		tok, err := decoder.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := decoder.DecodeElement(&value, &t); err != nil {
				return err
			}
			out[t.Name.Local] = value
		case xml.EndElement:
			return nil
		}
	}
}

func parseFault(payload []byte) (string, string) {
	decoder := xml.NewDecoder(bytes.NewReader(payload))
	var code string
	var desc string
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "errorCode":
			var value string
			if err := decoder.DecodeElement(&value, &se); err == nil {
				code = strings.TrimSpace(value)
			}
		case "errorDescription":
			var value string
			if err := decoder.DecodeElement(&value, &se); err == nil {
				desc = strings.TrimSpace(value)
			}
		}
	}
	return code, desc
}

func escapeXML(input string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(input)); err != nil {
		return input
	}
	return b.String()
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncateBody(body string, limit int) string {
	if limit <= 0 || len(body) <= limit {
		return body
	}
	return body[:limit]
}
