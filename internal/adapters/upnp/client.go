package upnp

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexballas/go-ssdp"
	"go.uber.org/zap"

	"github.com/mikey-austin/dlnactl/pkg/dlna"
)

// Defaults for Options.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultWait         = 2 * time.Second
	DefaultSearchTarget = ssdp.All
)

// Options configures a Client.
type Options struct {
	// Timeout bounds each HTTP request (description, SCPD and SOAP).
	Timeout time.Duration
	// Wait is the SSDP MX window; rounded up to whole seconds.
	Wait time.Duration
	// SearchTarget is the M-SEARCH ST header.
	SearchTarget string
	// ListenAddr binds the search socket, e.g. "192.168.1.10:0".
	ListenAddr string
}

// SearchFunc performs one SSDP search.
type SearchFunc func(searchType string, waitSec int, localAddr string) ([]ssdp.Service, error)

// Client discovers UPnP devices over SSDP and invokes their SOAP actions.
type Client struct {
	log    *zap.Logger
	http   *http.Client
	opts   Options
	search SearchFunc
}

// New creates a Client.
func New(log *zap.Logger, opts Options) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Wait <= 0 {
		opts.Wait = DefaultWait
	}
	if strings.TrimSpace(opts.SearchTarget) == "" {
		opts.SearchTarget = DefaultSearchTarget
	}
	return &Client{
		log:  log,
		opts: opts,
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: opts.Timeout}).DialContext,
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		search: ssdp.Search,
	}
}

type searchResult struct {
	services []ssdp.Service
	err      error
}

// Discover runs one SSDP search and describes every responding location.
// Devices whose description cannot be fetched are skipped; a service whose
// SCPD cannot be fetched is kept without metadata.
func (c *Client) Discover(ctx context.Context) ([]dlna.Device, error) {
	waitSec := int((c.opts.Wait + time.Second - 1) / time.Second)
	done := make(chan searchResult, 1)
	go func() {
		services, err := c.search(c.opts.SearchTarget, waitSec, c.opts.ListenAddr)
		done <- searchResult{services: services, err: err}
	}()

	var res searchResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("ssdp search: %w", res.err)
	}
	c.log.Debug("ssdp search finished", zap.String("target", c.opts.SearchTarget), zap.Int("responses", len(res.services)))

	seen := make(map[string]struct{}, len(res.services))
	devices := make([]dlna.Device, 0, len(res.services))
	for _, svc := range res.services {
		location := strings.TrimSpace(svc.Location)
		if location == "" {
			continue
		}
		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}
		devs, err := c.Describe(ctx, location)
		if err != nil {
			if ctx.Err() != nil {
				return devices, ctx.Err()
			}
			c.log.Debug("describe device failed", zap.String("location", location), zap.String("usn", svc.USN), zap.Error(err))
			continue
		}
		devices = append(devices, devs...)
	}
	return devices, nil
}

// Describe fetches a description document and the SCPD of every service of
// the root device and its embedded devices.
func (c *Client) Describe(ctx context.Context, location string) ([]dlna.Device, error) {
	payload, err := c.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	desc, err := parseDescription(payload)
	if err != nil {
		return nil, err
	}
	devs := desc.Devices(location)
	for i := range devs {
		for j := range devs[i].Services {
			svc := &devs[i].Services[j]
			if svc.SCPDURL == "" {
				continue
			}
			raw, err := c.fetch(ctx, svc.SCPDURL)
			if err == nil {
				var doc scpdDocument
				if doc, err = parseSCPD(raw); err == nil {
					doc.apply(svc)
					continue
				}
			}
			c.log.Debug("service description unavailable",
				zap.String("device", devs[i].FriendlyName),
				zap.String("service", svc.ServiceID),
				zap.String("scpd", svc.SCPDURL),
				zap.Error(err))
		}
		c.log.Debug("upnp device described",
			zap.String("name", devs[i].FriendlyName),
			zap.String("udn", devs[i].UDN),
			zap.String("type", devs[i].DeviceType),
			zap.Int("services", len(devs[i].Services)))
	}
	return devs, nil
}

func (c *Client) fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: %s", location, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
