package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey-austin/dlnactl/internal/ports"
)

// Resolver discovers renderers and resolves selectors against them.
type Resolver struct {
	Provider ports.Provider
	Config   Config
	Log      *zap.Logger
}

// ListRenderers runs one discovery pass and returns the selected renderers.
func (r Resolver) ListRenderers(ctx context.Context) ([]*Renderer, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	devs, err := r.Provider.Discover(ctx)
	if err != nil {
		return nil, newError(KindTransport, "discover", "", err)
	}
	renderers := SelectRenderers(devs, r.Config.ServiceID, log)
	log.Debug("discovery finished", zap.Int("devices", len(devs)), zap.Int("renderers", len(renderers)))
	return renderers, nil
}

// ResolveRenderer resolves a selector using config defaults. An empty
// selector with no default picks the only renderer present.
func (r Resolver) ResolveRenderer(ctx context.Context, selector string) (*Renderer, error) {
	renderers, err := r.ListRenderers(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(selector) == "" {
		selector = r.Config.DefaultRenderer
	}
	if strings.TrimSpace(selector) == "" {
		switch len(renderers) {
		case 1:
			return renderers[0], nil
		case 0:
			return nil, newError(KindNotFound, "", "no renderers discovered", nil)
		default:
			return nil, newError(KindInvalidArgument, "", "renderer selector required: "+suggestionList(renderers), nil)
		}
	}
	return resolveSelector(selector, renderers, r.Config.Aliases)
}

func resolveSelector(selector string, renderers []*Renderer, aliases map[string]string) (*Renderer, error) {
	selector = strings.TrimSpace(selector)
	if alias, ok := aliases[selector]; ok {
		selector = alias
	}

	udn := strings.TrimPrefix(selector, "uuid:")
	for _, rd := range renderers {
		if strings.TrimPrefix(rd.UDN(), "uuid:") == udn {
			return rd, nil
		}
	}

	if idx, err := strconv.Atoi(selector); err == nil && idx >= 1 && idx <= len(renderers) {
		return renderers[idx-1], nil
	}

	matches := make([]*Renderer, 0)
	for _, rd := range renderers {
		if strings.EqualFold(rd.Name(), selector) {
			matches = append(matches, rd)
		}
	}
	if len(matches) == 0 {
		lower := strings.ToLower(selector)
		for _, rd := range renderers {
			if strings.HasPrefix(strings.ToLower(rd.Name()), lower) {
				matches = append(matches, rd)
			}
		}
	}

	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) == 0 {
		return nil, newError(KindNotFound, "", fmt.Sprintf("no renderer matches %q", selector), nil)
	}
	return nil, newError(KindInvalidArgument, "", fmt.Sprintf("ambiguous selector %q: %s", selector, suggestionList(matches)), nil)
}

func suggestionList(matches []*Renderer) string {
	names := make([]string, 0, len(matches))
	for _, rd := range matches {
		names = append(names, fmt.Sprintf("%s (%s)", rd.Name(), rd.UDN()))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
