package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey-austin/dlnactl/pkg/dlna"
)

// Bound is one end (or the step) of a declared value range. Int is only set
// when the variable's datatype is unsigned ("ui1", "ui2", "ui4", ...).
type Bound struct {
	Raw   string `json:"raw,omitempty"`
	Int   int64  `json:"int,omitempty"`
	IsInt bool   `json:"isInt,omitempty"`
}

// Range is a declared allowedValueRange. A zero Range means no bound declared.
type Range struct {
	Min  Bound `json:"min"`
	Max  Bound `json:"max"`
	Step Bound `json:"step"`
}

// Empty reports whether the device declared no bounds.
func (r Range) Empty() bool {
	return r.Min.Raw == "" && r.Max.Raw == ""
}

// Descriptor is the normalized view of one state variable.
type Descriptor struct {
	Name          string              `json:"name"`
	DataType      string              `json:"dataType"`
	AllowedValues map[string]struct{} `json:"allowedValues"`
	Range         Range               `json:"range"`
}

// Allows reports whether v is one of the declared discrete values. A variable
// with no declared values allows anything.
func (d Descriptor) Allows(v string) bool {
	if len(d.AllowedValues) == 0 {
		return true
	}
	_, ok := d.AllowedValues[v]
	return ok
}

// Values returns the allowed values sorted.
func (d Descriptor) Values() []string {
	out := make([]string, 0, len(d.AllowedValues))
	for v := range d.AllowedValues {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// IntMax returns the integral range maximum, failing when the device declares
// none or a non-positive one.
func (d Descriptor) IntMax() (int64, error) {
	if d.Range.Empty() || d.Range.Max.Raw == "" {
		return 0, newError(KindCapability, "", fmt.Sprintf("%s declares no range", d.Name), nil)
	}
	if !d.Range.Max.IsInt {
		return 0, newError(KindCapability, "", fmt.Sprintf("%s range max %q is not integral (datatype %q)", d.Name, d.Range.Max.Raw, d.DataType), nil)
	}
	if d.Range.Max.Int <= 0 {
		return 0, newError(KindCapability, "", fmt.Sprintf("%s range max is %d", d.Name, d.Range.Max.Int), nil)
	}
	return d.Range.Max.Int, nil
}

// Index maps state variable names to descriptors for one service.
type Index map[string]Descriptor

// Lookup returns the named descriptor or a capability error.
func (idx Index) Lookup(name string) (Descriptor, error) {
	d, ok := idx[name]
	if !ok {
		return Descriptor{}, newError(KindCapability, "", fmt.Sprintf("state variable %s not declared", name), nil)
	}
	return d, nil
}

// BuildIndex turns raw SCPD state variable nodes into descriptors.
func BuildIndex(vars []dlna.StateVariable, log *zap.Logger) Index {
	if log == nil {
		log = zap.NewNop()
	}
	idx := make(Index, len(vars))
	for _, v := range vars {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			continue
		}
		desc := Descriptor{
			Name:          name,
			DataType:      strings.TrimSpace(v.DataType),
			AllowedValues: map[string]struct{}{},
		}
		for _, val := range v.AllowedValues {
			desc.AllowedValues[strings.TrimSpace(val)] = struct{}{}
		}
		if v.Range != nil {
			desc.Range = parseRange(desc.DataType, *v.Range)
			if desc.Range.Min.IsInt && desc.Range.Max.IsInt && desc.Range.Min.Int > desc.Range.Max.Int {
				log.Debug("dropping inverted range",
					zap.String("variable", name),
					zap.Int64("min", desc.Range.Min.Int),
					zap.Int64("max", desc.Range.Max.Int))
				desc.Range = Range{}
			}
		}
		idx[name] = desc
	}
	return idx
}

func parseRange(dataType string, raw dlna.RawRange) Range {
	unsigned := strings.HasPrefix(strings.ToLower(dataType), "ui")
	return Range{
		Min:  parseBound(raw.Minimum, unsigned),
		Max:  parseBound(raw.Maximum, unsigned),
		Step: parseBound(raw.Step, unsigned),
	}
}

func parseBound(raw string, unsigned bool) Bound {
	b := Bound{Raw: strings.TrimSpace(raw)}
	if !unsigned || b.Raw == "" {
		return b
	}
	if n, err := strconv.ParseInt(b.Raw, 10, 64); err == nil {
		b.Int = n
		b.IsInt = true
	}
	return b
}
