package sport

import (
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Strategy encapsulates the sport-specific pieces of a score update:
// extension validation, extension merging with derived-field recompute,
// and the wording of score incidents. One implementation per sport,
// selected by sport name, with a generic fallback.
type Strategy interface {
	Name() string
	ScoreUnit(delta int) string
	ValidateExtension(extra map[string]any) error
	MergeExtension(existing, incoming map[string]any) map[string]any
	// ScoreIncident renders the incident message for a positive score
	// delta on one side. sideKey is the extension block key for that side
	// (team_a or team_b).
	ScoreIncident(side, sideKey string, delta int, prevExt, newExt map[string]any) string
}

const (
	SideKeyTeamA = "team_a"
	SideKeyTeamB = "team_b"
)

type Registry struct {
	byName   map[string]Strategy
	fallback Strategy
}

func NewRegistry(strategies ...Strategy) *Registry {
	byName := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		byName[strings.ToLower(s.Name())] = s
	}
	return &Registry{
		byName:   byName,
		fallback: GenericStrategy{},
	}
}

// ForSport returns the registered strategy for the sport name, or the
// generic fallback.
func (r *Registry) ForSport(name string) Strategy {
	if s, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s
	}
	return r.fallback
}

// GenericStrategy covers sports without a registered extension block.
type GenericStrategy struct{}

func (GenericStrategy) Name() string { return "generic" }

func (GenericStrategy) ScoreUnit(delta int) string {
	if delta == 1 {
		return "point"
	}
	return "points"
}

func (GenericStrategy) ValidateExtension(map[string]any) error { return nil }

func (GenericStrategy) MergeExtension(existing, incoming map[string]any) map[string]any {
	return shallowMerge(existing, incoming)
}

func (s GenericStrategy) ScoreIncident(side, _ string, delta int, _, _ map[string]any) string {
	return renderScored(side, delta, s.ScoreUnit(delta))
}

// shallowMerge overlays caller keys on top of the existing document;
// the caller wins per top-level key and nested blocks are replaced
// wholesale. Neither input map is mutated.
func shallowMerge(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}

func renderScored(side string, delta int, unit string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(side)
	_, _ = buf.WriteString(" scored ")
	_, _ = buf.WriteString(strconv.Itoa(delta))
	_, _ = buf.WriteString(" ")
	_, _ = buf.WriteString(unit)
	return buf.String()
}

// numberValue coerces the loosely typed values found in extension
// documents into a float64.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
