package unit

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-fx/dsp/param"
)

// Parameterized exposes a unit's parameters by index. Indices are dense
// in [0, ParameterCount) and stable for the life of the unit.
type Parameterized interface {
	ParameterCount() int
	ParameterInfo(index int) param.Descriptor
	Parameter(index int) float64
	SetParameter(index int, value float64) error
}

// FindParameter looks a parameter up by name or short name,
// case-insensitively. It returns the index and whether a match exists.
func FindParameter(p Parameterized, name string) (int, bool) {
	for i := 0; i < p.ParameterCount(); i++ {
		d := p.ParameterInfo(i)
		if strings.EqualFold(d.Name, name) || strings.EqualFold(d.ShortName, name) {
			return i, true
		}
	}

	return 0, false
}

// Setting is one recorded parameter write.
type Setting struct {
	Index int
	Value float64
}

// Capture snapshots every parameter of p as a replayable setting list.
func Capture(p Parameterized) []Setting {
	settings := make([]Setting, p.ParameterCount())
	for i := range settings {
		settings[i] = Setting{Index: i, Value: p.Parameter(i)}
	}

	return settings
}

// Apply replays a setting list onto p in order.
func Apply(p Parameterized, settings []Setting) error {
	for _, s := range settings {
		if s.Index < 0 || s.Index >= p.ParameterCount() {
			return fmt.Errorf("parameter index out of range: %d", s.Index)
		}

		if err := p.SetParameter(s.Index, s.Value); err != nil {
			return fmt.Errorf("parameter %d: %w", s.Index, err)
		}
	}

	return nil
}
