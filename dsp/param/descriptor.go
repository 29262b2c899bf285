package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scale identifies the curve a host should use when rendering an
// automation arc for the parameter.
type Scale int

const (
	// ScaleLinear maps the normalized range evenly.
	ScaleLinear Scale = iota
	// ScaleLogarithmic suits frequencies and times spanning decades.
	ScaleLogarithmic
	// ScalePower applies x^exponent shaping on the normalized value.
	ScalePower
)

// Descriptor describes one externally visible parameter. Descriptors are
// static metadata: the hot path only reads Min/Max/Step for clamping.
type Descriptor struct {
	// ID is the stable numeric identifier persisted across sessions and
	// chain reorders. Distinct from the parameter's index.
	ID uint32

	Name      string
	ShortName string
	Unit      string

	Min     float64
	Max     float64
	Default float64
	// Step > 0 quantizes the value to multiples of Step above Min.
	Step float64

	Scale Scale
	// Exponent shapes ScalePower curves; ignored otherwise.
	Exponent float64

	// Formatter and Parser override value-to-text / text-to-value
	// conversion for display. Both are optional and non-real-time.
	Formatter func(float64) string
	Parser    func(string) (float64, error)
}

// Clamp limits v to the descriptor's bounds and quantizes to Step.
// Out-of-range values are routine (automation, modulation) and are never
// reported as errors.
func (d Descriptor) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return d.Default
	}

	if v < d.Min {
		v = d.Min
	}

	if v > d.Max {
		v = d.Max
	}

	if d.Step > 0 {
		v = d.Min + math.Round((v-d.Min)/d.Step)*d.Step
		if v > d.Max {
			v = d.Max
		}
	}

	return v
}

// Normalize maps a plain value onto [0, 1] through the scale curve.
func (d Descriptor) Normalize(plain float64) float64 {
	if d.Max <= d.Min {
		return 0
	}

	plain = d.Clamp(plain)

	switch d.Scale {
	case ScaleLogarithmic:
		if d.Min > 0 {
			return math.Log(plain/d.Min) / math.Log(d.Max/d.Min)
		}
	case ScalePower:
		if d.Exponent > 0 {
			return math.Pow((plain-d.Min)/(d.Max-d.Min), 1/d.Exponent)
		}
	}

	return (plain - d.Min) / (d.Max - d.Min)
}

// Denormalize maps a normalized [0, 1] value back to the plain range.
func (d Descriptor) Denormalize(norm float64) float64 {
	if norm < 0 {
		norm = 0
	}

	if norm > 1 {
		norm = 1
	}

	switch d.Scale {
	case ScaleLogarithmic:
		if d.Min > 0 {
			return d.Clamp(d.Min * math.Pow(d.Max/d.Min, norm))
		}
	case ScalePower:
		if d.Exponent > 0 {
			return d.Clamp(d.Min + (d.Max-d.Min)*math.Pow(norm, d.Exponent))
		}
	}

	return d.Clamp(d.Min + norm*(d.Max-d.Min))
}

// FormatValue renders a plain value for display. Non-real-time.
func (d Descriptor) FormatValue(v float64) string {
	if d.Formatter != nil {
		return d.Formatter(v)
	}

	text := strconv.FormatFloat(d.Clamp(v), 'f', displayDecimals(d), 64)
	if d.Unit != "" {
		return text + " " + d.Unit
	}

	return text
}

// ParseValue converts display text back to a clamped plain value.
// Non-real-time.
func (d Descriptor) ParseValue(text string) (float64, error) {
	if d.Parser != nil {
		v, err := d.Parser(text)
		if err != nil {
			return 0, err
		}

		return d.Clamp(v), nil
	}

	text = strings.TrimSpace(text)
	if d.Unit != "" {
		text = strings.TrimSpace(strings.TrimSuffix(text, d.Unit))
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", d.Name, err)
	}

	return d.Clamp(v), nil
}

func displayDecimals(d Descriptor) int {
	if d.Step > 0 && d.Step == math.Trunc(d.Step) {
		return 0
	}

	return 2
}
