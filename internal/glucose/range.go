package glucose

import (
	"fmt"
	"image/color"
)

// Range is the color bucket a mmol/L value falls into.
type Range int

const (
	VeryLow Range = iota
	Low
	InRange
	High
	VeryHigh
)

// Range thresholds in mmol/L.
const (
	VeryLowBelow = 3.4
	LowUpTo      = 4.0
	InRangeUpTo  = 7.8
	HighUpTo     = 10.0
)

// Classify partitions all reals into the five ranges:
//
//	v < 3.4          VeryLow
//	3.4 <= v <= 4.0  Low
//	4.0 <  v <= 7.8  InRange
//	7.8 <  v <= 10.0 High
//	otherwise        VeryHigh (including NaN)
func Classify(mmol float64) Range {
	switch {
	case mmol < VeryLowBelow:
		return VeryLow
	case mmol <= LowUpTo:
		return Low
	case mmol <= InRangeUpTo:
		return InRange
	case mmol <= HighUpTo:
		return High
	default:
		return VeryHigh
	}
}

func (r Range) String() string {
	switch r {
	case VeryLow:
		return "very-low"
	case Low:
		return "low"
	case InRange:
		return "in-range"
	case High:
		return "high"
	case VeryHigh:
		return "very-high"
	default:
		return "unknown"
	}
}

// Urgent reports whether the range warrants an alert.
func (r Range) Urgent() bool {
	return r == VeryLow || r == VeryHigh
}

// Color is the badge fill for the range.
func (r Range) Color() color.RGBA {
	switch r {
	case VeryLow:
		return color.RGBA{R: 0xFF, A: 0xFF} // red
	case Low:
		return color.RGBA{R: 0xFF, G: 0xB6, B: 0xC1, A: 0xFF} // light pink
	case InRange:
		return color.RGBA{G: 0x80, A: 0xFF} // green
	case High:
		return color.RGBA{R: 0xFF, G: 0xFF, A: 0xFF} // yellow
	default:
		return color.RGBA{R: 0xFF, G: 0xA5, A: 0xFF} // orange
	}
}

// Hex returns the range color as #RRGGBB for terminal styling.
func (r Range) Hex() string {
	c := r.Color()
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
