package glucose

import (
	"fmt"
	"math"
	"time"
)

// MgdlPerMmol is the mg/dL to mmol/L conversion factor for glucose.
const MgdlPerMmol = 18.0182

// Reading is one Nightscout "sgv" entry. Only the fields the tray displays
// are decoded; a Reading is never mutated after it is decoded.
type Reading struct {
	SGV        int    `json:"sgv"`
	Direction  string `json:"direction"`
	Date       int64  `json:"date"`
	DateString string `json:"dateString,omitempty"`
}

// ToMmol converts mg/dL to mmol/L rounded to one decimal place.
// Midpoints round to even, matching .NET's Math.Round default that
// Nightscout Windows clients historically used.
func ToMmol(mgdl int) float64 {
	return math.RoundToEven(float64(mgdl)/MgdlPerMmol*10) / 10
}

// MmolL returns the reading in mmol/L, one decimal.
func (r Reading) MmolL() float64 {
	return ToMmol(r.SGV)
}

// Time returns the reading timestamp in the local time zone.
func (r Reading) Time() time.Time {
	return time.UnixMilli(r.Date).Local()
}

// Arrow returns the trend glyph for the reading's direction.
func (r Reading) Arrow() string {
	return Arrow(r.Direction)
}

// Range classifies the reading's mmol/L value.
func (r Reading) Range() Range {
	return Classify(r.MmolL())
}

// FormatValue renders a mmol/L value the way the icon and title show it.
func FormatValue(mmol float64) string {
	return fmt.Sprintf("%.1f", mmol)
}

// Title is the window title text: value, arrow and HH:mm.
func (r Reading) Title() string {
	return fmt.Sprintf("Glucose: %s mmol/L %s %s", FormatValue(r.MmolL()), r.Arrow(), r.Time().Format("15:04"))
}

// Tooltip is the short tray tooltip: HH:mm first so it reads well when truncated.
func (r Reading) Tooltip() string {
	return fmt.Sprintf("%s - %s mmol/L %s", r.Time().Format("15:04"), FormatValue(r.MmolL()), r.Arrow())
}

// Details is the multi-line text of the details dialog. The direction is
// printed as received, blank when the uploader sent none.
func (r Reading) Details() string {
	return fmt.Sprintf("Latest Glucose Reading:\n\nValue: %s mmol/L\nTrend: %s %s\nTime: %s",
		FormatValue(r.MmolL()),
		r.Direction,
		r.Arrow(),
		r.Time().Format("2006-01-02 15:04:05"),
	)
}
