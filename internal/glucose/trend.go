package glucose

// UnknownArrow is shown for directions outside the known set.
const UnknownArrow = "?"

// Trend arrow glyphs.
const (
	ArrowFlat       = "→"
	ArrowUp         = "↗"
	ArrowDoubleUp   = "⬆"
	ArrowDown       = "↘"
	ArrowDoubleDown = "⬇"
)

var arrows = map[string]string{
	"Flat":          ArrowFlat,
	"SingleUp":      ArrowUp,
	"DoubleUp":      ArrowDoubleUp,
	"SingleDown":    ArrowDown,
	"DoubleDown":    ArrowDoubleDown,
	"FortyFiveUp":   ArrowUp,
	"FortyFiveDown": ArrowDown,
}

// Arrow maps a Nightscout direction name to its glyph. The mapping is total:
// anything unrecognized, including "NOT COMPUTABLE" and "", yields "?".
func Arrow(direction string) string {
	if a, ok := arrows[direction]; ok {
		return a
	}
	return UnknownArrow
}
