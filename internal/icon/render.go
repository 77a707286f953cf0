// Package icon draws the 32x32 glucose badge used for the tray and the
// window icon.
package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"fyne.io/fyne/v2"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/glucotray/nightscout-tray/internal/constants"
	"github.com/glucotray/nightscout-tray/internal/glucose"
)

// LogoColor is the fill of the badge shown before the first reading.
var LogoColor = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF}

const (
	valueTop     = 5  // top edge of the value text
	bottomMargin = 2  // gap under the trend arrow
	arrowSpan    = 10 // arrow length before rotation
	maxTextWidth = 28
)

var (
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	black = color.RGBA{A: 0xFF}
)

var boldFont *sfnt.Font

func init() {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		panic(fmt.Sprintf("icon: parse bundled font: %v", err))
	}
	boldFont = f
}

// Icon is one rendered badge.
type Icon struct {
	name string
	img  *image.RGBA
}

// Image returns the badge bitmap.
func (i *Icon) Image() image.Image {
	return i.img
}

// Name identifies the badge contents, e.g. "glucose-5.5-Flat.png".
func (i *Icon) Name() string {
	return i.name
}

// PNG encodes the badge. The output is byte-identical for identical inputs.
func (i *Icon) PNG() ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, i.img); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}

// Resource wraps the PNG bytes as a fyne resource for SetIcon and
// SetSystemTrayIcon.
func (i *Icon) Resource() (fyne.Resource, error) {
	data, err := i.PNG()
	if err != nil {
		return nil, err
	}
	return fyne.NewStaticResource(i.name, data), nil
}

// Render draws the badge for a mmol/L value and a trend arrow glyph: a
// circle in the range color with a thin white ring, the value on top and
// the arrow below it.
func Render(value float64, arrow string) *Icon {
	size := constants.IconSize
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	drawBadge(img, glucose.Classify(value).Color(), 1)

	text := glucose.FormatValue(value)
	face := fitFace(text, 11, 7)
	drawCentered(img, face, text, fixed.I(valueTop)+face.Metrics().Ascent)

	if !drawArrow(img, arrow) {
		small := newFace(9)
		baseline := fixed.I(size-bottomMargin) - small.Metrics().Descent
		drawCentered(img, small, glucose.UnknownArrow, baseline)
	}

	return &Icon{name: fmt.Sprintf("glucose-%s-%s.png", text, arrowName(arrow)), img: img}
}

// Logo draws the neutral "NS" badge.
func Logo() *Icon {
	size := constants.IconSize
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	drawBadge(img, LogoColor, 2)

	face := newFace(12)
	m := face.Metrics()
	// Center the cap height rather than the full line box.
	baseline := fixed.I(size/2) + (m.CapHeight / 2)
	drawCentered(img, face, "NS", baseline)

	return &Icon{name: "nightscout-logo.png", img: img}
}

func drawBadge(img *image.RGBA, fill color.Color, ring float64) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	c := float64(w) / 2

	filler := rasterx.NewFiller(w, h, scanner)
	filler.SetColor(fill)
	rasterx.AddCircle(c, c, c, filler)
	filler.Draw()

	// The ring gets its own scanner so the fill path is not stroked again.
	ringScanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	stroker := rasterx.NewStroker(w, h, ringScanner)
	stroker.SetStroke(fixed.Int26_6(ring*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round)
	stroker.SetColor(white)
	// Inset by one pixel from the edge.
	rasterx.AddCircle(c, c, c-1-ring/2, stroker)
	stroker.Draw()
}

func newFace(points float64) font.Face {
	face, err := opentype.NewFace(boldFont, &opentype.FaceOptions{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Only fails for invalid options.
		panic(fmt.Sprintf("icon: create face: %v", err))
	}
	return face
}

// fitFace returns the largest face between largest and smallest points whose
// rendering of text fits inside the circle.
func fitFace(text string, largest, smallest float64) font.Face {
	for size := largest; size > smallest; size-- {
		face := newFace(size)
		if font.MeasureString(face, text) <= fixed.I(maxTextWidth) {
			return face
		}
	}
	return newFace(smallest)
}

func drawCentered(img draw.Image, face font.Face, text string, baseline fixed.Int26_6) {
	width := font.MeasureString(face, text)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(black),
		Face: face,
		Dot:  fixed.Point26_6{X: (fixed.I(img.Bounds().Dx()) - width) / 2, Y: baseline},
	}
	d.DrawString(text)
}

type arrowShape struct {
	angle float64 // radians, 0 points right, positive turns clockwise
	heavy bool
}

var arrowShapes = map[string]arrowShape{
	glucose.ArrowFlat:       {angle: 0},
	glucose.ArrowUp:         {angle: -math.Pi / 4},
	glucose.ArrowDown:       {angle: math.Pi / 4},
	glucose.ArrowDoubleUp:   {angle: -math.Pi / 2, heavy: true},
	glucose.ArrowDoubleDown: {angle: math.Pi / 2, heavy: true},
}

func arrowName(arrow string) string {
	switch arrow {
	case glucose.ArrowFlat:
		return "Flat"
	case glucose.ArrowUp:
		return "Up"
	case glucose.ArrowDown:
		return "Down"
	case glucose.ArrowDoubleUp:
		return "DoubleUp"
	case glucose.ArrowDoubleDown:
		return "DoubleDown"
	default:
		return "Unknown"
	}
}

// drawArrow fills the outline of a known arrow glyph and reports whether
// it knew the glyph.
func drawArrow(img *image.RGBA, arrow string) bool {
	shape, ok := arrowShapes[arrow]
	if !ok {
		return false
	}

	shaft, head, headLen := 1.0, 3.5, 4.0
	if shape.heavy {
		shaft, head, headLen = 1.6, 4.5, 4.5
	}
	half := float64(arrowSpan) / 2

	// Outline of a right-pointing arrow centered on the origin.
	outline := [][2]float64{
		{-half, -shaft},
		{half - headLen, -shaft},
		{half - headLen, -head},
		{half, 0},
		{half - headLen, head},
		{half - headLen, shaft},
		{-half, shaft},
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	cx := float64(w) / 2
	cy := float64(h-bottomMargin) - half

	sin, cos := math.Sincos(shape.angle)
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	filler := rasterx.NewFiller(w, h, scanner)
	filler.SetColor(black)
	for i, p := range outline {
		x := cx + p[0]*cos - p[1]*sin
		y := cy + p[0]*sin + p[1]*cos
		if i == 0 {
			filler.Start(rasterx.ToFixedP(x, y))
		} else {
			filler.Line(rasterx.ToFixedP(x, y))
		}
	}
	filler.Stop(true)
	filler.Draw()
	return true
}
