// Not-at-all novel terminal style copypasta, originally from
// https://raw.githubusercontent.com/shabbyrobe/golib/master/termfmt/termfmt.go
// Provided under an MIT license.  Cut down to what the view echo needs.
package termfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

type Escape interface {
	Wrap(out string) string
}

func With(escs ...Escape) Style           { return (Style{}).With(escs...) }
func Bold() Style                         { return (Style{}).Bold() }
func Italic() Style                       { return (Style{}).Italic() }
func Fg(r, g, b uint8, c16 C16Name) Style { return (Style{}).Fg(r, g, b, c16) }

type Style struct {
	escapes []Escape
	v       any
}

var _ fmt.Formatter = Style{}

func (c Style) With(escs ...Escape) Style {
	c.escapes = append(c.escapes, escs...)
	return c
}

func (c Style) Bold() Style   { return c.With(BoldEscape{}) }
func (c Style) Italic() Style { return c.With(ItalicEscape{}) }

func (c Style) Fg(r, g, b uint8, c16 C16Name) Style {
	return c.With((ColorCascade{}).
		RGB(RGBColor{r, g, b}).
		C256(C256Color{RGBTo256(r, g, b)}).
		C16(C16Color{c16}))
}

func (c Style) V(v any) Style {
	c.v = v
	return c
}

// Sprint applies the style to s.
func (c Style) Sprint(s string) string {
	if Plain {
		return s
	}
	return fmt.Sprintf("%s", c.V(s))
}

func (c Style) Format(f fmt.State, verb rune) {
	v := fmt.Sprintf(buildValueFormat(f, verb), c.v)
	v = printable(v)
	for i := len(c.escapes) - 1; i >= 0; i-- {
		v = c.escapes[i].Wrap(v)
	}
	f.Write([]byte(v))
}

func RGBTo256(r, g, b uint8) uint8 {
	if r == g && g == b {
		return ((r - 8) / 10) + 232
	}
	r = uint8(math.Floor(float64(r) / 255.0 * 6.0))
	g = uint8(math.Floor(float64(g) / 255.0 * 6.0))
	b = uint8(math.Floor(float64(b) / 255.0 * 6.0))
	return uint8(16 + (36 * r) + (6 * g) + b)
}

func buildValueFormat(f fmt.State, verb rune) string {
	s := "%"
	if f.Flag('-') {
		s += "-"
	}
	width, ok := f.Width()
	if ok {
		s += strconv.Itoa(width)
	}
	prec, ok := f.Precision()
	if ok {
		s += "." + strconv.Itoa(prec)
	}
	s += string(verb)
	return s
}

type BoldEscape struct{}

func (b BoldEscape) Wrap(v string) string { return fmt.Sprintf("\x1b[1m%s\x1b[0m", v) }

type ItalicEscape struct{}

func (b ItalicEscape) Wrap(v string) string { return fmt.Sprintf("\x1b[3m%s\x1b[0m", v) }

// https://github.com/termstandard/colors
type RGBColor struct {
	R, G, B uint8
}

func (rgb RGBColor) Wrap(out string) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm"+"%s"+"\x1b[0m", rgb.R, rgb.G, rgb.B, out)
}

type C256Color struct {
	C uint8
}

func (c C256Color) Wrap(out string) string {
	return fmt.Sprintf("\x1b[38;5;%dm"+"%s"+"\x1b[0m", c.C, out)
}

type C16Name uint8

const (
	DefaultColor C16Name = iota

	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	LightGrey
)

type C16Color struct {
	Name C16Name
}

func (c C16Color) Wrap(out string) string {
	cv := uint8(39)
	if c.Name != DefaultColor {
		// Our enum starts at one, the escapes at 30.
		cv = uint8(c.Name) - 1 + 30
	}
	return fmt.Sprintf("\x1b[%dm"+"%s"+"\x1b[0m", cv, out)
}

// Plain turns every escape off, for output that isn't a terminal.
var Plain bool

var (
	rgbSupported  = true
	c256Supported = true
)

func RGBSupported(supported bool)  { rgbSupported = supported }
func C256Supported(supported bool) { c256Supported = supported }

type ColorCascade struct {
	rgb    RGBColor
	rgbSet bool

	c256    C256Color
	c256Set bool

	c16    C16Color
	c16Set bool
}

func (cc ColorCascade) Wrap(out string) string {
	if rgbSupported && cc.rgbSet {
		return cc.rgb.Wrap(out)
	} else if c256Supported && cc.c256Set {
		return cc.c256.Wrap(out)
	} else if cc.c16Set {
		return cc.c16.Wrap(out)
	}
	return out
}

func (cc ColorCascade) RGB(c RGBColor) ColorCascade {
	cc.rgb = c
	cc.rgbSet = true
	return cc
}

func (cc ColorCascade) C256(c C256Color) ColorCascade {
	cc.c256 = c
	cc.c256Set = true
	return cc
}

func (cc ColorCascade) C16(c C16Color) ColorCascade {
	cc.c16 = c
	cc.c16Set = true
	return cc
}

func mapPrintable(r rune) rune {
	if unicode.IsGraphic(r) {
		return r
	}
	return -1
}

func printable(v string) string {
	return strings.Map(mapPrintable, v)
}
