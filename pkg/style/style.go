// Package style maps profitability values to colors for rendering
// production-chain nodes.
//
// The gradient contract is fixed: the minimum of the range is pure red,
// the maximum pure green, the midpoint yellow, with linear channel
// interpolation in between. Values outside the range and inverted range
// bounds are domain errors, never clamped.
package style

import (
	"fmt"

	"github.com/unleex/simchain/pkg/errors"
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the color as a "#rrggbb" string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	black = RGB{0, 0, 0}
	white = RGB{255, 255, 255}
)

// Style is the visual appearance of a rendered node.
type Style struct {
	Foreground RGB
	Background RGB
}

// Gradient maps value within [min, max] onto a red-to-green gradient:
// min is pure red (255,0,0), max pure green (0,255,0), the midpoint
// yellow (255,255,0). Below the midpoint the green channel rises
// linearly; above it the red channel fades linearly.
//
// Returns a domain error when max < min or value lies outside the range.
// A degenerate range (min == max) is defined as pure red.
func Gradient(value, min, max float64) (RGB, error) {
	if max < min {
		return RGB{}, errors.New(errors.ErrCodeInvalidRange, "gradient range [%g, %g] has max below min", min, max)
	}
	if value < min || value > max {
		return RGB{}, errors.New(errors.ErrCodeValueOutOfRange, "value %g outside gradient range [%g, %g]", value, min, max)
	}
	if min == max {
		return RGB{R: 255}, nil
	}

	t := (value - min) / (max - min)
	c := RGB{R: 255, G: 255}
	if t < 0.5 {
		c.G = uint8(255*2*t + 0.5)
	} else if t > 0.5 {
		c.R = uint8(255*2*(1-t) + 0.5)
	}
	return c, nil
}

// ForProfit builds a node style for a profitability value: the gradient
// color as background, with the foreground flipped to black whenever the
// background is bright enough that white text would wash out. The
// brightness cutoff is R+G > 255/2.
func ForProfit(value, min, max float64) (Style, error) {
	bg, err := Gradient(value, min, max)
	if err != nil {
		return Style{}, err
	}
	fg := white
	if int(bg.R)+int(bg.G) > 255/2 {
		fg = black
	}
	return Style{Foreground: fg, Background: bg}, nil
}
