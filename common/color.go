package common

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var ErrUnknownColor = errors.New("unknown color")

// ParseColor accepts SVG color names ("purple", "crimson"), "#rgb",
// "#rrggbb" and "#rrggbbaa" hex forms. Names are case-insensitive and may
// contain spaces ("light blue").
func ParseColor(s string) (color.RGBA, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if key == "" {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrUnknownColor)
	}
	if key == "transparent" || key == "none" {
		return color.RGBA{}, nil
	}
	if strings.HasPrefix(key, "#") {
		return parseHex(s, key[1:])
	}
	if c, ok := colornames.Map[key]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrUnknownColor)
}

// MustColor is ParseColor for literals known at compile time.
func MustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(orig, hex string) (color.RGBA, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: %w", orig, ErrUnknownColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", orig, ErrUnknownColor)
	}
	// color.RGBA is alpha-premultiplied.
	a := uint8(v)
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: a}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}
