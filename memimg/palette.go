package memimg

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette maps sprite symbols to colours. Symbols with no colour are
// transparent, and so are symbols the palette does not know.
type Palette struct {
	colors map[rune]color.Color
}

type paletteFile struct {
	Symbols map[string]*string `json:"symbols"`
}

// ParsePalette decodes palette.json: {"symbols": {"G": "#5a8f3c", ".": null}}.
func ParsePalette(data []byte) (*Palette, error) {
	var raw paletteFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPalette, err)
	}
	if len(raw.Symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols", ErrPalette)
	}

	colors := make(map[rune]color.Color, len(raw.Symbols))
	for key, value := range raw.Symbols {
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("%w: symbol must be one character: '%s'", ErrPalette, key)
		}
		symbol, _ := utf8.DecodeRuneInString(key)
		if value == nil || strings.TrimSpace(*value) == "" {
			colors[symbol] = nil
			continue
		}
		c, err := colorful.Hex(strings.TrimSpace(*value))
		if err != nil {
			return nil, fmt.Errorf("%w: symbol '%s': %v", ErrPalette, key, err)
		}
		r, g, b := c.RGB255()
		colors[symbol] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return &Palette{colors: colors}, nil
}

// Color returns the colour for symbol, or false when it is transparent.
func (p *Palette) Color(symbol rune) (color.Color, bool) {
	c, ok := p.colors[symbol]
	if !ok || c == nil {
		return nil, false
	}
	return c, true
}
