package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidHexColor is returned when a colour string is not #RRGGBB or RRGGBB
var ErrInvalidHexColor = errors.New("invalid hex colour")

// RuntimeConfig holds user overrides collected from CLI flags.
// Nil fields fall back to the compile-time defaults above.
type RuntimeConfig struct {
	TextColorR *uint8
	TextColorG *uint8
	TextColorB *uint8

	Subtitle string // Optional footer line on the thumbnail
}

// GetTextColor returns the caption colour. All three channels must be set
// for the override to apply.
func (c *RuntimeConfig) GetTextColor() (uint8, uint8, uint8) {
	if c == nil || c.TextColorR == nil || c.TextColorG == nil || c.TextColorB == nil {
		return TextColorR, TextColorG, TextColorB
	}
	return *c.TextColorR, *c.TextColorG, *c.TextColorB
}

// SetTextColorHex parses s and stores it as the caption colour override
func (c *RuntimeConfig) SetTextColorHex(s string) error {
	r, g, b, err := ParseHexColor(s)
	if err != nil {
		return err
	}
	c.TextColorR, c.TextColorG, c.TextColorB = &r, &g, &b
	return nil
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB" (case-insensitive)
func ParseHexColor(s string) (uint8, uint8, uint8, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q (want 6 hex digits)", ErrInvalidHexColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHexColor, s)
	}

	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
