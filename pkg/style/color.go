package style

import (
	"github.com/lucasb-eyer/go-colorful"
)

// dimSaturation is the saturation ceiling applied when dimming a color.
// Luminance is preserved so dimmed nodes keep their relative brightness.
const dimSaturation = 0.25

// dimFallback is used when a color cannot be parsed.
const dimFallback = "#d0d0d0"

// Dim desaturates a hex color toward gray, keeping hue and luminance.
// The result is deterministic for a given input, which style computation
// relies on for idempotence. Unparseable colors map to a fixed gray.
func Dim(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return dimFallback
	}
	h, s, l := c.Hsl()
	if s > dimSaturation {
		s = dimSaturation
	}
	return colorful.Hsl(h, s, l).Hex()
}
