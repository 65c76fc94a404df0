// Package export renders configurations and energy traces as SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
)

// Disc is one atom as drawn: its world position, radius and atom type.
type Disc struct {
	Center r2.Point
	Radius float64
	Type   int
}

// Scene is a snapshot of the box and the atoms of every body.
type Scene struct {
	Bounds r2.Rect
	// Outline is the box boundary; an empty outline draws Bounds.
	Outline []r2.Point
	Bodies  [][]Disc
}

var palette = []string{"#00ccff", "#ff00ff", "#00ff88", "#ffaa00", "#ff4444", "#aaaaff"}

func colorOf(typ int) string {
	if typ < 0 {
		return "#888888"
	}
	return palette[typ%len(palette)]
}

// SceneToSVG draws the scene with scale pixels per length unit. The y axis
// points up as in the simulation frame.
func SceneToSVG(scene Scene, scale float64) string {
	size := scene.Bounds.Size()
	width := size.X * scale
	height := size.Y * scale

	lo := scene.Bounds.Lo()
	toScreen := func(p r2.Point) (float64, float64) {
		return (p.X - lo.X) * scale, height - (p.Y-lo.Y)*scale
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	outline := scene.Outline
	if len(outline) == 0 {
		v := scene.Bounds.Vertices()
		outline = v[:]
	}
	sb.WriteString(`<polygon fill="none" stroke="#444466" stroke-width="1" points="`)
	for i, p := range outline {
		x, y := toScreen(p)
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}
	sb.WriteString("\"/>\n")

	for _, discs := range scene.Bodies {
		if len(discs) > 1 {
			sb.WriteString(`<polyline fill="none" stroke="#666688" stroke-width="1" points="`)
			for i, d := range discs {
				x, y := toScreen(d.Center)
				if i > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			}
			sb.WriteString("\"/>\n")
		}
		for _, d := range discs {
			x, y := toScreen(d.Center)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="0.8"/>
`, x, y, d.Radius*scale, colorOf(d.Type)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws values against their index as a single path.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
