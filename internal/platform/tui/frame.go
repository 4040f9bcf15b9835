package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Half-block painting: each terminal cell shows two vertical pixels,
// the upper one as the foreground of "▀" and the lower one as the
// background.
const halfBlock = "▀"

// RenderFrame converts a packed RGB frame (width*height*3 bytes,
// row-major) to a styled string, two pixel rows per terminal line.
// Groups adjacent cells with the same color pair to minimize ANSI
// escape sequences.
func RenderFrame(rgb []byte, w, h int) string {
	var sb strings.Builder
	sb.Grow(w * h * 8)

	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < w {
			top := pixelHex(rgb, w, x, y)
			bottom := ""
			if y+1 < h {
				bottom = pixelHex(rgb, w, x, y+1)
			}

			// Collect the run of cells with the same color pair.
			run := 0
			for x+run < w {
				t := pixelHex(rgb, w, x+run, y)
				b := ""
				if y+1 < h {
					b = pixelHex(rgb, w, x+run, y+1)
				}
				if t != top || b != bottom {
					break
				}
				run++
			}

			style := lipgloss.NewStyle().Foreground(lipgloss.Color(top))
			if bottom != "" {
				style = style.Background(lipgloss.Color(bottom))
			}
			sb.WriteString(style.Render(strings.Repeat(halfBlock, run)))
			x += run
		}
	}
	return sb.String()
}

func pixelHex(rgb []byte, w, x, y int) string {
	i := (y*w + x) * 3
	return fmt.Sprintf("#%02x%02x%02x", rgb[i], rgb[i+1], rgb[i+2])
}
