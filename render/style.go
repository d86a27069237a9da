package render

import "github.com/gdamore/tcell/v2"

// Map glyphs
const (
	GlyphObstacle = '#'
	GlyphPlayer   = '@'
	GlyphBody     = 'o'
	GlyphRay      = '.'
	GlyphContact  = 'x'
	GlyphHeading  = '+'
)

var (
	styleFloor     = tcell.StyleDefault
	styleObstacle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBody      = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleRay       = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleContact   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHeading   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleOverlay   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleColliding = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon).Bold(true)
)
