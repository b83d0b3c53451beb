package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	MarkerBg    tcell.Color
	MarkerFg    tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	ErrorFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		MarkerBg:    tcell.NewHexColor(0xffd500),
		MarkerFg:    tcell.ColorBlack,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		ErrorFg:     tcell.ColorRed,
	}
}

// WithMarkerColor returns the theme with a different highlight background.
// Unknown color names keep the current one.
func (t ColorTheme) WithMarkerColor(name string) ColorTheme {
	if c := tcell.GetColor(name); c != tcell.ColorDefault {
		t.MarkerBg = c
	}
	return t
}
