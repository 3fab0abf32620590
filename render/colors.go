package render

import "github.com/gdamore/tcell/v2"

// Palette (Tokyo Night)
var (
	ColorBackground = tcell.NewRGBColor(26, 27, 38)
	ColorScenery    = tcell.NewRGBColor(86, 95, 137)
	ColorObject     = tcell.NewRGBColor(224, 175, 104)
	ColorSprite     = tcell.NewRGBColor(125, 207, 255)
	ColorTrack      = tcell.NewRGBColor(187, 154, 247)
	ColorActor      = tcell.NewRGBColor(158, 206, 106)
	ColorText       = tcell.NewRGBColor(192, 202, 245)
	ColorOption     = tcell.NewRGBColor(255, 158, 100)
	ColorDebug      = tcell.NewRGBColor(247, 118, 142)
)

// Styles derived from the palette
var (
	StyleDefault = tcell.StyleDefault.Background(ColorBackground)
	StyleScenery = StyleDefault.Foreground(ColorScenery)
	StyleObject  = StyleDefault.Foreground(ColorObject)
	StyleSprite  = StyleDefault.Foreground(ColorSprite)
	StyleTrack   = StyleDefault.Foreground(ColorTrack)
	StyleActor   = StyleDefault.Foreground(ColorActor).Bold(true)
	StyleText    = StyleDefault.Foreground(ColorText)
	StyleOption  = StyleDefault.Foreground(ColorOption)
	StyleDebug   = StyleDefault.Foreground(ColorDebug).Reverse(true)
)

// speakerStyles cycles per speaker slot so split-screen lines are told apart
var speakerStyles = []tcell.Style{
	StyleText,
	StyleDefault.Foreground(ColorActor),
	StyleDefault.Foreground(ColorSprite),
	StyleDefault.Foreground(ColorTrack),
	StyleDefault.Foreground(ColorObject),
}
