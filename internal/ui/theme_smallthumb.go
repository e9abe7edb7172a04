package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// smallThumbTheme shrinks the inline icon size, which Fyne also uses for the
// slider thumb. The toolbar volume slider looks oversized otherwise.
type smallThumbTheme struct{ fyne.Theme }

func (t smallThumbTheme) Size(n fyne.ThemeSizeName) float32 {
	if n == theme.SizeNameInlineIcon {
		return t.Theme.Size(n) * 0.5
	}
	return t.Theme.Size(n)
}

// UseSmallThumbTheme wraps the current app theme so sliders get the small
// thumb. Call it after the base theme has been set.
func UseSmallThumbTheme() {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	app.Settings().SetTheme(smallThumbTheme{Theme: app.Settings().Theme()})
}
