package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/gdsfx/internal/library"
)

// RowState carries the per-entry flags a row renders
type RowState struct {
	Enabled    bool
	Favorite   bool
	Downloaded bool
}

// SoundRow renders one library entry in the tree or the favourites list.
// It reports taps, hovers and secondary taps so the window can apply the
// configured select mode.
type SoundRow struct {
	widget.BaseWidget

	entry *library.Entry
	state RowState

	name   *canvas.Text
	detail *canvas.Text

	onTap   func(*library.Entry)
	onHover func(*library.Entry)
	onMenu  func(*library.Entry, fyne.Position)
}

var (
	_ fyne.Tappable          = (*SoundRow)(nil)
	_ fyne.SecondaryTappable = (*SoundRow)(nil)
	_ desktop.Hoverable      = (*SoundRow)(nil)
)

// NewSoundRow creates an empty row. Callbacks may be nil.
func NewSoundRow(onTap, onHover func(*library.Entry), onMenu func(*library.Entry, fyne.Position)) *SoundRow {
	r := &SoundRow{
		name:    canvas.NewText("", theme.Color(theme.ColorNameForeground)),
		detail:  canvas.NewText("", theme.Color(theme.ColorNamePlaceHolder)),
		onTap:   onTap,
		onHover: onHover,
		onMenu:  onMenu,
	}
	r.detail.Alignment = fyne.TextAlignTrailing
	r.ExtendBaseWidget(r)
	return r
}

// Entry returns the entry currently shown
func (r *SoundRow) Entry() *library.Entry {
	return r.entry
}

// Text returns the rendered name, used by tests and accessibility
func (r *SoundRow) Text() string {
	return r.name.Text
}

// Update shows entry with the given state
func (r *SoundRow) Update(entry *library.Entry, state RowState) {
	r.entry = entry
	r.state = state

	r.name.Text = ""
	r.detail.Text = ""
	r.name.TextStyle = fyne.TextStyle{}
	if entry != nil {
		r.name.Text = entry.Name
		if entry.IsCategory() {
			r.name.TextStyle.Bold = true
		} else {
			if state.Favorite {
				r.name.Text = IconFavorite + " " + entry.Name
			}
			r.detail.Text = entry.Duration.String()
			if state.Downloaded {
				r.detail.Text += " " + IconDownloaded
			}
		}
	}

	r.name.Color = theme.Color(theme.ColorNameForeground)
	r.detail.Color = theme.Color(theme.ColorNamePlaceHolder)
	if state.Downloaded {
		r.detail.Color = theme.Color(theme.ColorNameSuccess)
	}
	if !state.Enabled {
		r.name.Color = theme.Color(theme.ColorNameDisabled)
		r.detail.Color = theme.Color(theme.ColorNameDisabled)
	}

	r.Refresh()
}

// CreateRenderer creates the widget renderer
func (r *SoundRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, nil, r.detail, r.name))
}

// Tapped handles primary clicks
func (r *SoundRow) Tapped(*fyne.PointEvent) {
	if r.active() && r.onTap != nil {
		r.onTap(r.entry)
	}
}

// TappedSecondary opens the context menu
func (r *SoundRow) TappedSecondary(ev *fyne.PointEvent) {
	if r.active() && r.entry.IsSound() && r.onMenu != nil {
		r.onMenu(r.entry, ev.AbsolutePosition)
	}
}

// MouseIn selects the entry in hover mode
func (r *SoundRow) MouseIn(*desktop.MouseEvent) {
	if r.active() && r.onHover != nil {
		r.onHover(r.entry)
	}
}

// MouseMoved is required by desktop.Hoverable
func (r *SoundRow) MouseMoved(*desktop.MouseEvent) {}

// MouseOut is required by desktop.Hoverable
func (r *SoundRow) MouseOut() {}

func (r *SoundRow) active() bool {
	return r.entry != nil && r.state.Enabled
}
